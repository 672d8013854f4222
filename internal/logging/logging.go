package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// L is the application logger, configured once in Init.
var L = logrus.New()

func Init(level, format string) {
	switch level {
	case "trace":
		L.SetLevel(logrus.TraceLevel)
	case "debug":
		L.SetLevel(logrus.DebugLevel)
	case "warning", "warn":
		L.SetLevel(logrus.WarnLevel)
	case "error":
		L.SetLevel(logrus.ErrorLevel)
	default:
		L.SetLevel(logrus.InfoLevel)
	}

	if format == "json" {
		L.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		L.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	L.SetOutput(os.Stdout)
}
