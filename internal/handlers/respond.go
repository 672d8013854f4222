package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
)

// fail maps a service error to its HTTP status. Unclassified errors are
// logged server-side and surfaced as a bare 500.
func fail(ctx *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logging.L.WithError(err).Error("request failed")
	}
	ctx.JSON(status, gin.H{"error": apperr.Message(err)})
}

func badRequest(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
}

func unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
}
