package db

import (
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(conn *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Action{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.Result{},
		&models.UserAnswer{},
		&models.Notification{},
	}

	for _, entity := range entities {
		if err := conn.AutoMigrate(entity); err != nil {
			return err
		}
	}

	return nil
}
