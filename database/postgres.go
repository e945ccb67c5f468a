package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"legendario-service/config"
	"legendario-service/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var Postgres *gorm.DB

func PostgresConnect() {
	var err error
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.Config("POSTGRES_HOST"),
		config.Config("POSTGRES_PORT"),
		config.Config("POSTGRES_USER"),
		config.Config("POSTGRES_PASSWORD"),
		config.Config("POSTGRES_DB"),
	)
	Postgres, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect postgres")
	}

	log.Printf("Connection opened to Postgres")
	Migrate(Postgres)
	log.Printf("Postgres Database Migrated")
}

// Migrate applies the schema. Separate from PostgresConnect so tests
// can run it against their own database handle.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&model.User{},
		&model.Connection{},
		&model.AwardEvent{},
		&model.Badge{},
		&model.Conversation{},
		&model.Message{},
	)
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
// The string checks cover drivers that predate gorm's error
// translation (Postgres "duplicate key", SQLite "UNIQUE constraint").
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
