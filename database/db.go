package database

import (
	"fmt"
	"os"

	"zynvoice-backend/models"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Connect opens the shared gorm handle. The .env file is optional; real
// deployments inject the variables directly.
func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		env("DB_HOST", "localhost"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		env("DB_PORT", "5432"),
		env("DB_SSLMODE", "disable"))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	log.Info().Str("host", env("DB_HOST", "localhost")).Str("db", os.Getenv("DB_NAME")).
		Msg("database connected")
}

// AutoMigratePublic migrates the shared public-schema tables (accounts and
// company profiles). Tenant tables are migrated per schema on registration.
func AutoMigratePublic() {
	if err := DB.AutoMigrate(&models.ContactPerson{}, &models.Company{}, &models.User{}); err != nil {
		log.Fatal().Err(err).Msg("public schema migration failed")
	}
}
