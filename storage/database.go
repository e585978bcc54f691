package storage

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"miami-getaway-server/models"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Load the .env file if present
	godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Panic("DATABASE_URL is not set in the environment variables")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Printf("[error] failed to initialize database, got error %v", dbError)
		log.Panic("Error connecting to the database")
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Apartment{},
		&models.Reservation{},
		&models.Payment{},
		&models.ServiceItem{},
		&models.MonthlySummary{},
		&models.NotificationLog{},
		&models.AuditLog{},
		&models.Review{},
		&models.ApartmentBlock{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
