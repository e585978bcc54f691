package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"miami-getaway-server/models"
	"miami-getaway-server/storage"
)

// Seeds the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD and a
// demo apartment so a fresh deployment has something to log into.
func main() {
	godotenv.Load()
	storage.InitializeDB()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var existing models.User
	if err := storage.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Println("admin already exists, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing admin password: %v", err)
	}
	admin := models.User{
		FirstName: "Admin",
		Email:     email,
		Password:  string(hash),
		Role:      "admin",
	}
	if err := storage.DB.Create(&admin).Error; err != nil {
		log.Fatalf("creating admin: %v", err)
	}

	var apartmentCount int64
	storage.DB.Model(&models.Apartment{}).Count(&apartmentCount)
	if apartmentCount == 0 {
		demo := models.Apartment{
			Name:          "Brickell Bay Loft",
			UnitNumber:    "1203",
			Address:       "1200 Brickell Bay Dr",
			City:          "Miami",
			Capacity:      4,
			Rooms:         2,
			Bathrooms:     2,
			PricePerNight: 180,
			CleaningFee:   60,
			Active:        true,
		}
		if err := storage.DB.Create(&demo).Error; err != nil {
			log.Fatalf("creating demo apartment: %v", err)
		}
	}

	fmt.Println("seed completed")
}
