package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"fleettrack/internal/config"
	"fleettrack/internal/db"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
)

// demoDriver is a development fixture account.
type demoDriver struct {
	Name      string
	Email     string
	Password  string
	FuelPrice float64
}

var demoFleet = []demoDriver{
	{Name: "Ann Kovacs", Email: "ann@fleet.example", Password: "secret1", FuelPrice: 259.5},
	{Name: "Marcus Webb", Email: "marcus@fleet.example", Password: "secret2", FuelPrice: 300},
	{Name: "Priya Nair", Email: "priya@fleet.example", Password: "secret3", FuelPrice: 0},
	{Name: "Tomas Lindqvist", Email: "tomas@fleet.example", Password: "secret4", FuelPrice: 187.25},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	log.Println("Seeding demo fleet accounts...")
	seeded, updated, err := seedFleet(ctx, userRepo, demoFleet)
	if err != nil {
		log.Fatalf("Failed to seed accounts: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New accounts created: %d", seeded)
	log.Printf("  - Existing accounts updated: %d", updated)
	log.Printf("  - Total accounts processed: %d", seeded+updated)
}

// seedFleet creates missing demo accounts and refreshes the fuel price of
// existing ones. Passwords go through the same bcrypt path as registration.
func seedFleet(ctx context.Context, repo repository.UserRepository, fleet []demoDriver) (seeded int, updated int, err error) {
	for _, driver := range fleet {
		existing, err := repo.FindByEmail(ctx, driver.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return seeded, updated, err
		}

		if existing != nil {
			if err := repo.UpdateFuelPrice(ctx, driver.Email, driver.FuelPrice); err != nil {
				return seeded, updated, err
			}
			updated++
			continue
		}

		hash, err := service.HashPassword(driver.Password)
		if err != nil {
			return seeded, updated, err
		}
		user := &model.User{
			Name:         driver.Name,
			Email:        driver.Email,
			PasswordHash: hash,
			FuelPrice:    driver.FuelPrice,
		}
		if err := repo.Create(ctx, user); err != nil {
			return seeded, updated, err
		}
		seeded++
	}

	return seeded, updated, nil
}
