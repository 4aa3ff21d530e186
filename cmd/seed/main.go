package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tripvia/internal/catalog"
	"tripvia/internal/shared/config"
	"tripvia/internal/shared/database"
	"tripvia/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Tripvia database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned")

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("Database seeded")

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"notifications",
		"payment_proofs",
		"bookings",
		"trips",
		"travels",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if _, err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedTrips(); err != nil {
		return fmt.Errorf("failed to seed trips: %w", err)
	}

	if err := s.SeedTravels(); err != nil {
		return fmt.Errorf("failed to seed travels: %w", err)
	}

	// Clear Redis cache so the catalog endpoints see fresh data
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin and 2 regular users
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key   string
		name  string
		phone string
		email string
		role  users.Role
	}{
		{"admin", "Admin Tripvia", "+6281200000001", "admin@tripvia.id", users.RoleAdmin},
		{"user1", "Budi Santoso", "+6281200000002", "budi@gmail.com", users.RoleUser},
		{"user2", "Siti Rahayu", "+6281200000003", "siti@gmail.com", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Name:      userData.name,
			Phone:     userData.phone,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedTrips creates open-trip packages
func (s *Seeder) SeedTrips() error {
	fmt.Println("  Seeding trips...")

	tripsData := []catalog.Trip{
		{
			Name:         "Open Trip Bromo Sunrise",
			Description:  "Trip 2 hari 1 malam ke Gunung Bromo, termasuk jeep dan penginapan.",
			Destination:  "Bromo, Jawa Timur",
			DurationDays: 2,
			Price:        850000,
			Quota:        20,
			Active:       true,
		},
		{
			Name:         "Open Trip Karimunjawa",
			Description:  "Trip 3 hari 2 malam, snorkeling dan island hopping.",
			Destination:  "Karimunjawa, Jawa Tengah",
			DurationDays: 3,
			Price:        1450000,
			Quota:        15,
			Active:       true,
		},
		{
			Name:         "Open Trip Dieng Culture",
			Description:  "Trip 2 hari 1 malam ke dataran tinggi Dieng.",
			Destination:  "Dieng, Jawa Tengah",
			DurationDays: 2,
			Price:        650000,
			Quota:        25,
			Active:       true,
		},
	}

	for i := range tripsData {
		tripsData[i].ID = uuid.New()
		if err := s.db.PostgreSQL.Create(&tripsData[i]).Error; err != nil {
			return fmt.Errorf("failed to create trip %s: %w", tripsData[i].Name, err)
		}
		fmt.Printf("    Created trip: %s\n", tripsData[i].Name)
	}

	return nil
}

// SeedTravels creates shuttle routes
func (s *Seeder) SeedTravels() error {
	fmt.Println("  Seeding travels...")

	travelsData := []catalog.Travel{
		{
			Name:        "Shuttle Jakarta - Bandung",
			Origin:      "Jakarta",
			Destination: "Bandung",
			Schedule:    "07:00, 10:00, 14:00, 18:00",
			Price:       150000,
			Active:      true,
		},
		{
			Name:        "Shuttle Surabaya - Malang",
			Origin:      "Surabaya",
			Destination: "Malang",
			Schedule:    "06:00, 12:00, 17:00",
			Price:       95000,
			Active:      true,
		},
		{
			Name:        "Shuttle Yogyakarta - Semarang",
			Origin:      "Yogyakarta",
			Destination: "Semarang",
			Schedule:    "08:00, 13:00, 18:00",
			Price:       110000,
			Active:      true,
		},
	}

	for i := range travelsData {
		travelsData[i].ID = uuid.New()
		if err := s.db.PostgreSQL.Create(&travelsData[i]).Error; err != nil {
			return fmt.Errorf("failed to create travel %s: %w", travelsData[i].Name, err)
		}
		fmt.Printf("    Created travel: %s\n", travelsData[i].Name)
	}

	return nil
}
