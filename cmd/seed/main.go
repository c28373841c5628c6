package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourbook/internal/auth"
	"tourbook/internal/catalog"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/internal/shared/migrations"

	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Tourbook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := migrations.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"invoice_reservations",
		"invoice_lines",
		"invoices",
		"cart_items",
		"reservations",
		"availability_ledger",
		"packages",
		"users",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll seeds users and the travel package catalog
func (s *Seeder) SeedAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	return s.seedPackages(ctx)
}

func (s *Seeder) seedUsers(_ context.Context) error {
	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []auth.User{
		{
			FirstName: "Olga",
			LastName:  "Ramirez",
			Email:     "operator@tourbook.test",
			Password:  string(password),
			Role:      auth.RoleOperator,
		},
		{
			FirstName: "Diego",
			LastName:  "Mora",
			Email:     "diego@tourbook.test",
			Password:  string(password),
			Role:      auth.RoleUser,
		},
		{
			FirstName: "Lucia",
			LastName:  "Paredes",
			Email:     "lucia@tourbook.test",
			Password:  string(password),
			Role:      auth.RoleUser,
		},
	}

	for i := range users {
		if err := s.db.GetPostgreSQL().Create(&users[i]).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", users[i].Email, err)
		}
		fmt.Printf("  👤 %s (%s)\n", users[i].Email, users[i].Role)
	}
	return nil
}

func (s *Seeder) seedPackages(_ context.Context) error {
	packages := []catalog.Package{
		{
			Code:               "GAL-CRUISE-4D",
			Title:              "Galapagos Island Cruise",
			Description:        "Four days sailing the archipelago with naturalist guides.",
			PriceAdult:         1890.00,
			PriceChild:         945.00,
			Currency:           "USD",
			DurationDays:       4,
			CancellationPolicy: "Free cancellation up to 8 hours before departure.",
		},
		{
			Code:               "QUITO-CITY-1D",
			Title:              "Quito Colonial City Tour",
			Description:        "Old town walking tour with the Teleferico cable car.",
			PriceAdult:         65.00,
			PriceChild:         32.50,
			Currency:           "USD",
			DurationDays:       1,
			CancellationPolicy: "Free cancellation up to 8 hours before departure.",
		},
		{
			Code:               "BANOS-ADV-2D",
			Title:              "Banos Adventure Weekend",
			Description:        "Rafting, canyoning and the swing at the end of the world.",
			PriceAdult:         210.00,
			PriceChild:         120.00,
			Currency:           "USD",
			DurationDays:       2,
			CancellationPolicy: "Free cancellation up to 8 hours before departure.",
		},
		{
			Code:               "CUENCA-HER-3D",
			Title:              "Cuenca Heritage Escape",
			Description:        "Colonial architecture, Cajas National Park and artisan markets.",
			PriceAdult:         340.00,
			PriceChild:         170.00,
			Currency:           "USD",
			DurationDays:       3,
			CancellationPolicy: "Free cancellation up to 8 hours before departure.",
		},
		{
			Code:               "AMAZON-LDG-5D",
			Title:              "Amazon Rainforest Lodge",
			Description:        "Five days deep in Yasuni with canoe excursions and night walks.",
			PriceAdult:         1250.00,
			PriceChild:         625.00,
			Currency:           "USD",
			DurationDays:       5,
			CancellationPolicy: "Free cancellation up to 8 hours before departure.",
		},
	}

	for i := range packages {
		if err := s.db.GetPostgreSQL().Create(&packages[i]).Error; err != nil {
			return fmt.Errorf("failed to create package %s: %w", packages[i].Code, err)
		}
		fmt.Printf("  📦 %s - %s\n", packages[i].Code, packages[i].Title)
	}
	return nil
}
