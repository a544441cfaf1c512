package main

import (
	"log"
	"os"

	"github.com/ponderrr/smartadvisor/internal/model"
	"github.com/ponderrr/smartadvisor/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	seedSubscriptionPlans(db)

	log.Println("✅ Success: Seeding completed.")
}

func seedSubscriptionPlans(db *gorm.DB) {
	plans := []model.SubscriptionPlan{
		{
			Name:              "Free",
			Slug:              "free",
			Description:       "Get started with a limited number of recommendation sessions per day.",
			Price:             0,
			BillingPeriod:     "monthly",
			DailySessionLimit: 3,
			MaxQuestionCount:  5,
			IsActive:          true,
			SortOrder:         0,
		},
		{
			Name:              "Premium Monthly",
			Slug:              "premium-monthly",
			Description:       "Unlimited recommendation sessions and up to 15 questions per session.",
			Price:             49000,
			BillingPeriod:     "monthly",
			DailySessionLimit: -1,
			MaxQuestionCount:  15,
			IsActive:          true,
			SortOrder:         1,
		},
		{
			Name:              "Premium Yearly",
			Slug:              "premium-yearly",
			Description:       "Everything in Premium, billed once a year.",
			Price:             490000,
			BillingPeriod:     "yearly",
			DailySessionLimit: -1,
			MaxQuestionCount:  15,
			IsActive:          true,
			SortOrder:         2,
		},
	}

	// Upsert on slug so reruns stay idempotent
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price", "billing_period", "daily_session_limit", "max_question_count", "is_active", "sort_order"}),
	}).Create(&plans).Error
	if err != nil {
		log.Fatalf("Error: Failed to seed subscription plans: %v", err)
	}

	log.Printf("Seeded %d subscription plans", len(plans))
}
