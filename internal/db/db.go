package db

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bullpen/internal/models"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=bullpen port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.CategoryModerator{},
		&models.Thread{},
		&models.Comment{},
		&models.ThreadLike{},
		&models.CommentLike{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Report{},
		&models.AdminLog{},
		&models.Notification{},
		&models.ReputationLog{},
		&models.ThreadView{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCategories()
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Slug: "markets", Name: "Markets", Description: "Equities, indices and macro talk"},
		{Slug: "crypto", Name: "Crypto", Description: "Digital asset discussion"},
		{Slug: "strategies", Name: "Strategies", Description: "Trading setups and portfolio ideas"},
		{Slug: "off-topic", Name: "Off Topic", Description: "Everything else"},
		{Slug: "vip-lounge", Name: "VIP Lounge", Description: "Restricted discussion for senior members", IsRestricted: true, MinRole: models.RoleHighLevel},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Slug, err)
		}
	}
	log.Println("Initial categories created successfully")
}
