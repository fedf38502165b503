package db

import (
	"log"
	"os"
	"ventlink/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=ventlink port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCategories()
}

// Migrate runs AutoMigrate for every model. Split out so tests can run it
// against their own database handle.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.KarmaLog{},
	)
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "Work", Slug: "work", Description: "Bosses, deadlines, meetings that should have been emails"},
		{Name: "School", Slug: "school", Description: "Exams, group projects, tuition"},
		{Name: "Relationships", Slug: "relationships", Description: "Friends, family, partners"},
		{Name: "Technology", Slug: "technology", Description: "Broken builds, printers, update screens"},
		{Name: "Everyday Life", Slug: "life", Description: "Everything else that grinds your gears"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Slug, err)
		}
	}
	log.Println("Initial categories created successfully")
}
