package database

import (
	"log"

	"github.com/clinicore/user-directory/internal/config"
	"github.com/clinicore/user-directory/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError maps unique-index violations to gorm.ErrDuplicatedKey,
	// which the service layer relies on for the duplicate-email race.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	if err := DB.AutoMigrate(&models.Role{}, &models.User{}); err != nil {
		log.Fatal("Migration failed:", err)
	}

	if err := SeedRoles(DB); err != nil {
		log.Fatal("Role seeding failed:", err)
	}

	log.Println("Database migration completed")
}

// SeedRoles inserts the fixed role set, skipping rows that already exist.
// Roles are never created or deleted at runtime.
func SeedRoles(db *gorm.DB) error {
	for _, role := range models.SeedRoles() {
		if err := db.Where("id = ?", role.ID).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
