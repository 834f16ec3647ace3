package main

import (
	"log"
	"os"
	"time"

	"github.com/clinicore/user-directory/internal/config"
	"github.com/clinicore/user-directory/internal/database"
	"github.com/clinicore/user-directory/internal/models"
	"github.com/clinicore/user-directory/internal/utils"
)

// Seeds the fixed role set and an initial admin account so a fresh
// deployment has someone who can pass the role gate.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminName := os.Getenv("ADMIN_NAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminName == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	// Check if admin with this email already exists
	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Name)
		log.Println("   Email:", admin.Email)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminRole, err := findAdminRole()
	if err != nil {
		log.Fatal("Failed to resolve admin role:", err)
	}

	rememberToken, err := utils.RandomToken(10)
	if err != nil {
		log.Fatal("Failed to generate remember token:", err)
	}

	now := time.Now()
	admin = models.User{
		Name:            adminName,
		Email:           adminEmail,
		PasswordHash:    passwordHash,
		RoleID:          adminRole.ID,
		EmailVerifiedAt: &now,
		RememberToken:   rememberToken,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully!")
	log.Println("   Name:", admin.Name)
	log.Println("   Email:", admin.Email)
}

func findAdminRole() (*models.Role, error) {
	var role models.Role
	if err := database.DB.Where("name = ?", models.RoleAdmin).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
