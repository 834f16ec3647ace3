package testutil

import (
	"time"

	"github.com/clinicore/user-directory/internal/models"
	"github.com/clinicore/user-directory/internal/utils"
)

// CreateTestUser builds a user with a real argon2id hash, verified email
// and the given role id (see models.SeedRoles for the fixed ids).
func CreateTestUser(name, email, password string, roleID uint) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    hashedPassword,
		RoleID:          roleID,
		EmailVerifiedAt: &now,
		RememberToken:   "testtoken1",
	}, nil
}

// AdminPrincipal returns an acting admin for service calls.
func AdminPrincipal() models.Principal {
	return models.Principal{
		UserID: 1,
		Name:   "Test Admin",
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
	}
}

// ManagerPrincipal returns an acting manager, allowed through the
// management role gate but not allowed to assign the admin role.
func ManagerPrincipal() models.Principal {
	return models.Principal{
		UserID: 2,
		Name:   "Test Manager",
		Email:  "manager@example.com",
		Role:   models.RoleManager,
	}
}

// ClientPrincipal returns an actor the management role gate rejects.
func ClientPrincipal() models.Principal {
	return models.Principal{
		UserID: 3,
		Name:   "Test Client",
		Email:  "client@example.com",
		Role:   models.RoleClient,
	}
}
