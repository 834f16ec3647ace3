package repository

import (
	"errors"
	"strings"

	"github.com/clinicore/user-directory/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Omit("Role").Create(user).Error
}

// GetByID returns the user with its role attached, or (nil, nil) if no
// such user exists.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Role").First(&user, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Role").Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// EmailTaken reports whether another user already owns the given email.
// excludeID skips the target user's own row so updates keeping the same
// email are not rejected; pass 0 on create.
func (r *UserRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of users with roles attached, plus the total
// match count. A non-empty search term is matched case-insensitively as
// a substring against name, email, and the joined role name.
func (r *UserRepository) List(search string, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.Model(&models.User{}).
		Joins("LEFT JOIN roles ON roles.id = users.role_id")

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(roles.name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Role").
		Order("users.id").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update saves the user row. The roles table is read-only here; the
// loaded association is never written back.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Omit("Role").Save(user).Error
}

// Delete hard-deletes the user row. Returns the number of rows removed
// so the caller can distinguish a missing id from a successful delete.
func (r *UserRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.User{}, id)
	return res.RowsAffected, res.Error
}
