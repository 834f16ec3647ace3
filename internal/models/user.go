package models

import "time"

// User is hard-deleted: no gorm.DeletedAt column, a removed row is gone.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	RoleID          uint       `gorm:"not null;index" json:"role_id"`
	Role            Role       `gorm:"foreignKey:RoleID" json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	RememberToken   string     `gorm:"type:varchar(100)" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
