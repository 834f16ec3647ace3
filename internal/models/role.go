package models

import "time"

// Role names seeded at migration time. The roles table is a read-only
// lookup at runtime; no role CRUD exists in this service.
const (
	RoleAdmin        = "admin"
	RolePractitioner = "practitioner"
	RoleAssistant    = "assistant"
	RoleReceptionist = "receptionist"
	RoleManager      = "manager"
	RolePatient      = "patient"
	RoleClient       = "client"
)

// DefaultRoleName is assigned when a user is created without an explicit
// role. The default is applied at the create boundary, not as a schema
// default, so the rule stays visible in code.
const DefaultRoleName = RolePatient

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeedRoles is the fixed role set inserted once at migration time.
// IDs are stable so role_id foreign keys stay meaningful across deploys.
func SeedRoles() []Role {
	return []Role{
		{ID: 1, Name: RoleAdmin},
		{ID: 2, Name: RolePractitioner},
		{ID: 3, Name: RoleAssistant},
		{ID: 4, Name: RoleReceptionist},
		{ID: 5, Name: RoleManager},
		{ID: 6, Name: RolePatient},
		{ID: 7, Name: RoleClient},
	}
}
