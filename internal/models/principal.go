package models

// Principal is the authenticated actor behind a request. It is resolved
// once by the auth middleware and passed explicitly into service calls,
// so the role gate and the escalation checks can be tested without a
// live session store.
type Principal struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
