package auth

// RoleGuest is the account role allowed to reserve rooms.
const RoleGuest = "Guest"

// Principal is the read-only view of who is calling. The zero value is an
// anonymous visitor.
type Principal struct {
	IsLogged bool
	UserID   string
	Email    string
	Role     string
}

// IsGuest reports whether the principal may reserve rooms.
func (p Principal) IsGuest() bool {
	return p.IsLogged && p.Role == RoleGuest
}

func principalFromClaims(c *Claims) Principal {
	return Principal{
		IsLogged: true,
		UserID:   c.UserID,
		Email:    c.Email,
		Role:     c.Role,
	}
}
