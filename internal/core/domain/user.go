package domain

import "time"

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RoleReceptionist = "receptionist"
	RoleStaff        = "staff"
)

// Roles is the closed set of access levels a user may hold.
var Roles = []string{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleStaff}

// ValidRole reports whether role is a member of the fixed enumeration.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User models a hospital staff account. PasswordHash is never serialised
// to callers.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	FullName     string    `json:"full_name" bson:"full_name"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// TokenClaims is the identity extracted from a verified session token.
// Role is the role at issuance time; it is not refreshed until re-login.
type TokenClaims struct {
	UserID   string
	Username string
	Role     string
	IssuedAt time.Time
	Expiry   time.Time
}
