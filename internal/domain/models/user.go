// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an admin panel account.
//
// Email is the sign-in identifier and is stored lowercase. Role must be one
// of the values returned by AllRoles; any other value is treated as a failed
// sign-in rather than a partial grant.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	DisplayName   string             `bson:"display_name" json:"displayName"`
	DisplayNameCI string             `bson:"display_name_ci" json:"-"` // folded, for sorting
	Role          string             `bson:"role" json:"role"`
	Active        bool               `bson:"active" json:"active"`
	LastLogin     *time.Time         `bson:"last_login" json:"lastLogin"`

	PasswordHash *string `bson:"password_hash,omitempty" json:"-"` // bcrypt hash (never in JSON)

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// User roles
const (
	RoleSuperAdmin = "superAdmin"
	RoleAdmin      = "admin"
	RoleWriter     = "writer"
	RoleModerator  = "moderator"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleWriter,
		RoleModerator,
	}
}

// IsValidRole checks if a role is valid. Matching is exact.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// RoleDisplayName returns the label shown in the admin panel.
func RoleDisplayName(role string) string {
	switch role {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Administradora"
	case RoleWriter:
		return "Writer"
	case RoleModerator:
		return "Moderator"
	}
	return role
}
