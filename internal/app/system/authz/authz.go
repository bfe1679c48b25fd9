// internal/app/system/authz/authz.go

// Package authz maps admin roles to permissions and guards routes with them.
package authz

import (
	"net/http"

	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission names one capability of the admin panel.
type Permission string

const (
	CanEdit        Permission = "canEdit"
	CanPublish     Permission = "canPublish"
	CanManageUsers Permission = "canManageUsers"
	CanViewLogs    Permission = "canViewLogs"
)

// Permissions is the capability set of one role.
type Permissions struct {
	CanEdit        bool `json:"canEdit"`
	CanPublish     bool `json:"canPublish"`
	CanManageUsers bool `json:"canManageUsers"`
	CanViewLogs    bool `json:"canViewLogs"`
}

// Has reports whether p grants perm.
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case CanEdit:
		return p.CanEdit
	case CanPublish:
		return p.CanPublish
	case CanManageUsers:
		return p.CanManageUsers
	case CanViewLogs:
		return p.CanViewLogs
	}
	return false
}

var rolePermissions = map[string]Permissions{
	models.RoleSuperAdmin: {CanEdit: true, CanPublish: true, CanManageUsers: true, CanViewLogs: true},
	models.RoleAdmin:      {CanEdit: true, CanPublish: true, CanManageUsers: true, CanViewLogs: true},
	models.RoleWriter:     {CanEdit: true},
	models.RoleModerator:  {CanPublish: true, CanViewLogs: true},
}

// PermissionsFor returns the permissions of role. Roles are matched exactly;
// an unknown role has no permissions and ok is false.
func PermissionsFor(role string) (Permissions, bool) {
	p, ok := rolePermissions[role]
	return p, ok
}

// UserCtx returns the user's role, name, Mongo ObjectID, and a found flag.
// With no user in context, or a malformed user ID, it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return user.Role, user.Name, userID, true
}

// Current returns the permissions of the signed-in user.
func Current(r *http.Request) Permissions {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return Permissions{}
	}
	p, _ := PermissionsFor(role)
	return p
}

// Can reports whether the signed-in user holds any of perms.
func Can(r *http.Request, perms ...Permission) bool {
	p := Current(r)
	for _, perm := range perms {
		if p.Has(perm) {
			return true
		}
	}
	return false
}

// IsLoggedIn reports whether there is a user in the request context.
func IsLoggedIn(r *http.Request) bool {
	_, ok := auth.CurrentUser(r)
	return ok
}

// IsSuperAdmin reports whether the signed-in user is a superAdmin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSuperAdmin
}

// RequirePermission returns middleware that answers 401 when nobody is
// signed in and 403 when the user holds none of perms.
func RequirePermission(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsLoggedIn(r) {
				jsonutil.Unauthorized(w, "sign in required")
				return
			}
			if !Can(r, perms...) {
				jsonutil.Forbidden(w, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
