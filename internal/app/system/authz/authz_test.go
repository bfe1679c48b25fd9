package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// withTestUser creates a request with a user in context.
func withTestUser(id, name, role string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	return auth.WithTestUser(req, &auth.SessionUser{ID: id, Name: name, Role: role})
}

func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		role   string
		want   Permissions
		wantOK bool
	}{
		{"superAdmin", Permissions{true, true, true, true}, true},
		{"admin", Permissions{true, true, true, true}, true},
		{"writer", Permissions{CanEdit: true}, true},
		{"moderator", Permissions{CanPublish: true, CanViewLogs: true}, true},
		{"SuperAdmin", Permissions{}, false},
		{"superadmin", Permissions{}, false},
		{"editor", Permissions{}, false},
		{"", Permissions{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got, ok := PermissionsFor(tt.role)
			if ok != tt.wantOK {
				t.Errorf("PermissionsFor(%q) ok = %v, want %v", tt.role, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("PermissionsFor(%q) = %+v, want %+v", tt.role, got, tt.want)
			}
		})
	}
}

func TestPermissions_Has(t *testing.T) {
	p := Permissions{CanPublish: true}
	if !p.Has(CanPublish) {
		t.Error("Has(CanPublish) = false")
	}
	if p.Has(CanEdit) {
		t.Error("Has(CanEdit) = true")
	}
	if p.Has(Permission("canDelete")) {
		t.Error("unknown permission granted")
	}
}

func TestUserCtx(t *testing.T) {
	validID := primitive.NewObjectID().Hex()

	tests := []struct {
		name      string
		userID    string
		userName  string
		userRole  string
		wantRole  string
		wantName  string
		wantOK    bool
		wantNilID bool
	}{
		{"admin user", validID, "Admin User", "admin", "admin", "Admin User", true, false},
		{"role kept exactly", validID, "Root", "superAdmin", "superAdmin", "Root", true, false},
		{"invalid user id", "invalid-id", "User", "writer", "visitor", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, name, userID, ok := UserCtx(withTestUser(tt.userID, tt.userName, tt.userRole))

			if role != tt.wantRole {
				t.Errorf("role = %v, want %v", role, tt.wantRole)
			}
			if name != tt.wantName {
				t.Errorf("name = %v, want %v", name, tt.wantName)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantNilID != userID.IsZero() {
				t.Errorf("userID.IsZero() = %v, want %v", userID.IsZero(), tt.wantNilID)
			}
		})
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	role, name, userID, ok := UserCtx(httptest.NewRequest("GET", "/", nil))
	if role != "visitor" || name != "" || ok || !userID.IsZero() {
		t.Errorf("UserCtx() = %q, %q, %v, %v", role, name, userID, ok)
	}
}

func TestCan(t *testing.T) {
	validID := primitive.NewObjectID().Hex()

	tests := []struct {
		name  string
		role  string
		perms []Permission
		want  bool
	}{
		{"writer edits", "writer", []Permission{CanEdit}, true},
		{"writer cannot publish", "writer", []Permission{CanPublish}, false},
		{"moderator edit or publish", "moderator", []Permission{CanEdit, CanPublish}, true},
		{"moderator cannot manage users", "moderator", []Permission{CanManageUsers}, false},
		{"admin views logs", "admin", []Permission{CanViewLogs}, true},
		{"unknown role", "guest", []Permission{CanEdit}, false},
		{"no perms", "admin", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(withTestUser(validID, "U", tt.role), tt.perms...); got != tt.want {
				t.Errorf("Can(%v) = %v, want %v", tt.perms, got, tt.want)
			}
		})
	}

	if Can(httptest.NewRequest("GET", "/", nil), CanEdit) {
		t.Error("Can() = true with no user")
	}
}

func TestIsLoggedIn(t *testing.T) {
	if !IsLoggedIn(withTestUser(primitive.NewObjectID().Hex(), "U", "writer")) {
		t.Error("IsLoggedIn() = false with a user")
	}
	if IsLoggedIn(httptest.NewRequest("GET", "/", nil)) {
		t.Error("IsLoggedIn() = true without a user")
	}
}

func TestIsSuperAdmin(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	if !IsSuperAdmin(withTestUser(id, "U", "superAdmin")) {
		t.Error("IsSuperAdmin() = false for superAdmin")
	}
	if IsSuperAdmin(withTestUser(id, "U", "admin")) {
		t.Error("IsSuperAdmin() = true for admin")
	}
}

func TestRequirePermission(t *testing.T) {
	validID := primitive.NewObjectID().Hex()
	h := RequirePermission(CanPublish)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"signed out", httptest.NewRequest("POST", "/admin/home/save", nil), http.StatusUnauthorized},
		{"writer forbidden", withTestUser(validID, "W", "writer"), http.StatusForbidden},
		{"moderator allowed", withTestUser(validID, "M", "moderator"), http.StatusNoContent},
		{"invalid role forbidden", withTestUser(validID, "X", "Admin"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
