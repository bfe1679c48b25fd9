package authutil

import (
	"testing"

	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/domain/models"
)

func TestCheckSignIn(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		event   string
		message string
	}{
		{"active writer", models.User{Active: true, Role: models.RoleWriter}, "", ""},
		{"active super admin", models.User{Active: true, Role: models.RoleSuperAdmin}, "", ""},
		{"disabled", models.User{Active: false, Role: models.RoleAdmin}, audit.EventLoginFailedUserDisabled, MsgUserDisabled},
		{"unknown role", models.User{Active: true, Role: "editor"}, audit.EventLoginFailedInvalidRole, "invalid role: editor"},
		{"role case differs", models.User{Active: true, Role: "Admin"}, audit.EventLoginFailedInvalidRole, "invalid role: Admin"},
		{"empty role", models.User{Active: true}, audit.EventLoginFailedInvalidRole, "invalid role: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckSignIn(&tt.user)
			if tt.event == "" {
				if got != nil {
					t.Fatalf("CheckSignIn() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("CheckSignIn() = nil, want a rejection")
			}
			if got.Event != tt.event || got.Message != tt.message {
				t.Errorf("CheckSignIn() = %+v, want event %q message %q", got, tt.event, tt.message)
			}
			if got.Error() != tt.message {
				t.Errorf("Error() = %q", got.Error())
			}
		})
	}
}

func TestUserNotFound(t *testing.T) {
	r := UserNotFound()
	if r.Event != audit.EventLoginFailedUserNotFound || r.Message != MsgUserNotFound || r.Code != "user_not_found" {
		t.Errorf("UserNotFound() = %+v", r)
	}
}
