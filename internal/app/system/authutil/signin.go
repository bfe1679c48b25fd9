// internal/app/system/authutil/signin.go
package authutil

import (
	"fmt"

	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/domain/models"
)

// User-facing sign-in failures.
const (
	MsgUserNotFound  = "user not found"
	MsgWrongPassword = "invalid email or password"
	MsgUserDisabled  = "user is disabled"
)

// Rejection explains why a sign-in was refused.
type Rejection struct {
	Event   string // audit event type
	Code    string // short code for redirects, e.g. "user_disabled"
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// UserNotFound is the rejection for an email with no account.
func UserNotFound() *Rejection {
	return &Rejection{Event: audit.EventLoginFailedUserNotFound, Code: "user_not_found", Message: MsgUserNotFound}
}

// CheckSignIn applies the account rules every sign-in method shares: the
// user must be active and hold a known role. It returns nil when u may
// sign in.
func CheckSignIn(u *models.User) *Rejection {
	if !u.Active {
		return &Rejection{Event: audit.EventLoginFailedUserDisabled, Code: "user_disabled", Message: MsgUserDisabled}
	}
	if !models.IsValidRole(u.Role) {
		return &Rejection{
			Event:   audit.EventLoginFailedInvalidRole,
			Code:    "invalid_role",
			Message: fmt.Sprintf("invalid role: %s", u.Role),
		}
	}
	return nil
}
