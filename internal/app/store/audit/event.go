// internal/app/store/audit/event.go

// Package audit stores the site's audit trail: sign-ins, content saves and
// uploads, and user administration.
package audit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories group event types for filtering.
const (
	CategoryAuth    = "auth"
	CategoryContent = "content"
	CategoryAdmin   = "admin"
)

// Categories lists every category in display order.
func Categories() []string {
	return []string{CategoryAuth, CategoryContent, CategoryAdmin}
}

// IsCategory reports whether c is one of Categories, matched exactly.
func IsCategory(c string) bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// auth
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLoginFailedInvalidRole   = "login_failed_invalid_role"
	EventLoginRateLimited         = "login_rate_limited"
	EventLogout                   = "logout"
)

// content
const (
	EventPageSectionSaved = "page_section_saved"
	EventPageSaved        = "page_saved"
	EventImageUploaded    = "image_uploaded"
	EventImageDeleted     = "image_deleted"
)

// admin
const (
	EventUserCreated = "user_created"
	EventUserUpdated = "user_updated"
)

// failedLoginEvents are the auth events of a refused sign-in.
var failedLoginEvents = []string{
	EventLoginFailedUserNotFound,
	EventLoginFailedWrongPassword,
	EventLoginFailedUserDisabled,
	EventLoginFailedInvalidRole,
	EventLoginRateLimited,
}

// Event is one audit record. UserID is the user the event is about and
// ActorID the one who caused it; for a sign-in they are the same person and
// only UserID is set.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	Category  string             `bson:"category" json:"category"`
	EventType string             `bson:"event_type" json:"eventType"`

	UserID    *primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	ActorName string              `bson:"actor_name,omitempty" json:"actorName,omitempty"`

	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`

	// Details depend on the event type, e.g. page and section for a save.
	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}
