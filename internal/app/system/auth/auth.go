// internal/app/system/auth/auth.go

// Package auth keeps the admin session: a gorilla cookie session that carries
// the user id, and middleware that loads a fresh copy of the user on every
// request. What a user may do is decided in authz.
package auth

import (
	"context"
	"net/http"

	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionUser is the signed-in user as seen by handlers.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID returns ID as an ObjectID, or NilObjectID when it is malformed.
func (u *SessionUser) UserID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// UserFetcher loads the current state of a signed-in user.
type UserFetcher interface {
	// FetchUser returns nil when the user is gone, inactive, or holds a role
	// the site does not know. Any of these ends the session.
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type userKey struct{}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, _ := r.Context().Value(userKey{}).(*SessionUser)
	return u, u != nil
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey{}, u))
}

// WithTestUser returns r carrying u as the signed-in user.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// RequireSignedIn answers 401 unless a user is in the request context.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			jsonutil.Unauthorized(w, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
