// internal/app/store/ratelimit/store.go

// Package ratelimit counts failed sign-ins per email and locks the email out
// for a while once the limit is reached.
package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds one attempt record per email.
const Collection = "login_attempts"

// Defaults used for zero Config fields.
const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute
	DefaultLockout     = 15 * time.Minute
)

// Attempt tracks failed sign-ins for one email.
type Attempt struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	AttemptCount int                `bson:"attempt_count"` // failures in the current window
	WindowStart  time.Time          `bson:"window_start"`
	LockedUntil  *time.Time         `bson:"locked_until"`
	LastAttempt  time.Time          `bson:"last_attempt"` // TTL anchor
}

// Config sets the limiter's thresholds.
type Config struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// Store tracks failed sign-in attempts.
type Store struct {
	c   *mongo.Collection
	cfg Config
	now func() time.Time
}

// New creates a rate limit Store. Zero Config fields take the defaults.
func New(db *mongo.Database, cfg Config) *Store {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = DefaultLockout
	}
	return &Store{c: db.Collection(Collection), cfg: cfg, now: time.Now}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) find(ctx context.Context, email string) (*Attempt, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CheckAllowed reports whether a sign-in for email may proceed. When it may
// not, lockedUntil says until when (nil if unknown). Store errors allow the
// attempt.
func (s *Store) CheckAllowed(ctx context.Context, email string) (allowed bool, lockedUntil *time.Time) {
	a, err := s.find(ctx, normalize(email))
	if err != nil || a == nil {
		return true, nil
	}
	now := s.now()
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return false, a.LockedUntil
	}
	if now.After(a.WindowStart.Add(s.cfg.Window)) {
		return true, nil
	}
	return a.AttemptCount < s.cfg.MaxAttempts, nil
}

// RecordFailure counts one failed sign-in and reports whether it triggered
// a lockout. Store errors never lock.
func (s *Store) RecordFailure(ctx context.Context, email string) (lockedOut bool, lockedUntil *time.Time) {
	email = normalize(email)
	now := s.now()

	a, err := s.find(ctx, email)
	if err != nil {
		return false, nil
	}
	if a == nil || now.After(a.WindowStart.Add(s.cfg.Window)) {
		a = &Attempt{Email: email, WindowStart: now}
	}
	a.AttemptCount++
	a.LastAttempt = now
	a.LockedUntil = nil
	if a.AttemptCount >= s.cfg.MaxAttempts {
		until := now.Add(s.cfg.Lockout)
		a.LockedUntil = &until
		lockedOut, lockedUntil = true, &until
	}

	_, _ = s.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"attempt_count": a.AttemptCount,
			"window_start":  a.WindowStart,
			"locked_until":  a.LockedUntil,
			"last_attempt":  a.LastAttempt,
		}},
		options.Update().SetUpsert(true),
	)
	return lockedOut, lockedUntil
}

// ClearOnSuccess forgets the failures of email after a successful sign-in.
func (s *Store) ClearOnSuccess(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": normalize(email)})
	return err
}

// GetAttempt returns the attempt record for email, or nil when there is none.
func (s *Store) GetAttempt(ctx context.Context, email string) (*Attempt, error) {
	return s.find(ctx, normalize(email))
}
