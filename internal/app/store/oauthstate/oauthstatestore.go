// internal/app/store/oauthstate/oauthstatestore.go

// Package oauthstate keeps the single-use state tokens of the Google
// sign-in flow.
package oauthstate

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection holds pending state tokens. A TTL index on expires_at removes
// abandoned ones.
const Collection = "oauth_states"

// TTL is how long a sign-in may take between redirect and callback.
const TTL = 10 * time.Minute

// State is one pending sign-in.
type State struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	State     string             `bson:"state"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store provides access to the oauth_states collection.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New creates a new OAuth state store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection), now: time.Now}
}

// Create stores state so that one callback can redeem it within TTL.
func (s *Store) Create(ctx context.Context, state string) error {
	now := s.now()
	_, err := s.c.InsertOne(ctx, State{
		ID:        primitive.NewObjectID(),
		State:     state,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
	})
	return err
}

// Generate creates and stores a fresh random state token.
func (s *Store) Generate(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	if err := s.Create(ctx, state); err != nil {
		return "", err
	}
	return state, nil
}

// Verify redeems state. It reports false for an empty, unknown, expired or
// already redeemed token.
func (s *Store) Verify(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	filter := bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": s.now()},
	}
	return s.c.FindOneAndDelete(ctx, filter).Err() == nil
}
