// internal/app/store/cacheentries/cacheentrystore.go
package cacheentries

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection backing the persistent cache tier.
const Collection = "cache_entries"

// Entry is one cached value. Value holds the JSON encoding of the cached
// object; Mongo's TTL monitor removes entries after ExpiresAt.
type Entry struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store provides access to the cache_entries collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new cache entry store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Get returns the value stored under key. Entries past their expiry are
// reported as missing even if the TTL monitor has not removed them yet.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e Entry
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": time.Now()}}
	err := s.c.FindOne(ctx, filter).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e.Value, true, nil
}

// Set stores value under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	e := Entry{Key: key, Value: value, ExpiresAt: now.Add(ttl), UpdatedAt: now}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// DeletePrefix removes every key starting with prefix.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	_, err := s.c.DeleteMany(ctx, filter)
	return err
}
