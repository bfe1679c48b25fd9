// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds audit events.
const Collection = "audit_logs"

// Query page sizes.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// QueryFilter selects events. Zero fields match everything; the time range
// is inclusive at both ends.
type QueryFilter struct {
	UserID    *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	set := func(key string, ok bool, v any) {
		if ok {
			q[key] = v
		}
	}
	set("user_id", f.UserID != nil, f.UserID)
	set("actor_id", f.ActorID != nil, f.ActorID)
	set("category", f.Category != "", f.Category)
	set("event_type", f.EventType != "", f.EventType)

	created := bson.M{}
	if f.StartTime != nil {
		created["$gte"] = *f.StartTime
	}
	if f.EndTime != nil {
		created["$lte"] = *f.EndTime
	}
	set("created_at", len(created) > 0, created)
	return q
}

// limit clamps Limit to (0, MaxLimit], using DefaultLimit for zero.
func (f QueryFilter) limit() int64 {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	}
	return f.Limit
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// Store reads and writes audit events.
type Store struct {
	c *mongo.Collection
}

// New returns a Store on db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Log inserts e, filling in ID and CreatedAt when they are zero.
func (s *Store) Log(ctx context.Context, e Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// Query returns one page of matching events, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	return s.find(ctx, f.query(), options.Find().
		SetSort(newestFirst).
		SetLimit(f.limit()).
		SetSkip(f.Offset))
}

// CountByFilter counts every matching event, ignoring Limit and Offset.
func (s *Store) CountByFilter(ctx context.Context, f QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// GetByUser returns the latest events about userID.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{UserID: &userID, Limit: limit})
}

// GetRecent returns the latest events of any kind.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// GetFailedLogins returns refused sign-ins since the given time, newest
// first.
func (s *Store) GetFailedLogins(ctx context.Context, since time.Time, limit int64) ([]Event, error) {
	return s.find(ctx, bson.M{
		"category":   CategoryAuth,
		"success":    false,
		"event_type": bson.M{"$in": failedLoginEvents},
		"created_at": bson.M{"$gte": since},
	}, options.Find().SetSort(newestFirst).SetLimit(limit))
}

// DeleteBefore removes events older than cutoff and reports how many went.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]Event, error) {
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
