// internal/app/store/tempuploads/tempuploadstore.go

// Package tempuploads tracks images uploaded during an editor session that
// are not yet referenced by saved page content.
package tempuploads

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/elaspodem/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection name.
const Collection = "temp_uploads"

// Store provides access to the temp_uploads collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new temp upload store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection(Collection),
	}
}

// TrackInput contains the input for tracking an upload.
type TrackInput struct {
	SessionID   string
	URL         string
	StoragePath string
	Category    string
	Size        int64
	ContentType string
	CreatedByID string
}

// Track records an upload against an editor session.
func (s *Store) Track(ctx context.Context, input TrackInput) (*models.TempUpload, error) {
	if input.SessionID == "" || input.URL == "" {
		return nil, errors.New("tempuploads: session id and url are required")
	}
	u := models.TempUpload{
		ID:          primitive.NewObjectID(),
		SessionID:   input.SessionID,
		URL:         input.URL,
		StoragePath: input.StoragePath,
		Category:    input.Category,
		Size:        input.Size,
		ContentType: input.ContentType,
		CreatedAt:   time.Now(),
		CreatedByID: input.CreatedByID,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListSession returns the uploads of one session, oldest first.
func (s *Store) ListSession(ctx context.Context, sessionID string) ([]models.TempUpload, error) {
	return s.find(ctx, bson.M{"session_id": sessionID})
}

// ListCreatedBefore returns uploads older than cutoff, oldest first.
func (s *Store) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]models.TempUpload, error) {
	return s.find(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.TempUpload, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var uploads []models.TempUpload
	if err := cursor.All(ctx, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

// DeleteURLs stops tracking the given URLs of a session.
func (s *Store) DeleteURLs(ctx context.Context, sessionID string, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	result, err := s.c.DeleteMany(ctx, bson.M{
		"session_id": sessionID,
		"url":        bson.M{"$in": urls},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteIDs removes the given records.
func (s *Store) DeleteIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
