// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher against the users collection.
type Fetcher struct {
	users  *mongo.Collection
	logger *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		users:  db.Collection(Collection),
		logger: logger,
	}
}

// FetchUser returns the session view of the user, or nil when the user is
// missing, inactive, holds an unknown role, or the lookup fails.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), f.logger, "fetch session user")
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":          1,
		"email":        1,
		"display_name": 1,
		"role":         1,
		"active":       1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err != mongo.ErrNoDocuments {
			f.logger.Warn("session user lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	if !u.Active {
		return nil
	}
	if !models.IsValidRole(u.Role) {
		f.logger.Warn("session user has an invalid role",
			zap.String("user_id", userID), zap.String("role", u.Role))
		return nil
	}

	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.DisplayName,
		Email: u.Email,
		Role:  u.Role,
	}
}
