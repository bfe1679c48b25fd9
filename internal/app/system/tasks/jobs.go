// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// expiredCleanupJob removes documents whose expires_at has passed. The TTL
// monitor does the same on its own schedule; this keeps the collections
// tidy between its passes.
func expiredCleanupJob(name, collection, what string, db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     name,
		Interval: 1 * time.Hour,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			result, err := db.Collection(collection).DeleteMany(ctx, bson.M{
				"expires_at": bson.M{"$lt": time.Now()},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up expired "+what,
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
func OAuthStateCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return expiredCleanupJob("oauth-state-cleanup", "oauth_states", "oauth states", db, logger)
}

// CacheEntryCleanupJob creates a job that removes expired persistent cache
// entries.
func CacheEntryCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return expiredCleanupJob("cache-entry-cleanup", "cache_entries", "cache entries", db, logger)
}

// AuditRetentionJob creates a job that deletes audit events older than
// retention. A zero retention keeps events forever and the job does nothing.
func AuditRetentionJob(db *mongo.Database, logger *zap.Logger, retention time.Duration) Job {
	store := audit.New(db)
	return Job{
		Name:     "audit-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			if retention <= 0 {
				return nil
			}
			deleted, err := store.DeleteBefore(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("deleted old audit events",
					zap.Int64("deleted", deleted),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
