// internal/app/system/pageeditor/uploads.go
package pageeditor

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/store/tempuploads"
	"github.com/dalemusser/elaspodem/internal/app/system/tasks"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultTempUploadTTL is how long an uncommitted upload survives.
const DefaultTempUploadTTL = 24 * time.Hour

// SessionHeader carries the editor session id that uploads are tracked
// under and that saves commit.
const SessionHeader = "X-Editor-Session"

// ErrNoSession is returned when an upload arrives without an editor session.
var ErrNoSession = errors.New("missing editor session")

// UploadStore persists temp upload records. tempuploads.Store satisfies it.
type UploadStore interface {
	Track(ctx context.Context, input tempuploads.TrackInput) (*models.TempUpload, error)
	ListSession(ctx context.Context, sessionID string) ([]models.TempUpload, error)
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]models.TempUpload, error)
	DeleteURLs(ctx context.Context, sessionID string, urls []string) (int64, error)
	DeleteIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// NewSessionID returns a fresh editor session id.
func NewSessionID() string { return uuid.NewString() }

// ValidSessionID reports whether id looks like an id from NewSessionID.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Uploads tracks images uploaded while editing so that the ones never saved
// into page content can be removed from storage.
type Uploads struct {
	store  UploadStore
	media  ImageRemover
	logger *zap.Logger
	now    func() time.Time
}

// NewUploads creates an upload tracker.
func NewUploads(store UploadStore, media ImageRemover, logger *zap.Logger) *Uploads {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploads{store: store, media: media, logger: logger, now: time.Now}
}

// Track records an upload for session.
func (u *Uploads) Track(ctx context.Context, in tempuploads.TrackInput) error {
	if !ValidSessionID(in.SessionID) {
		return ErrNoSession
	}
	_, err := u.store.Track(ctx, in)
	return err
}

// Commit stops tracking the session's uploads that are referenced by saved
// content; they are now part of the page. It returns how many were kept.
func (u *Uploads) Commit(ctx context.Context, sessionID string, referenced []string) (int64, error) {
	if sessionID == "" {
		return 0, nil
	}
	n, err := u.store.DeleteURLs(ctx, sessionID, referenced)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.logger.Debug("committed temp uploads", zap.String("session", sessionID), zap.Int64("count", n))
	}
	return n, nil
}

// Discard deletes every upload still tracked for session from storage and
// forgets them. It returns how many were removed.
func (u *Uploads) Discard(ctx context.Context, sessionID string) (int, error) {
	list, err := u.store.ListSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return u.remove(ctx, list)
}

// SweepExpired removes uploads older than olderThan from every session.
func (u *Uploads) SweepExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	list, err := u.store.ListCreatedBefore(ctx, u.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return u.remove(ctx, list)
}

func (u *Uploads) remove(ctx context.Context, list []models.TempUpload) (int, error) {
	if len(list) == 0 {
		return 0, nil
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, t := range list {
		u.media.Delete(ctx, t.URL)
		ids = append(ids, t.ID)
	}
	if _, err := u.store.DeleteIDs(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// SweepJob is the background job that expires abandoned uploads.
func (u *Uploads) SweepJob(ttl time.Duration) tasks.Job {
	if ttl <= 0 {
		ttl = DefaultTempUploadTTL
	}
	return tasks.Job{
		Name:     "temp-upload-sweep",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			n, err := u.SweepExpired(ctx, ttl)
			if err != nil {
				return err
			}
			if n > 0 {
				u.logger.Info("swept expired temp uploads", zap.Int("deleted", n))
			}
			return nil
		},
	}
}
