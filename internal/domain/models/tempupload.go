// internal/domain/models/tempupload.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TempUpload records an image uploaded during an editor session that is
// not yet referenced by saved page content. Committed uploads are removed
// from the collection; anything left behind is deleted from storage when
// the session is discarded or expires.
type TempUpload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SessionID   string             `bson:"session_id"`   // editor session (uuid)
	URL         string             `bson:"url"`          // public URL returned to the editor
	StoragePath string             `bson:"storage_path"` // path in storage backend
	Category    string             `bson:"category"`     // image category (mission, seo, ...)
	Size        int64              `bson:"size"`
	ContentType string             `bson:"content_type"`
	CreatedAt   time.Time          `bson:"created_at"`
	CreatedByID string             `bson:"created_by_id"`
}
