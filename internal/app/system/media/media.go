// internal/app/system/media/media.go

// Package media stores page images in the configured file storage (local
// disk or S3/CloudFront) and recognises the URLs it hands out.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// DefaultMaxBytes is the upload limit when none is configured.
const DefaultMaxBytes = 5 << 20

const rootDir = "images/"

var (
	ErrNotImage        = errors.New("file must be an image")
	ErrTooLarge        = errors.New("image is too large")
	ErrBadExtension    = errors.New("unsupported image format")
	ErrInvalidCategory = errors.New("invalid image category")
)

var allowedExt = map[string]bool{"jpg": true, "jpeg": true, "png": true, "webp": true, "gif": true}

// Categories are the page areas images may be uploaded for. The category
// is also the storage folder.
var Categories = []string{"mission", "supporters", "seo", "testimonials", "programs", "hero"}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Storage is the part of the file storage media needs. waffle's
// storage.Store satisfies it.
type Storage interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// Service uploads and deletes page images.
type Service struct {
	store    Storage
	maxBytes int64
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a media service. maxBytes <= 0 selects DefaultMaxBytes.
func New(store Storage, maxBytes int64, logger *zap.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, maxBytes: maxBytes, logger: logger, now: time.Now}
}

// MaxBytes returns the upload size limit.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// ValidateImage checks an upload before it is stored.
func (s *Service) ValidateImage(filename, contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return ErrNotImage
	}
	if size > s.maxBytes {
		return fmt.Errorf("%w: maximum %d MB", ErrTooLarge, s.maxBytes>>20)
	}
	if !allowedExt[extension(filename)] {
		return fmt.Errorf("%w: use JPG, PNG, WebP or GIF", ErrBadExtension)
	}
	return nil
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// ObjectPath returns the storage path for a new image in category.
func (s *Service) ObjectPath(category, filename string) string {
	return fmt.Sprintf("%s%s/%s-%d.%s", rootDir, category, category, s.now().UnixMilli(), extension(filename))
}

// Upload stores r under a new path in category and returns its public URL
// and storage path. Callers run ValidateImage first.
func (s *Service) Upload(ctx context.Context, r io.Reader, filename, contentType, category string) (url, objectPath string, err error) {
	if !IsCategory(category) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	objectPath = s.ObjectPath(category, filename)
	if err := s.store.Put(ctx, objectPath, r, &storage.PutOptions{ContentType: contentType}); err != nil {
		return "", "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	url = s.store.URL(objectPath)
	s.logger.Info("image uploaded",
		zap.String("category", category),
		zap.String("path", objectPath))
	return url, objectPath, nil
}

// Delete removes the image behind url. It never fails: unrecognised URLs
// and storage errors are logged.
func (s *Service) Delete(ctx context.Context, url string) {
	p, ok := PathFromURL(url)
	if !ok {
		s.logger.Warn("not deleting image with unrecognised url", zap.String("url", url))
		return
	}
	if err := s.store.Delete(ctx, p); err != nil {
		s.logger.Warn("image delete failed", zap.String("path", p), zap.Error(err))
		return
	}
	s.logger.Info("image deleted", zap.String("path", p))
}

// IsStorageURL reports whether url was produced by this service's storage.
func (s *Service) IsStorageURL(url string) bool {
	p, ok := PathFromURL(url)
	if !ok {
		return false
	}
	return stripQuery(s.store.URL(p)) == stripQuery(url)
}

// PathFromURL extracts the storage path ("images/...") from an image URL.
func PathFromURL(url string) (string, bool) {
	u := stripQuery(url)
	i := strings.Index(u, rootDir)
	if i < 0 {
		return "", false
	}
	p := u[i:]
	if len(p) == len(rootDir) || strings.Contains(p, "..") {
		return "", false
	}
	return p, true
}

func stripQuery(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}
