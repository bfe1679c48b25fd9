// internal/app/features/home/home.go

// Package home serves the public home page content. Reads go through the
// cache, then the store, and fall back to the placeholder document so the
// public site always has something to render.
package home

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/elaspodem/internal/app/system/cache"
	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/dalemusser/elaspodem/internal/app/system/homeforms"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SourceHeader names the response header telling where the content came from.
const SourceHeader = "X-Content-Source"

// Content sources reported in SourceHeader.
const (
	SourceCache    = "cache"
	SourceStore    = "store"
	SourceFallback = "fallback"
)

// DocumentReader reads page documents. pagestore.Store satisfies it.
type DocumentReader interface {
	GetDocument(ctx context.Context, collection, id string) (fieldmode.Record, bool, error)
}

var errNoDocument = errors.New("home document not stored")

// Handler provides the public home page endpoint.
type Handler struct {
	cache  *cache.Cache
	pages  DocumentReader
	logger *zap.Logger
}

// NewHandler creates a new home Handler. c may be nil to read the store on
// every request.
func NewHandler(c *cache.Cache, pages DocumentReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cache: c, pages: pages, logger: logger}
}

// Routes returns a chi.Router with home routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	return r
}

// Get writes the home page document.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, source := h.Load(r.Context())
	w.Header().Set(SourceHeader, source)
	w.Header().Set("Cache-Control", "no-cache")
	jsonutil.OK(w, doc)
}

// Load returns the home document and where it came from. It never fails:
// a missing document or a store error yields the fallback placeholder, which
// is not cached.
func (h *Handler) Load(ctx context.Context) (fieldmode.Record, string) {
	var doc fieldmode.Record
	var err error
	source := SourceStore

	if h.cache != nil {
		var s cache.Source
		s, err = h.cache.GetOrFetch(ctx, cache.HomePage, &doc, h.fetch)
		if s == cache.SourceCache {
			source = SourceCache
		}
	} else {
		var v any
		v, err = h.fetch(ctx)
		if err == nil {
			doc = v.(fieldmode.Record)
		}
	}

	switch {
	case errors.Is(err, errNoDocument):
		h.logger.Debug("home document not stored, serving fallback")
		return homeforms.Fallback(), SourceFallback
	case err != nil:
		h.logger.Warn("home document read failed, serving fallback", zap.Error(err))
		return homeforms.Fallback(), SourceFallback
	}
	return doc, source
}

func (h *Handler) fetch(ctx context.Context) (any, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.logger, "read home document")
	defer cancel()

	doc, found, err := h.pages.GetDocument(ctx, models.PagesCollection, models.PageIDHome)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errNoDocument
	}
	return doc, nil
}
