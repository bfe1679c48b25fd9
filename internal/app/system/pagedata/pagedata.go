// internal/app/system/pagedata/pagedata.go

// Package pagedata owns the editor state of one page: the forms container,
// the last loaded document, and the load/save/reset operations around them.
//
// A Controller is built explicitly for each page and handed to whatever
// serves the editor. All failures are reported through the state (Error)
// and through SaveResult; nothing panics past this package.
package pagedata

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"go.uber.org/zap"
)

// DocumentStore is the persistence boundary for page documents.
type DocumentStore interface {
	// GetDocument returns the document and whether it exists.
	GetDocument(ctx context.Context, collection, id string) (fieldmode.Record, bool, error)
	// UpdateFields merges dot-path keys into the document in one write.
	UpdateFields(ctx context.Context, collection, id string, fields fieldmode.Record) error
}

// Audit field names written with every save.
const (
	FieldLastUpdated   = "lastUpdated"
	FieldUpdatedByID   = "updatedById"
	FieldUpdatedByName = "updatedByName"

	// UnknownActor replaces a missing actor id or name.
	UnknownActor = "unknown"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ErrUnknownSection is returned (inside SaveResult) for section names the
// page does not have.
var ErrUnknownSection = errors.New("unknown section")

// Config describes one page.
type Config[F any] struct {
	Collection string // e.g. "pages"
	Document   string // e.g. "home"
	PageName   string // used in logs and messages

	// Sections lists the section names in page order.
	Sections []string

	// SeparateAll converts a stored document into the forms container.
	// It must tolerate missing sections.
	SeparateAll func(fieldmode.Record) F
	// Defaults returns the forms container built from defaults.
	Defaults func() F
	// Clone deep-copies a forms container.
	Clone func(F) F
	// CombineSection returns the dot path and stored value of one section.
	CombineSection func(forms F, section string) (path string, value any, err error)
	// ResetSection copies one section from src into dst.
	ResetSection func(dst *F, src F, section string) error

	// OnSaved, when set, runs after every successful save (after the reload).
	OnSaved OnSavedFunc
}

// OnSavedFunc is told which sections a successful save wrote.
type OnSavedFunc func(ctx context.Context, sections []string)

func (c Config[F]) validate() error {
	switch {
	case c.Collection == "" || c.Document == "":
		return errors.New("pagedata: collection and document are required")
	case len(c.Sections) == 0:
		return errors.New("pagedata: no sections")
	case c.SeparateAll == nil || c.Defaults == nil || c.Clone == nil ||
		c.CombineSection == nil || c.ResetSection == nil:
		return errors.New("pagedata: SeparateAll, Defaults, Clone, CombineSection and ResetSection are required")
	}
	return nil
}

// Actor identifies who performed a save.
type Actor struct {
	ID   string
	Name string
}

// Option customises a Controller.
type Option func(*settings)

type settings struct {
	now func() time.Time
}

// WithClock replaces time.Now for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Controller is the stateful editor for one page. It is safe for concurrent
// use: loads and saves are serialised, so a second save waits until the
// first one and its reload have finished; reads take copies.
type Controller[F any] struct {
	cfg    Config[F]
	store  DocumentStore
	logger *zap.Logger
	now    func() time.Time

	opMu sync.Mutex // serialises Load, SaveSection and SaveAll

	mu        sync.RWMutex // guards the fields below
	state     State[F]
	lastStamp time.Time
}

// New builds a controller whose forms start at the page defaults.
func New[F any](cfg Config[F], store DocumentStore, logger *zap.Logger, opts ...Option) (*Controller[F], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("pagedata: nil store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := settings{now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	if cfg.PageName == "" {
		cfg.PageName = cfg.Document
	}
	return &Controller[F]{
		cfg:    cfg,
		store:  store,
		logger: logger.With(zap.String("page", cfg.PageName)),
		now:    s.now,
		state: State[F]{
			Phase: Unloaded,
			Forms: cfg.Defaults(),
		},
	}, nil
}

// PageName returns the configured page name.
func (c *Controller[F]) PageName() string { return c.cfg.PageName }

// Sections returns the page's section names in order.
func (c *Controller[F]) Sections() []string {
	return append([]string(nil), c.cfg.Sections...)
}

// HasSection reports whether name is a section of this page.
func (c *Controller[F]) HasSection(name string) bool {
	for _, s := range c.cfg.Sections {
		if s == name {
			return true
		}
	}
	return false
}
