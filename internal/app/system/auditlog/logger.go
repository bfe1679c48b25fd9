// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// ValidMode reports whether m is one of the destination modes.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration, one destination per category.
type Config struct {
	Auth    string // sign-in and sign-out
	Content string // page saves and image uploads
	Admin   string // user management
}

// Recorder persists audit events. audit.Store satisfies it.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Actor identifies who performed an action.
type Actor struct {
	ID   string // user ObjectID hex
	Name string
}

func (a Actor) objectID() *primitive.ObjectID {
	if oid, err := primitive.ObjectIDFromHex(a.ID); err == nil {
		return &oid
	}
	return nil
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via Recorder) and structured logs (via zap).
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.ActorName != "" {
		fields = append(fields, zap.String("actor_name", event.ActorName))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryContent:
		m = l.config.Content
	case audit.CategoryAdmin:
		m = l.config.Admin
	}
	if m == "" {
		return ModeAll
	}
	return m
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.mode(event.Category)
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        network.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, method string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID = &userID
	e.Details = map[string]string{"email": email, "method": method}
	l.Log(ctx, e)
}

// LoginFailed logs a rejected sign-in. eventType is one of the
// audit.EventLoginFailed* constants; userID is nil when no user matched.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, email, reason string) {
	e := requestEvent(r, audit.CategoryAuth, eventType)
	e.UserID = userID
	e.Success = false
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// Logout logs a sign-out. userIDStr comes from the session.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLogout)
	e.UserID = Actor{ID: userIDStr}.objectID()
	l.Log(ctx, e)
}

// --- Content Events ---

func (l *Logger) content(ctx context.Context, r *http.Request, eventType string, actor Actor, details map[string]string) {
	e := requestEvent(r, audit.CategoryContent, eventType)
	e.ActorID = actor.objectID()
	e.ActorName = actor.Name
	e.Details = details
	l.Log(ctx, e)
}

// SectionSaved logs a single-section save of a page.
func (l *Logger) SectionSaved(ctx context.Context, r *http.Request, actor Actor, page, section, lastUpdated string) {
	l.content(ctx, r, audit.EventPageSectionSaved, actor, map[string]string{
		"page":         page,
		"section":      section,
		"last_updated": lastUpdated,
	})
}

// PageSaved logs a save of every section of a page.
func (l *Logger) PageSaved(ctx context.Context, r *http.Request, actor Actor, page string, sections []string, lastUpdated string) {
	l.content(ctx, r, audit.EventPageSaved, actor, map[string]string{
		"page":         page,
		"sections":     strings.Join(sections, ","),
		"count":        strconv.Itoa(len(sections)),
		"last_updated": lastUpdated,
	})
}

// ImageUploaded logs an image stored during editing.
func (l *Logger) ImageUploaded(ctx context.Context, r *http.Request, actor Actor, category, path string, size int64) {
	l.content(ctx, r, audit.EventImageUploaded, actor, map[string]string{
		"category": category,
		"path":     path,
		"size":     strconv.FormatInt(size, 10),
	})
}

// ImageDeleted logs the removal of a replaced or abandoned image.
func (l *Logger) ImageDeleted(ctx context.Context, r *http.Request, actor Actor, url string) {
	l.content(ctx, r, audit.EventImageDeleted, actor, map[string]string{"url": url})
}

// --- Admin Events ---

// UserCreated logs when an admin creates a user.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actor Actor, targetUserID primitive.ObjectID, role string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserCreated)
	e.UserID = &targetUserID
	e.ActorID = actor.objectID()
	e.ActorName = actor.Name
	e.Details = map[string]string{"role": role}
	l.Log(ctx, e)
}

// UserUpdated logs when an admin changes a user.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actor Actor, targetUserID primitive.ObjectID, fieldsChanged []string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserUpdated)
	e.UserID = &targetUserID
	e.ActorID = actor.objectID()
	e.ActorName = actor.Name
	e.Details = map[string]string{"fields_changed": strings.Join(fieldsChanged, ",")}
	l.Log(ctx, e)
}
