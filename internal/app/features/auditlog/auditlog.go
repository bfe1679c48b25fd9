// internal/app/features/auditlog/auditlog.go

// Package auditlog serves the audit trail to admins who may read logs.
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authz"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/normalize"
	"github.com/dalemusser/elaspodem/internal/app/system/tasks"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TaskStatus reports the background jobs. *tasks.Runner implements it.
type TaskStatus interface {
	Status() []tasks.JobStatus
}

// Handler provides audit log handlers.
type Handler struct {
	events *audit.Store
	tasks  TaskStatus
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new audit log Handler.
func NewHandler(events *audit.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = errorsfeature.NewErrorLogger(logger)
	}
	return &Handler{events: events, errLog: errLog, logger: logger, now: time.Now}
}

// WithTasks makes GET /tasks report ts. Without it the list is empty.
func (h *Handler) WithTasks(ts TaskStatus) *Handler {
	h.tasks = ts
	return h
}

// Routes returns a chi.Router with audit log routes mounted. It is meant to
// be mounted at /admin/logs.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequirePermission(authz.CanViewLogs))

	r.Get("/", h.list)
	r.Get("/failed-logins", h.failedLogins)
	r.Get("/tasks", h.taskStatus)
	return r
}

type listResult struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Limit      int64         `json:"limit"`
	Offset     int64         `json:"offset"`
	Categories []string      `json:"categories"`
}

// list answers GET /?category=&eventType=&user=&since=&until=&limit=&offset=.
// Times are RFC 3339.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Category:  normalize.Category(q.Get("category")),
		EventType: normalize.QueryParam(q.Get("eventType")),
	}
	if filter.Category != "" && !audit.IsCategory(filter.Category) {
		jsonutil.BadRequest(w, "unknown category: "+filter.Category)
		return
	}
	if v := q.Get("user"); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			jsonutil.BadRequest(w, "invalid user id")
			return
		}
		filter.UserID = &oid
	}

	var err error
	if filter.StartTime, err = parseTime(q.Get("since")); err != nil {
		jsonutil.BadRequest(w, "invalid since: use RFC 3339")
		return
	}
	if filter.EndTime, err = parseTime(q.Get("until")); err != nil {
		jsonutil.BadRequest(w, "invalid until: use RFC 3339")
		return
	}
	if filter.Limit, err = parseCount(q.Get("limit"), audit.DefaultLimit); err != nil {
		jsonutil.BadRequest(w, "invalid limit")
		return
	}
	if filter.Limit > audit.MaxLimit {
		filter.Limit = audit.MaxLimit
	}
	if filter.Offset, err = parseCount(q.Get("offset"), 0); err != nil {
		jsonutil.BadRequest(w, "invalid offset")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "query audit log")
	defer cancel()

	events, err := h.events.Query(ctx, filter)
	if err != nil {
		h.errLog.InternalError(w, r, "query audit log failed", err)
		return
	}
	total, err := h.events.CountByFilter(ctx, filter)
	if err != nil {
		h.errLog.InternalError(w, r, "count audit log failed", err)
		return
	}

	jsonutil.OK(w, listResult{
		Events:     events,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		Categories: audit.Categories(),
	})
}

// failedLogins answers GET /failed-logins?hours=N (default 24).
func (h *Handler) failedLogins(w http.ResponseWriter, r *http.Request) {
	hours, err := parseCount(r.URL.Query().Get("hours"), 24)
	if err != nil || hours == 0 {
		jsonutil.BadRequest(w, "invalid hours")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "query failed logins")
	defer cancel()

	since := h.now().Add(-time.Duration(hours) * time.Hour)
	events, err := h.events.GetFailedLogins(ctx, since, audit.DefaultLimit)
	if err != nil {
		h.errLog.InternalError(w, r, "query failed logins failed", err)
		return
	}
	jsonutil.OK(w, map[string]any{"events": events, "since": since})
}

// taskStatus answers GET /tasks with the housekeeping jobs' recent runs.
func (h *Handler) taskStatus(w http.ResponseWriter, r *http.Request) {
	list := []tasks.JobStatus{}
	if h.tasks != nil {
		list = h.tasks.Status()
	}
	jsonutil.OK(w, map[string]any{"tasks": list})
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseCount(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
