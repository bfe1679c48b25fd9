// internal/app/features/errors/errors.go

// Package errors logs handler failures and answers unmatched routes with the
// JSON error body every other endpoint uses.
package errors

import (
	"net/http"

	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs handler errors with the request they belong to.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{logger: logger}
}

func requestFields(r *http.Request) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := chimw.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

// Log records err at error level, with the request's method, path and id
// followed by any extra fields.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error, extra ...zap.Field) {
	fields := append(requestFields(r), zap.Error(err))
	e.logger.Error(msg, append(fields, extra...)...)
}

// LogWithFields is Log with extra fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	e.Log(r, msg, err, fields...)
}

// InternalError logs err and answers 500. The response never carries err.
func (e *ErrorLogger) InternalError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	e.Log(r, msg, err, fields...)
	jsonutil.InternalError(w, "internal server error")
}

// Handler answers requests no route matched.
type Handler struct{}

// NewHandler returns a Handler.
func NewHandler() *Handler { return &Handler{} }

// NotFound answers 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "not found")
}

// MethodNotAllowed answers 405.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
