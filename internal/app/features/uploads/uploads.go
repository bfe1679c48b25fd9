// internal/app/features/uploads/uploads.go

// Package uploads receives page images from the editor. Every upload is
// tracked against the editor session until a save commits it; uploads that
// are never saved are discarded with the session or swept later.
package uploads

import (
	"errors"
	"fmt"
	"net/http"

	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	"github.com/dalemusser/elaspodem/internal/app/store/tempuploads"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authz"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/media"
	"github.com/dalemusser/elaspodem/internal/app/system/normalize"
	"github.com/dalemusser/elaspodem/internal/app/system/pageeditor"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartOverhead is allowed on top of the image limit for the form
// envelope and the category field.
const multipartOverhead = 1 << 20

// Handler provides the image upload endpoints.
type Handler struct {
	media   *media.Service
	uploads *pageeditor.Uploads
	audit   *auditlog.Logger
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
}

// NewHandler creates a new uploads Handler. audit may be nil.
func NewHandler(m *media.Service, uploads *pageeditor.Uploads, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = errorsfeature.NewErrorLogger(logger)
	}
	return &Handler{
		media:   m,
		uploads: uploads,
		audit:   audit,
		errLog:  errLog,
		logger:  logger,
	}
}

// Routes returns a chi.Router with upload routes mounted. It is meant to be
// mounted at /admin/uploads.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequirePermission(authz.CanEdit))

	r.Post("/", h.upload)
	r.Post("/cleanup", h.cleanup)
	r.Delete("/session/{id}", h.discard)
	return r
}

type uploadResult struct {
	URL       string `json:"url"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"sizeLabel"`
}

// upload stores one image from a multipart form with "file" and "category".
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	session := r.Header.Get(pageeditor.SessionHeader)
	if !pageeditor.ValidSessionID(session) {
		jsonutil.BadRequest(w, pageeditor.ErrNoSession.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(h.media.MaxBytes()); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonutil.Error(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("image is too large: maximum %s", FormatFileSize(h.media.MaxBytes())))
			return
		}
		jsonutil.BadRequest(w, "invalid multipart form")
		return
	}

	category := normalize.Category(r.FormValue("category"))
	if !media.IsCategory(category) {
		jsonutil.BadRequest(w, media.ErrInvalidCategory.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "please select a file to upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := h.media.ValidateImage(header.Filename, contentType, header.Size); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, media.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		jsonutil.Error(w, status, err.Error())
		return
	}

	url, path, err := h.media.Upload(r.Context(), file, header.Filename, contentType, category)
	if err != nil {
		h.errLog.InternalError(w, r, "image upload failed", err, zap.String("category", category))
		return
	}

	actor := actorFrom(r)
	err = h.uploads.Track(r.Context(), tempuploads.TrackInput{
		SessionID:   session,
		URL:         url,
		StoragePath: path,
		Category:    category,
		Size:        header.Size,
		ContentType: contentType,
		CreatedByID: actor.ID,
	})
	if err != nil {
		// The image is stored; only the automatic cleanup is lost.
		h.logger.Warn("track upload failed", zap.String("path", path), zap.Error(err))
	}

	h.audit.ImageUploaded(r.Context(), r, actor, category, path, header.Size)
	jsonutil.Created(w, uploadResult{
		URL:       url,
		Path:      path,
		Size:      header.Size,
		SizeLabel: FormatFileSize(header.Size),
	})
}

type cleanupInput struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// cleanup deletes an image the editor just replaced.
func (h *Handler) cleanup(w http.ResponseWriter, r *http.Request) {
	var in cleanupInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}
	deleted := pageeditor.CleanupOldImage(r.Context(), h.media, in.Old, in.New)
	if deleted {
		h.audit.ImageDeleted(r.Context(), r, actorFrom(r), in.Old)
	}
	jsonutil.OK(w, map[string]bool{"deleted": deleted})
}

// discard removes every upload of an editor session that was not saved.
func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "id")
	if !pageeditor.ValidSessionID(session) {
		jsonutil.BadRequest(w, "invalid session id")
		return
	}
	n, err := h.uploads.Discard(r.Context(), session)
	if err != nil {
		h.errLog.InternalError(w, r, "discard uploads failed", err, zap.String("session", session))
		return
	}
	jsonutil.OK(w, map[string]int{"removed": n})
}

func actorFrom(r *http.Request) auditlog.Actor {
	_, name, id, ok := authz.UserCtx(r)
	if !ok {
		return auditlog.Actor{}
	}
	return auditlog.Actor{ID: id.Hex(), Name: name}
}
