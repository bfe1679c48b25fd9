// internal/app/features/pages/pages.go

// Package pages serves the admin editor API for the home page. It drives a
// single pagedata.HomeController: edits land in the controller's forms, and
// only the save endpoints write to the store.
package pages

import (
	"errors"
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authz"
	"github.com/dalemusser/elaspodem/internal/app/system/homeforms"
	"github.com/dalemusser/elaspodem/internal/app/system/htmlsanitize"
	"github.com/dalemusser/elaspodem/internal/app/system/inputval"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/pagedata"
	"github.com/dalemusser/elaspodem/internal/app/system/pageeditor"
	"github.com/dalemusser/elaspodem/internal/app/system/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the home editor endpoints.
type Handler struct {
	home    *pagedata.HomeController
	uploads *pageeditor.Uploads
	audit   *auditlog.Logger
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
}

// NewHandler creates a new pages Handler. uploads and audit may be nil.
func NewHandler(home *pagedata.HomeController, uploads *pageeditor.Uploads, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = errorsfeature.NewErrorLogger(logger)
	}
	return &Handler{
		home:    home,
		uploads: uploads,
		audit:   audit,
		errLog:  errLog,
		logger:  logger,
	}
}

// Routes returns a chi.Router with the editor routes mounted. It is meant to
// be mounted at /admin/home.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/theme", h.theme)
	r.With(authz.RequirePermission(authz.CanEdit, authz.CanPublish)).Get("/", h.state)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.CanEdit))
		r.Post("/load", h.load)
		r.Put("/sections/{section}", h.putSection)
		r.Post("/sections/{section}/validate", h.validateSection)
		r.Post("/sections/{section}/reset", h.resetSection)
		r.Post("/reset", h.resetAll)
		r.Get("/new/{list}", h.newItem)
		r.Post("/items/{list}", h.addItem)
		r.Post("/items/{list}/move", h.moveItem)
		r.Delete("/items/{list}/{index}", h.removeItem)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.CanPublish))
		r.Post("/sections/{section}/save", h.saveSection)
		r.Post("/save", h.saveAll)
	})
	return r
}

// stateView is the editor state as the admin UI sees it.
type stateView struct {
	Phase           pagedata.Phase      `json:"phase"`
	Forms           homeforms.HomeForms `json:"forms"`
	HasOriginal     bool                `json:"hasOriginal"`
	IsLoading       bool                `json:"isLoading"`
	IsSaving        bool                `json:"isSaving"`
	Error           string              `json:"error,omitempty"`
	LastUpdated     string              `json:"lastUpdated,omitempty"`
	ChangedSections []string            `json:"changedSections"`
}

func (h *Handler) view() stateView {
	s := h.home.Snapshot()
	original := homeforms.CreateDefaultHomeForms()
	if s.HasOriginal() {
		original = homeforms.SeparateAllSections(s.Original)
	}
	changed := pageeditor.ChangedSections(s.Forms, original)
	if changed == nil {
		changed = []string{}
	}
	return stateView{
		Phase:           s.Phase,
		Forms:           s.Forms,
		HasOriginal:     s.HasOriginal(),
		IsLoading:       s.IsLoading,
		IsSaving:        s.IsSaving,
		Error:           s.Error,
		LastUpdated:     s.LastUpdated,
		ChangedSections: changed,
	}
}

// state writes the editor state, loading the page on first use.
func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	if h.home.Snapshot().Phase == pagedata.Unloaded {
		if err := h.home.Load(r.Context()); err != nil {
			h.errLog.Log(r, "initial home load failed", err)
		}
	}
	jsonutil.OK(w, h.view())
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	if err := h.home.Load(r.Context()); err != nil {
		h.errLog.Log(r, "home load failed", err)
		jsonutil.JSON(w, http.StatusBadGateway, h.view())
		return
	}
	jsonutil.OK(w, h.view())
}

func (h *Handler) putSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	if !h.home.HasSection(name) {
		jsonutil.NotFound(w, "unknown section")
		return
	}
	body, err := jsonutil.ReadBody(r)
	if err != nil {
		h.bodyError(w, err)
		return
	}
	err = h.home.UpdateForms(func(f *homeforms.HomeForms) error {
		return f.SetEditable(name, body, htmlsanitize.Text)
	})
	if err != nil {
		h.editError(w, err)
		return
	}
	jsonutil.OK(w, h.view())
}

func (h *Handler) validateSection(w http.ResponseWriter, r *http.Request) {
	res, err := validation.Section(h.home.Forms(), chi.URLParam(r, "section"))
	if err != nil {
		jsonutil.NotFound(w, "unknown section")
		return
	}
	jsonutil.OK(w, res)
}

// invalidForms stops a save whose forms fail validation.
type invalidForms struct {
	errs []string
}

func (e *invalidForms) Error() string { return "validation failed" }

func checkWith(validate func(homeforms.HomeForms) validation.Result) pagedata.Check[homeforms.HomeForms] {
	return func(f homeforms.HomeForms) error {
		if res := validate(f); !res.IsValid {
			return &invalidForms{errs: res.Errors}
		}
		return nil
	}
}

func (h *Handler) saveSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	if !h.home.HasSection(name) {
		jsonutil.NotFound(w, "unknown section")
		return
	}

	actor := actorFrom(r)
	check := checkWith(func(f homeforms.HomeForms) validation.Result {
		res, _ := validation.Section(f, name)
		return res
	})
	result := h.home.SaveSection(r.Context(), name, pagedata.Actor(actor), check)
	if !result.Success {
		h.saveFailed(w, r, result, zap.String("section", name))
		return
	}
	lastUpdated := h.home.Snapshot().LastUpdated
	h.audit.SectionSaved(r.Context(), r, actor, h.home.PageName(), name, lastUpdated)
	h.commitUploads(r)
	jsonutil.OK(w, result)
}

func (h *Handler) saveAll(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	result := h.home.SaveAll(r.Context(), pagedata.Actor(actor), checkWith(validation.All))
	if !result.Success {
		h.saveFailed(w, r, result)
		return
	}
	lastUpdated := h.home.Snapshot().LastUpdated
	h.audit.PageSaved(r.Context(), r, actor, h.home.PageName(), result.SavedSections, lastUpdated)
	h.commitUploads(r)
	jsonutil.OK(w, result)
}

func (h *Handler) saveFailed(w http.ResponseWriter, r *http.Request, result pagedata.SaveResult, fields ...zap.Field) {
	var invalid *invalidForms
	if errors.As(result.Err, &invalid) {
		jsonutil.Invalid(w, "validation failed", invalid.errs)
		return
	}
	h.errLog.LogWithFields(r, "home save failed", result.Err, fields...)
	jsonutil.JSON(w, http.StatusInternalServerError, result)
}

// commitUploads keeps the session's uploads that the saved page now
// references. Failures only delay the cleanup, so they are logged.
func (h *Handler) commitUploads(r *http.Request) {
	session := r.Header.Get(pageeditor.SessionHeader)
	if h.uploads == nil || session == "" {
		return
	}
	referenced := pageeditor.ReferencedImages(homeforms.CombineDocument(h.home.Forms()))
	if _, err := h.uploads.Commit(r.Context(), session, referenced); err != nil {
		h.logger.Warn("commit editor uploads failed", zap.String("session", session), zap.Error(err))
	}
}

func (h *Handler) resetSection(w http.ResponseWriter, r *http.Request) {
	if err := h.home.ResetSection(chi.URLParam(r, "section")); err != nil {
		jsonutil.NotFound(w, "unknown section")
		return
	}
	jsonutil.OK(w, h.view())
}

func (h *Handler) resetAll(w http.ResponseWriter, r *http.Request) {
	h.home.ResetAll()
	jsonutil.OK(w, h.view())
}

func (h *Handler) newItem(w http.ResponseWriter, r *http.Request) {
	l, err := homeforms.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		jsonutil.NotFound(w, err.Error())
		return
	}
	item, err := homeforms.NewItem(l)
	if err != nil {
		jsonutil.NotFound(w, err.Error())
		return
	}
	jsonutil.OK(w, item)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	l, err := homeforms.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		jsonutil.NotFound(w, err.Error())
		return
	}
	var index int
	err = h.home.UpdateForms(func(f *homeforms.HomeForms) error {
		var err error
		index, err = f.AddItem(l)
		return err
	})
	if err != nil {
		h.editError(w, err)
		return
	}
	jsonutil.Created(w, map[string]any{"index": index, "state": h.view()})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	l, err := homeforms.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		jsonutil.NotFound(w, err.Error())
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonutil.BadRequest(w, "index must be a number")
		return
	}
	err = h.home.UpdateForms(func(f *homeforms.HomeForms) error {
		return f.RemoveItem(l, index)
	})
	if err != nil {
		h.editError(w, err)
		return
	}
	jsonutil.OK(w, h.view())
}

type moveInput struct {
	From int `json:"from" validate:"min=0" label:"From"`
	To   int `json:"to" validate:"min=0" label:"To"`
}

func (h *Handler) moveItem(w http.ResponseWriter, r *http.Request) {
	l, err := homeforms.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		jsonutil.NotFound(w, err.Error())
		return
	}
	var in moveInput
	if err := jsonutil.Decode(r, &in); err != nil {
		h.bodyError(w, err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	err = h.home.UpdateForms(func(f *homeforms.HomeForms) error {
		return f.MoveItem(l, in.From, in.To)
	})
	if err != nil {
		h.editError(w, err)
		return
	}
	jsonutil.OK(w, h.view())
}

type themeView struct {
	Colors []homeforms.Option `json:"colors"`
	Icons  []homeforms.Option `json:"icons"`
}

func (h *Handler) theme(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, themeView{Colors: homeforms.ThemeColors, Icons: homeforms.Icons})
}

// editError maps a failed forms edit to a response.
func (h *Handler) editError(w http.ResponseWriter, err error) {
	var unknown homeforms.ErrUnknownSection
	switch {
	case errors.Is(err, pagedata.ErrBusy):
		jsonutil.Error(w, http.StatusConflict, "page is loading or saving, try again")
	case errors.As(err, &unknown):
		jsonutil.NotFound(w, err.Error())
	default:
		jsonutil.BadRequest(w, err.Error())
	}
}

func (h *Handler) bodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, jsonutil.ErrBodyTooLarge) {
		jsonutil.Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	jsonutil.BadRequest(w, "invalid request body")
}

func actorFrom(r *http.Request) auditlog.Actor {
	_, name, id, ok := authz.UserCtx(r)
	if !ok {
		return auditlog.Actor{}
	}
	return auditlog.Actor{ID: id.Hex(), Name: name}
}
