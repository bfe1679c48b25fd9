// internal/app/features/systemusers/systemusers.go

// Package systemusers lets admins manage the accounts of the admin panel.
package systemusers

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	userstore "github.com/dalemusser/elaspodem/internal/app/store/users"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authutil"
	"github.com/dalemusser/elaspodem/internal/app/system/authz"
	"github.com/dalemusser/elaspodem/internal/app/system/inputval"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler provides user management handlers.
type Handler struct {
	users  *userstore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger

	// passwordOptional allows accounts that only sign in with Google.
	passwordOptional bool
}

// NewHandler creates a new user management Handler. Set passwordOptional
// when Google sign-in is enabled.
func NewHandler(users *userstore.Store, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, passwordOptional bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = errorsfeature.NewErrorLogger(logger)
	}
	return &Handler{
		users:            users,
		audit:            audit,
		errLog:           errLog,
		logger:           logger,
		passwordOptional: passwordOptional,
	}
}

// Routes returns a chi.Router with user management routes mounted. It is
// meant to be mounted at /admin/users.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequirePermission(authz.CanManageUsers))

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/roles", h.roles)
	r.Get("/{id}", h.show)
	r.Patch("/{id}", h.update)
	r.Put("/{id}/password", h.setPassword)
	return r
}

// userView is a user as the admin panel lists it.
type userView struct {
	models.User
	RoleName string `json:"roleName"`
	// HasPassword is false for accounts that only sign in with Google.
	HasPassword bool `json:"hasPassword"`
}

func viewOf(u models.User) userView {
	return userView{User: u, RoleName: models.RoleDisplayName(u.Role), HasPassword: u.PasswordHash != nil}
}

type roleView struct {
	Role        string            `json:"role"`
	Name        string            `json:"name"`
	Permissions authz.Permissions `json:"permissions"`
}

func (h *Handler) roles(w http.ResponseWriter, r *http.Request) {
	out := make([]roleView, 0, len(models.AllRoles()))
	for _, role := range models.AllRoles() {
		perms, _ := authz.PermissionsFor(role)
		out = append(out, roleView{Role: role, Name: models.RoleDisplayName(role), Permissions: perms})
	}
	jsonutil.OK(w, out)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "list users")
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.errLog.InternalError(w, r, "list users failed", err)
		return
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, viewOf(u))
	}
	jsonutil.OK(w, out)
}

func userID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, userstore.ErrNotFound.Error())
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "get user")
	defer cancel()

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "get user failed", err)
		return
	}
	jsonutil.OK(w, viewOf(*u))
}

type createInput struct {
	Email       string `json:"email" validate:"required,email" label:"Email"`
	DisplayName string `json:"displayName" validate:"max=200" label:"Display name"`
	Role        string `json:"role" validate:"required,role" label:"Role"`
	Password    string `json:"password"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	if in.Role == models.RoleSuperAdmin && !authz.IsSuperAdmin(r) {
		jsonutil.Forbidden(w, "only a super admin can create a super admin")
		return
	}

	acc, err := authutil.ResolveAccount(authutil.AccountInput{
		Email:            in.Email,
		DisplayName:      in.DisplayName,
		Password:         in.Password,
		PasswordOptional: h.passwordOptional,
	})
	if err != nil {
		field := "password"
		if errors.Is(err, authutil.ErrEmailRequired) || errors.Is(err, authutil.ErrInvalidEmail) {
			field = "email"
		}
		jsonutil.ValidationError(w, map[string]string{field: err.Error()})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "create user")
	defer cancel()

	u, err := h.users.Create(ctx, models.User{
		Email:        acc.Email,
		DisplayName:  acc.DisplayName,
		Role:         in.Role,
		Active:       true,
		PasswordHash: acc.PasswordHash,
	})
	if err != nil {
		h.storeError(w, r, "create user failed", err)
		return
	}

	h.audit.UserCreated(ctx, r, actorFrom(r), u.ID, u.Role)
	h.logger.Info("user created", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	jsonutil.Created(w, viewOf(u))
}

type updateInput struct {
	DisplayName *string `json:"displayName"`
	Role        *string `json:"role"`
	Active      *bool   `json:"active"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var in updateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}
	upd := userstore.UserUpdate{DisplayName: in.DisplayName, Role: in.Role, Active: in.Active}
	if len(upd.Fields()) == 0 {
		jsonutil.BadRequest(w, "nothing to update")
		return
	}
	if in.Role != nil && *in.Role == models.RoleSuperAdmin && !authz.IsSuperAdmin(r) {
		jsonutil.Forbidden(w, "only a super admin can grant the super admin role")
		return
	}
	if in.Active != nil && !*in.Active && actorFrom(r).ID == id.Hex() {
		jsonutil.Error(w, http.StatusConflict, "you cannot deactivate your own account")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "update user")
	defer cancel()

	u, err := h.users.Update(ctx, id, upd)
	if err != nil {
		h.storeError(w, r, "update user failed", err)
		return
	}

	h.audit.UserUpdated(ctx, r, actorFrom(r), u.ID, upd.Fields())
	jsonutil.OK(w, viewOf(*u))
}

type passwordInput struct {
	Password string `json:"password" validate:"required,password" label:"Password"`
}

func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var in passwordInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.errLog.InternalError(w, r, "hash password failed", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "set password")
	defer cancel()

	if err := h.users.SetPassword(ctx, id, hash); err != nil {
		h.storeError(w, r, "set password failed", err)
		return
	}
	h.audit.UserUpdated(ctx, r, actorFrom(r), id, []string{"password"})
	jsonutil.NoContent(w)
}

// storeError maps user store errors to responses.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		jsonutil.NotFound(w, err.Error())
	case errors.Is(err, userstore.ErrDuplicateEmail):
		jsonutil.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, userstore.ErrInvalidRole):
		jsonutil.ValidationError(w, map[string]string{"role": err.Error()})
	case errors.Is(err, userstore.ErrSuperAdminProtected):
		jsonutil.Error(w, http.StatusConflict, err.Error())
	default:
		h.errLog.InternalError(w, r, msg, err)
	}
}

func actorFrom(r *http.Request) auditlog.Actor {
	_, name, id, ok := authz.UserCtx(r)
	if !ok {
		return auditlog.Actor{}
	}
	return auditlog.Actor{ID: id.Hex(), Name: name}
}
