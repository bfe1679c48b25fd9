// internal/app/features/login/login.go

// Package login serves the admin sign-in API: email and password sign-in,
// sign-out, the current user, and the CSRF token for the admin SPA.
package login

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/elaspodem/internal/app/store/users"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authutil"
	"github.com/dalemusser/elaspodem/internal/app/system/authz"
	"github.com/dalemusser/elaspodem/internal/app/system/inputval"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/normalize"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler provides the sign-in endpoints.
type Handler struct {
	users      *userstore.Store
	sessionMgr *auth.SessionManager
	limiter    *ratelimit.Store // nil disables rate limiting
	audit      *auditlog.Logger
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler creates a new login Handler. limiter and audit may be nil.
func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.Store,
	audit *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = errorsfeature.NewErrorLogger(logger)
	}
	return &Handler{
		users:      users,
		sessionMgr: sessionMgr,
		limiter:    limiter,
		audit:      audit,
		errLog:     errLog,
		logger:     logger,
		now:        time.Now,
	}
}

// Routes returns a chi.Router with the sign-in routes mounted. It is meant
// to be mounted at /api/auth.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/csrf", h.csrfToken)
	r.With(auth.RequireSignedIn).Get("/me", h.me)
	return r
}

// UserView is the signed-in user with what they may do.
type UserView struct {
	User        auth.SessionUser  `json:"user"`
	RoleName    string            `json:"roleName"`
	Permissions authz.Permissions `json:"permissions"`
}

func viewOf(u auth.SessionUser) UserView {
	perms, _ := authz.PermissionsFor(u.Role)
	return UserView{User: u, RoleName: models.RoleDisplayName(u.Role), Permissions: perms}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "sign in")
	defer cancel()

	if h.limiter != nil {
		if allowed, until := h.limiter.CheckAllowed(ctx, in.Email); !allowed {
			h.audit.LoginFailed(ctx, r, audit.EventLoginRateLimited, nil, in.Email, "rate limit exceeded")
			jsonutil.Error(w, http.StatusTooManyRequests, lockoutMessage(until, h.now()))
			return
		}
	}

	user, err := h.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		authutil.VerifyPassword(nil, in.Password)
		h.fail(w, r, in.Email, nil, http.StatusUnauthorized, authutil.UserNotFound())
		return
	}
	if err != nil {
		h.errLog.InternalError(w, r, "user lookup during sign-in failed", err)
		return
	}

	if !authutil.VerifyPassword(user.PasswordHash, in.Password) {
		h.fail(w, r, in.Email, &user.ID, http.StatusUnauthorized, &authutil.Rejection{
			Event:   audit.EventLoginFailedWrongPassword,
			Message: authutil.MsgWrongPassword,
		})
		return
	}
	if rej := authutil.CheckSignIn(user); rej != nil {
		h.fail(w, r, in.Email, &user.ID, http.StatusForbidden, rej)
		return
	}

	if h.limiter != nil {
		if err := h.limiter.ClearOnSuccess(ctx, in.Email); err != nil {
			h.logger.Warn("clear sign-in attempts failed", zap.Error(err))
		}
	}
	if err := h.users.TouchLastLogin(ctx, user.ID, h.now().UTC()); err != nil {
		h.logger.Warn("record last login failed", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Email, user.Role); err != nil {
		h.errLog.InternalError(w, r, "create session failed", err)
		return
	}
	h.audit.LoginSuccess(ctx, r, user.ID, user.Email, "password")

	jsonutil.OK(w, viewOf(auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.DisplayName,
		Email: user.Email,
		Role:  user.Role,
	}))
}

// fail records a rejected sign-in and answers with its message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, email string, userID *primitive.ObjectID, status int, rej *authutil.Rejection) {
	if h.limiter != nil {
		h.limiter.RecordFailure(r.Context(), email)
	}
	h.audit.LoginFailed(r.Context(), r, rej.Event, userID, email, rej.Message)
	jsonutil.Error(w, status, rej.Message)
}

func lockoutMessage(until *time.Time, now time.Time) string {
	if until == nil {
		return "Too many failed sign-in attempts. Please try again later."
	}
	remaining := until.Sub(now)
	if remaining > time.Minute {
		return fmt.Sprintf("Too many failed sign-in attempts. Please try again in %d minute(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Too many failed sign-in attempts. Please try again in %d second(s).", int(remaining.Seconds())+1)
}

// handleLogout ends the session. It succeeds even when nobody is signed in.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.audit.Logout(r.Context(), r, user.ID)
	}
	h.sessionMgr.DestroySession(w, r)
	jsonutil.NoContent(w)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	jsonutil.OK(w, viewOf(*user))
}

// csrfToken hands the admin SPA the token it must echo in X-CSRF-Token.
func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	token := csrf.Token(r)
	w.Header().Set("X-CSRF-Token", token)
	jsonutil.OK(w, map[string]string{"token": token})
}
