// internal/app/features/authgoogle/authgoogle.go

// Package authgoogle signs admins in with their Google account. Google only
// vouches for the email; the account, its role and its status come from the
// users collection exactly as for password sign-in.
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	"github.com/dalemusser/elaspodem/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/elaspodem/internal/app/store/users"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authutil"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config holds the Google client and where the admin SPA lives.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // public origin; the callback is BaseURL + "/api/auth/google/callback"
	SuccessPath  string // where a signed-in admin lands, default "/admin"
	FailurePath  string // sign-in page; receives ?error=<code>, default "/admin/login"
}

// Handler provides Google OAuth handlers.
type Handler struct {
	users       *userstore.Store
	sessionMgr  *auth.SessionManager
	states      *oauthstate.Store
	audit       *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	oauthConfig *oauth2.Config
	userInfoURL string
	successPath string
	failurePath string
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a new Google OAuth Handler.
func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	states *oauthstate.Store,
	audit *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	cfg Config,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = errorsfeature.NewErrorLogger(logger)
	}
	if cfg.SuccessPath == "" {
		cfg.SuccessPath = "/admin"
	}
	if cfg.FailurePath == "" {
		cfg.FailurePath = "/admin/login"
	}
	return &Handler{
		users:      users,
		sessionMgr: sessionMgr,
		states:     states,
		audit:      audit,
		errLog:     errLog,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: userInfoURL,
		successPath: cfg.SuccessPath,
		failurePath: cfg.FailurePath,
		logger:      logger,
		now:         time.Now,
	}
}

// Routes returns a chi.Router with Google OAuth routes mounted. It is meant
// to be mounted at /api/auth/google.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

func (h *Handler) failTo(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.failurePath+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// startAuth sends the browser to Google's consent screen.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	state, err := h.states.Generate(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to store oauth state", err)
		h.failTo(w, r, "oauth_error")
		return
	}
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// handleCallback finishes the flow Google redirected back from.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.states.Verify(r.Context(), q.Get("state")) {
		h.logger.Warn("invalid oauth state")
		h.failTo(w, r, "invalid_state")
		return
	}
	if errMsg := q.Get("error"); errMsg != "" {
		h.logger.Info("google sign-in not completed", zap.String("error", errMsg))
		h.failTo(w, r, errMsg)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		h.errLog.Log(r, "failed to exchange oauth code", err)
		h.failTo(w, r, "token_exchange_failed")
		return
	}

	info, err := h.userInfo(r.Context(), token)
	if err != nil {
		h.errLog.Log(r, "failed to get google user info", err)
		h.failTo(w, r, "userinfo_failed")
		return
	}
	if !info.VerifiedEmail {
		h.failTo(w, r, "email_not_verified")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "google sign in")
	defer cancel()

	user, err := h.users.GetByEmail(ctx, info.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		rej := authutil.UserNotFound()
		h.audit.LoginFailed(ctx, r, rej.Event, nil, info.Email, rej.Message)
		h.failTo(w, r, rej.Code)
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to get user by email", err)
		h.failTo(w, r, "database_error")
		return
	}
	if rej := authutil.CheckSignIn(user); rej != nil {
		h.audit.LoginFailed(ctx, r, rej.Event, &user.ID, user.Email, rej.Message)
		h.failTo(w, r, rej.Code)
		return
	}

	if err := h.users.TouchLastLogin(ctx, user.ID, h.now().UTC()); err != nil {
		h.logger.Warn("record last login failed", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Email, user.Role); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		h.failTo(w, r, "session_error")
		return
	}
	h.audit.LoginSuccess(ctx, r, user.ID, user.Email, "google")

	http.Redirect(w, r, h.successPath, http.StatusSeeOther)
}

// UserInfo is the part of Google's profile the sign-in needs.
type UserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *Handler) userInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
