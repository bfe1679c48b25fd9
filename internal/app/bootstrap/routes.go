// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/elaspodem/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/elaspodem/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/elaspodem/internal/app/features/errors"
	healthfeature "github.com/dalemusser/elaspodem/internal/app/features/health"
	homefeature "github.com/dalemusser/elaspodem/internal/app/features/home"
	loginfeature "github.com/dalemusser/elaspodem/internal/app/features/login"
	pagesfeature "github.com/dalemusser/elaspodem/internal/app/features/pages"
	systemusersfeature "github.com/dalemusser/elaspodem/internal/app/features/systemusers"
	uploadsfeature "github.com/dalemusser/elaspodem/internal/app/features/uploads"
	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/app/store/cacheentries"
	"github.com/dalemusser/elaspodem/internal/app/store/oauthstate"
	pagestore "github.com/dalemusser/elaspodem/internal/app/store/pages"
	"github.com/dalemusser/elaspodem/internal/app/store/ratelimit"
	"github.com/dalemusser/elaspodem/internal/app/store/tempuploads"
	userstore "github.com/dalemusser/elaspodem/internal/app/store/users"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/cache"
	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/media"
	"github.com/dalemusser/elaspodem/internal/app/system/pagedata"
	"github.com/dalemusser/elaspodem/internal/app/system/pageeditor"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// The public site reads /api/home. Everything the admin SPA calls lives
// under /api/auth and /admin, is session-authenticated, and sends the CSRF
// token from GET /api/auth/csrf in the X-CSRF-Token header.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db, logger))

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Content: appCfg.AuditLogContent,
		Admin:   appCfg.AuditLogAdmin,
	})

	contentCache := cache.New(cache.Options{
		Enabled: appCfg.CacheEnabled,
		TTL:     appCfg.CacheTTL,
		Tier:    cacheentries.New(db),
	}, logger)

	pages := pagestore.New(db)
	mediaSvc := media.New(deps.FileStorage, appCfg.MaxUploadBytes(), logger)
	uploads := pageeditor.NewUploads(tempuploads.New(db), mediaSvc, logger)

	// A save makes the cached public copy stale.
	homeCtl, err := pagedata.NewHome(pages, logger, func(ctx context.Context, sections []string) {
		contentCache.Remove(ctx, cache.HomePage)
	})
	if err != nil {
		logger.Error("home page controller init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request ids tag handler error logs.
	r.Use(chimw.RequestID)
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Loads SessionUser into context if signed in. Public routes simply have none.
	r.Use(sessionMgr.LoadSessionUser)

	r.Use(csrfMiddleware(appCfg, secure, logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, func(ctx context.Context) (bool, error) {
		return pages.Exists(ctx, models.PagesCollection, models.PageIDHome)
	}, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded images (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Public content
	homeHandler := homefeature.NewHandler(contentCache, pages, logger)
	r.Mount("/api/home", homefeature.Routes(homeHandler))

	// Sign-in
	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(db, ratelimit.Config{
			MaxAttempts: appCfg.RateLimitLoginAttempts,
			Window:      appCfg.RateLimitLoginWindow,
			Lockout:     appCfg.RateLimitLoginLockout,
		})
		logger.Info("sign-in rate limiting enabled",
			zap.Int("max_attempts", appCfg.RateLimitLoginAttempts),
			zap.Duration("window", appCfg.RateLimitLoginWindow),
			zap.Duration("lockout", appCfg.RateLimitLoginLockout))
	}
	users := userstore.New(db)
	loginHandler := loginfeature.NewHandler(users, sessionMgr, rateLimitStore, auditLogger, errLog, logger)

	r.Route("/api/auth", func(sr chi.Router) {
		if appCfg.GoogleEnabled() {
			googleHandler := authgooglefeature.NewHandler(users, sessionMgr, oauthstate.New(db), auditLogger, errLog, authgooglefeature.Config{
				ClientID:     appCfg.GoogleClientID,
				ClientSecret: appCfg.GoogleClientSecret,
				BaseURL:      appCfg.BaseURL,
			}, logger)
			sr.Mount("/google", authgooglefeature.Routes(googleHandler))
			logger.Info("Google sign-in enabled")
		}
		sr.Mount("/", loginfeature.Routes(loginHandler))
	})

	// Admin API
	r.Mount("/admin/home", pagesfeature.Routes(pagesfeature.NewHandler(homeCtl, uploads, auditLogger, errLog, logger)))
	r.Mount("/admin/uploads", uploadsfeature.Routes(uploadsfeature.NewHandler(mediaSvc, uploads, auditLogger, errLog, logger)))
	r.Mount("/admin/users", systemusersfeature.Routes(systemusersfeature.NewHandler(users, auditLogger, errLog, appCfg.GoogleEnabled(), logger)))
	logsHandler := auditlogfeature.NewHandler(auditStore, errLog, logger)
	if taskRunner != nil {
		logsHandler.WithTasks(taskRunner)
	}
	r.Mount("/admin/logs", auditlogfeature.Routes(logsHandler))

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}

// csrfMiddleware protects every unsafe request. The admin SPA sends the token
// in the X-CSRF-Token header.
func csrfMiddleware(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	// Cookie name is "elaspodem_csrf" to avoid collisions with other services
	// on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("elaspodem_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Forbidden(w, "CSRF token invalid or missing")
		})),
	}
	if !secure {
		// In dev mode, trust the local SPA dev servers.
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:5173",
			"127.0.0.1:8080",
			"127.0.0.1:5173",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	protect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		// Without TLS the origin checks must not assume https.
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
		})
	}
}
