// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "ELASPODEM"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ELASPODEM_MONGO_URI, ELASPODEM_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "elaspodem", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "elaspodem-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	// Rate limiting configuration
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable rate limiting for sign-in attempts"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed sign-ins before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Content settings
	{Name: "cache_enabled", Default: false, Desc: "Cache page and user data"},
	{Name: "cache_ttl", Default: "5m", Desc: "Lifetime of cached values"},
	{Name: "max_upload_mb", Default: 5, Desc: "Largest accepted image upload in MB"},
	{Name: "temp_upload_ttl", Default: "24h", Desc: "Age after which uncommitted editor uploads are deleted"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public origin of the site (Google OAuth callback)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_content", Default: "all", Desc: "Content event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_retention", Default: "0", Desc: "Delete audit events older than this (e.g., 2160h); 0 keeps them"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID (empty disables Google sign-in)"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin user to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the seeded admin user"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Display name of the seeded admin user"},
	{Name: "seed_admin_role", Default: models.RoleSuperAdmin, Desc: "Role of the seeded admin user"},

	// Database operation timeouts
	{Name: "timeout_ping", Default: "", Desc: "Health check timeout (default 2s)"},
	{Name: "timeout_short", Default: "", Desc: "Single-document operation timeout (default 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Multi-document operation timeout (default 10s)"},
	{Name: "timeout_long", Default: "", Desc: "Bulk operation timeout (default 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ELASPODEM_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		// Rate limiting
		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		CSRFKey: appValues.String("csrf_key"),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Content
		CacheEnabled:  appValues.Bool("cache_enabled"),
		CacheTTL:      appValues.Duration("cache_ttl", 5*time.Minute),
		MaxUploadMB:   appValues.Int("max_upload_mb"),
		TempUploadTTL: appValues.Duration("temp_upload_ttl", 24*time.Hour),

		BaseURL: appValues.String("base_url"),

		// Audit logging
		AuditLogAuth:      appValues.String("audit_log_auth"),
		AuditLogContent:   appValues.String("audit_log_content"),
		AuditLogAdmin:     appValues.String("audit_log_admin"),
		AuditLogRetention: appValues.Duration("audit_log_retention", 0),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		// Admin seeding
		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedAdminName:     appValues.String("seed_admin_name"),
		SeedAdminRole:     appValues.String("seed_admin_role"),

		// Timeouts
		TimeoutPing:   appValues.String("timeout_ping"),
		TimeoutShort:  appValues.String("timeout_short"),
		TimeoutMedium: appValues.String("timeout_medium"),
		TimeoutLong:   appValues.String("timeout_long"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. It also applies
// the timeout settings, which are process-wide.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	// The forms and the field registry must describe the same documents.
	if err := fieldmode.CheckRegistry(); err != nil {
		logger.Error("field registry does not match the page models", zap.Error(err))
		return err
	}

	tc, err := timeouts.Parse(appCfg.TimeoutPing, appCfg.TimeoutShort, appCfg.TimeoutMedium, appCfg.TimeoutLong)
	if err != nil {
		return err
	}
	timeouts.Configure(tc)
	cur := timeouts.Current()
	logger.Info("database timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long),
	)
	return nil
}

// validateAppConfig checks the settings that need no I/O.
func validateAppConfig(appCfg AppConfig) error {
	var errs []error
	if appCfg.SeedAdminRole != "" && !models.IsValidRole(appCfg.SeedAdminRole) {
		errs = append(errs, fmt.Errorf("seed_admin_role: unknown role %q", appCfg.SeedAdminRole))
	}
	for key, mode := range map[string]string{
		"audit_log_auth":    appCfg.AuditLogAuth,
		"audit_log_content": appCfg.AuditLogContent,
		"audit_log_admin":   appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidMode(mode) {
			errs = append(errs, fmt.Errorf("%s: invalid mode %q", key, mode))
		}
	}
	switch appCfg.StorageType {
	case "local", "", "s3":
	default:
		errs = append(errs, fmt.Errorf("storage_type: unknown type %q", appCfg.StorageType))
	}
	if appCfg.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb: must be positive, got %d", appCfg.MaxUploadMB))
	}
	if appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret == "" {
		errs = append(errs, errors.New("google_client_secret: required when google_client_id is set"))
	}
	return errors.Join(errs...)
}
