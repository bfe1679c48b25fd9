// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for the content service.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings: ports, TLS, log level, CORS, body limits and
// database timeouts. Everything below is specific to this app.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: elaspodem-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// Rate limiting configuration
	RateLimitEnabled       bool          // Lock out emails after repeated failed sign-ins (default: true)
	RateLimitLoginAttempts int           // Max failed sign-ins before lockout (default: 5)
	RateLimitLoginWindow   time.Duration // Time window for counting failed attempts (default: 15m)
	RateLimitLoginLockout  time.Duration // Lockout duration after exceeding limit (default: 15m)

	// CSRF protection for the admin API
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string // Key prefix (e.g., "uploads/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Content settings
	CacheEnabled  bool          // Global switch for the page/user cache (default: false)
	CacheTTL      time.Duration // Lifetime of cached values (default: 5m)
	MaxUploadMB   int           // Largest accepted image upload in MB (default: 5)
	TempUploadTTL time.Duration // Age after which uncommitted editor uploads are swept (default: 24h)

	// Public origin, used for the Google OAuth callback
	BaseURL string

	// Audit logging configuration
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogAuth      string        // sign-in and sign-out
	AuditLogContent   string        // page saves and image uploads
	AuditLogAdmin     string        // user management
	AuditLogRetention time.Duration // Delete audit events older than this; 0 keeps them forever

	// Google OAuth configuration; Google sign-in is enabled when the client ID is set
	GoogleClientID     string
	GoogleClientSecret string

	// Admin seeding configuration
	SeedAdminEmail    string // Email of the account to create on startup (if set)
	SeedAdminPassword string
	SeedAdminName     string
	SeedAdminRole     string // default: superAdmin

	// Timeouts for database operations (Go duration strings)
	TimeoutPing   string
	TimeoutShort  string
	TimeoutMedium string
	TimeoutLong   string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c AppConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
