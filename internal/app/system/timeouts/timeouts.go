// internal/app/system/timeouts/timeouts.go

// Package timeouts holds the process-wide deadlines for database and
// storage calls. Bootstrap configures them from the timeout_* keys.
package timeouts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults, used until Configure is called.
const (
	DefaultPing   = 2 * time.Second  // health check
	DefaultShort  = 5 * time.Second  // single-document reads and writes
	DefaultMedium = 10 * time.Second // page loads and saves, uploads
	DefaultLong   = 30 * time.Second // background jobs
)

var mu sync.RWMutex

var current = Config{
	Ping:   DefaultPing,
	Short:  DefaultShort,
	Medium: DefaultMedium,
	Long:   DefaultLong,
}

// Config holds timeout configuration values.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Ping
}

// Short returns the timeout for simple operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Short
}

// Medium returns the timeout for page loads, saves and uploads.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Medium
}

// Long returns the timeout for background jobs.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Long
}

// Configure sets custom timeout values. Zero fields keep their current value.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		current.Medium = cfg.Medium
	}
	if cfg.Long > 0 {
		current.Long = cfg.Long
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Parse builds a Config from duration strings such as "5s". Empty strings
// leave the field zero (keep the default).
func Parse(ping, short, medium, long string) (Config, error) {
	var cfg Config
	for _, f := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"timeout_ping", ping, &cfg.Ping},
		{"timeout_short", short, &cfg.Short},
		{"timeout_medium", medium, &cfg.Medium},
		{"timeout_long", long, &cfg.Long},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%s: invalid duration %q", f.key, f.raw)
		}
		*f.dst = d
	}
	return cfg, nil
}

// WithTimeout creates a context with timeout and logs when the deadline is
// what ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
