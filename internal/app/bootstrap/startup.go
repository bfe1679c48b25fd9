// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/elaspodem/internal/app/store/tempuploads"
	"github.com/dalemusser/elaspodem/internal/app/system/media"
	"github.com/dalemusser/elaspodem/internal/app/system/pageeditor"
	"github.com/dalemusser/elaspodem/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served. It starts
// the background jobs.
//
// Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Indexes and the admin seed are handled in EnsureSchema.
	taskRunner = newTaskRunner(appCfg, deps, logger)
	taskRunner.Start()
	logger.Info("background tasks started", zap.Strings("jobs", taskRunner.Names()))
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// newTaskRunner registers the housekeeping jobs.
func newTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *tasks.Runner {
	db := deps.MongoDatabase
	r := tasks.New(logger)

	uploads := pageeditor.NewUploads(
		tempuploads.New(db),
		media.New(deps.FileStorage, appCfg.MaxUploadBytes(), logger),
		logger,
	)
	r.Register(uploads.SweepJob(appCfg.TempUploadTTL))
	r.Register(tasks.OAuthStateCleanupJob(db, logger))
	r.Register(tasks.CacheEntryCleanupJob(db, logger))
	if appCfg.AuditLogRetention > 0 {
		r.Register(tasks.AuditRetentionJob(db, logger, appCfg.AuditLogRetention))
	}
	return r
}
