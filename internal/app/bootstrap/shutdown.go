// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown runs once the HTTP server has drained. Housekeeping jobs stop
// before the Mongo pool closes so none of them loses its connection mid-run.
// Every step runs; the first error is returned.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	type step struct {
		name string
		run  func(context.Context) error
	}
	var steps []step
	if taskRunner != nil {
		steps = append(steps, step{"stop task runner", taskRunner.Stop})
	}
	if deps.MongoClient != nil {
		steps = append(steps, step{"disconnect mongo", deps.MongoClient.Disconnect})
	}

	var firstErr error
	for _, s := range steps {
		logger.Info("shutdown: " + s.name)
		if err := s.run(ctx); err != nil {
			logger.Error("shutdown step failed", zap.String("step", s.name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
