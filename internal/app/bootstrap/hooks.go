// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks is the site's WAFFLE lifecycle, run in field order by app.Run.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "elaspodem",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema, // collections, validators, indexes, first admin
	Startup:        Startup,      // housekeeping jobs
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
