// cmd/elaspodem/main.go
package main

import (
	"context"
	"log"

	"github.com/dalemusser/elaspodem/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	// app.Run drives the lifecycle hooks and serves until the process is
	// signalled to stop.
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
