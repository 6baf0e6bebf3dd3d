// Command server runs the impact-hub HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/heartmarshall/impact-hub-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
