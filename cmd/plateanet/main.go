package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"plateanet-crawler/cmd/plateanet/commands"
	"plateanet-crawler/internal/components/serviceutil"
	"plateanet-crawler/internal/components/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	otelSetup, err := telemetry.SetupFromEnv(ctx, "plateanet-crawler")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup telemetry", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	otelSetup.Shutdown(shutdownCtx)

	if err != nil {
		os.Exit(1)
	}
}
