package main

import (
	"context"
	"fmt"
	"os"

	logginginfra "github.com/extrt-io/extrt/internal/infrastructure/logging"
	"github.com/extrt-io/extrt/internal/runtimeconfig"
	"github.com/extrt-io/extrt/internal/telemetry"
	"github.com/extrt-io/extrt/pkg/extrt"
)

func main() {
	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := telemetry.GenerateCorrelationID()
	ctx := telemetry.WithCorrelationID(context.Background(), correlationID)

	extrt.SetLogger(appLogger)
	if err := extrt.Configure(runtimeconfig.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure descriptor roots: %v\n", err)
		os.Exit(1)
	}

	app := &AppContext{Logger: appLogger}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting extrt command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
