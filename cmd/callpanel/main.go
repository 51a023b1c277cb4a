package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/harunnryd/callpanel/pkg/logging"
	"github.com/harunnryd/callpanel/pkg/panel"
	"github.com/harunnryd/callpanel/pkg/redact"
	"github.com/harunnryd/callpanel/pkg/runner"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the panel config")
	envFile := flag.String("env", ".env", "optional dotenv file loaded before the config")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "env error:", err)
		os.Exit(1)
	}
	cfg, err := panel.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	redact.SetEnabled(cfg.Privacy.RedactPII)
	logger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat, "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pa, err := build(ctx, cfg, panel.DefaultRegistry(), logger)
	if err != nil {
		logger.Error("startup_failed", "error", err)
		os.Exit(1)
	}
	r := runner.NewLifecycleRunner(pa.drainers(), runner.Hooks{
		OnStart: pa.server.Start,
		OnStop:  func() { slog.Info("callpanel_stopped") },
	}, shutdownTimeout(cfg))
	r.Title = "CALLPANEL"
	if err := r.Run(ctx); err != nil {
		logger.Error("callpanel_exit", "error", err)
		os.Exit(1)
	}
}
