package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vodeneev/tipsbot/internal/oddsdemo"
	pkgconfig "github.com/Vodeneev/tipsbot/internal/pkg/config"
	"github.com/Vodeneev/tipsbot/internal/pkg/logging"
	"github.com/Vodeneev/tipsbot/internal/web"
)

func main() {
	port := flag.Int("port", 8081, "Listen port")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if _, _, err := logging.SetupLogger(&pkgconfig.LoggingConfig{Level: *level}, "odds-demo"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := pkgconfig.Config{OddsDemo: pkgconfig.OddsDemoConfig{Port: *port}}
	if err := web.Run(ctx, cfg.OddsDemoAddr(), "odds-demo", oddsdemo.NewRouter(), 5*time.Second); err != nil {
		slog.Error("Odds demo failed", "error", err)
		os.Exit(1)
	}
}
