package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/tipsbot/internal/estimator"
	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/notifier"
	"github.com/Vodeneev/tipsbot/internal/oddsdemo"
	"github.com/Vodeneev/tipsbot/internal/pipeline"
	pkgconfig "github.com/Vodeneev/tipsbot/internal/pkg/config"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/logging"
	"github.com/Vodeneev/tipsbot/internal/pkg/metrics"
	"github.com/Vodeneev/tipsbot/internal/pkg/storage"
	"github.com/Vodeneev/tipsbot/internal/web"

	// Register all fetch sources via init().
	_ "github.com/Vodeneev/tipsbot/internal/fetcher/all"
)

const (
	defaultConfigPath = "configs/example.yaml"
	mirrorTimeout     = 30 * time.Second
)

type config struct {
	configPath string
	runFor     time.Duration
	once       bool
	date       string
	sport      string // overrides sport from config
}

func main() {
	if err := run(); err != nil {
		slog.Error("Tipsbot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.sport != "" {
		appConfig.Sport = cfg.sport
		if err := appConfig.Validate(); err != nil {
			return fmt.Errorf("invalid -sport: %w", err)
		}
	}

	_, logCloser, err := logging.SetupLogger(&appConfig.Logging, "tipsbot")
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	} else {
		defer logCloser.Close()
	}

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	fetcher.ResolveMirrors(ctx, appConfig, fetcher.ChromeMirrorResolver{Timeout: mirrorTimeout})

	src, err := fetcher.New(appConfig)
	if err != nil {
		return err
	}
	slog.Info("Using source", "source", src.GetName(), "available", fetcher.AvailableNames())

	sink, err := notifier.NewSink(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}
	defer sink.Close()

	est, err := estimator.NewUniformEstimator(appConfig.Confidence.Min, appConfig.Confidence.Max)
	if err != nil {
		return err
	}

	journal, err := storage.NewDispatchJournal(&appConfig.Postgres)
	if err != nil {
		slog.Warn("Dispatch journal unavailable, continuing without it", "error", err)
		journal = storage.NopJournal{}
	}
	defer journal.Close()

	recorder := metrics.New()
	p, err := pipeline.New(pipeline.Deps{
		Fetcher:   src,
		Sink:      sink,
		Formatter: notifier.NewFormatter(est, appConfig.Location()),
		Journal:   journal,
		Metrics:   recorder,
		Location:  appConfig.Location(),
	})
	if err != nil {
		return err
	}

	if cfg.once {
		return runOnce(ctx, p, cfg.date, appConfig.Sport)
	}
	return serve(ctx, appConfig, p, journal, recorder)
}

// runOnce performs a single fetch-and-notify and prints the payload.
func runOnce(ctx context.Context, p *pipeline.Pipeline, date, sport string) error {
	q, err := fetcher.NewQuery(date, sport)
	if err != nil {
		return err
	}
	out, err := p.Run(ctx, pipeline.Request{Query: q, Deliver: true})
	fmt.Println(out.Title)
	fmt.Println()
	fmt.Println(out.Text)
	return err
}

func serve(ctx context.Context, appConfig *pkgconfig.Config, p *pipeline.Pipeline, journal storage.DispatchJournal, recorder *metrics.Recorder) error {
	sport, _ := enums.ParseSport(appConfig.Sport)
	handlers := web.NewHandlers(p, journal, sport, appConfig.Web.RequestTimeout, recorder.Handler())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.Run(ctx, appConfig.WebAddr(), "tipsbot", handlers.Routes(), appConfig.Web.ReadHeaderTimeout)
	})
	if appConfig.OddsDemo.Enabled {
		gin.SetMode(gin.ReleaseMode)
		g.Go(func() error {
			return web.Run(ctx, appConfig.OddsDemoAddr(), "odds-demo", oddsdemo.NewRouter(), appConfig.Web.ReadHeaderTimeout)
		})
	}
	return g.Wait()
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.BoolVar(&cfg.once, "once", false, "Fetch and notify once, print the payload and exit")
	flag.StringVar(&cfg.date, "date", "today", "Fixture date for -once (YYYY-MM-DD or today)")
	flag.StringVar(&cfg.sport, "sport", "", "Override sport from config (football, basketball, hockey, tennis)")
	flag.Parse()
	return cfg
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
}
