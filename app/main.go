package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/flash-comb/app/api"
	"github.com/lysyi3m/flash-comb/app/cfg"
	"github.com/lysyi3m/flash-comb/app/classify"
	"github.com/lysyi3m/flash-comb/app/database"
	"github.com/lysyi3m/flash-comb/app/feed"
	"github.com/lysyi3m/flash-comb/app/location"
	"github.com/lysyi3m/flash-comb/app/pipeline"
	"github.com/lysyi3m/flash-comb/app/sources"
	"github.com/lysyi3m/flash-comb/app/tasks"
)

type app struct {
	cfg       *cfg.Cfg
	db        *database.DB
	registry  *sources.Registry
	newsRepo  *database.NewsFlashRepository
	locations *database.LocationRepository
	scraper   *pipeline.Scraper
	updater   *pipeline.Updater
}

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appCfg); err != nil {
		slog.Error("Flash Comb failed", "command", appCfg.Command, "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, appCfg *cfg.Cfg) error {
	a, err := newApp(appCfg)
	if err != nil {
		return err
	}
	defer a.db.Close()

	switch appCfg.Command {
	case cfg.CommandScrape:
		return a.scrape(ctx, appCfg.Source)
	case cfg.CommandUpdate:
		return a.update(ctx, database.UpdateFilter{ID: appCfg.ID, Source: appCfg.Source})
	default:
		return a.serve(ctx)
	}
}

func newApp(appCfg *cfg.Cfg) (*app, error) {
	slog.Info("Starting Flash Comb", "version", appCfg.Version, "command", appCfg.Command)

	registry, err := sources.Load(appCfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	classifiers, err := classify.Load(appCfg.ClassifiersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifiers: %w", err)
	}

	if err := classifiers.Covers(registry.Names()); err != nil {
		return nil, err
	}
	slog.Debug("Sources and classifiers loaded", "sources", registry.Names(), "classifiers", classifiers.Sources())

	if appCfg.MapsAPIKey == "" {
		slog.Warn("Geocoding API key not set, accident locations will not be geocoded")
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return nil, err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	httpClient := &http.Client{}

	newsRepo := database.NewNewsFlashRepository(db)
	locations := database.NewLocationRepository(db)

	extractor := location.NewManualExtractor()
	geocoder, err := location.NewGoogleGeocoder(httpClient, appCfg.GeocodeURL, appCfg.MapsAPIKey, appCfg.RequestTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}
	resolver := location.NewResolver(extractor, geocoder, locations)

	reader := feed.NewReader(registry, feed.NewHTTPFetcher(httpClient, appCfg.UserAgent, appCfg.RequestTimeout))

	return &app{
		cfg:       appCfg,
		db:        db,
		registry:  registry,
		newsRepo:  newsRepo,
		locations: locations,
		scraper:   pipeline.NewScraper(newsRepo, newsRepo, reader, classifiers, resolver),
		updater:   pipeline.NewUpdater(newsRepo, classifiers, extractor, resolver, appCfg.BatchSize),
	}, nil
}

func (a *app) seedLocations(ctx context.Context) error {
	if a.cfg.LocationsFile == "" {
		return nil
	}
	return tasks.NewSeedLocationsTask(a.cfg.LocationsFile, a.locations).Execute(ctx)
}

// scrape runs every enabled source, or only the named one, and stops at the first failure
func (a *app) scrape(ctx context.Context, source string) error {
	if err := a.seedLocations(ctx); err != nil {
		return err
	}

	names := []string{source}
	if source == "" {
		names = names[:0]
		for _, src := range a.registry.Enabled() {
			names = append(names, src.Name)
		}
	}

	for _, name := range names {
		if err := tasks.NewScrapeSourceTask(name, a.scraper).Execute(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) update(ctx context.Context, filter database.UpdateFilter) error {
	if err := a.seedLocations(ctx); err != nil {
		return err
	}
	return tasks.NewUpdateNewsFlashTask(filter, a.updater).Execute(ctx)
}

func (a *app) serve(ctx context.Context) error {
	var startup []tasks.TaskInterface
	if a.cfg.LocationsFile != "" {
		startup = append(startup, tasks.NewSeedLocationsTask(a.cfg.LocationsFile, a.locations))
	}

	scheduler := tasks.NewScheduler(a.scraper, a.registry, a.cfg.SchedulerInterval, startup...)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Scheduler started", "interval", a.cfg.SchedulerInterval, "sources", len(a.registry.Enabled()))

	handler := api.NewHandler(a.newsRepo, a.registry, a.scraper, a.updater, scheduler)
	server := api.NewServer(handler, a.cfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", a.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("Flash Comb shutdown complete")
	return nil
}
