package core

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/assets"
	"github.com/vrsandeep/showtime-go/internal/cache"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/db"
	"github.com/vrsandeep/showtime-go/internal/enrich"
	"github.com/vrsandeep/showtime-go/internal/jobs"
	"github.com/vrsandeep/showtime-go/internal/justwatch"
	"github.com/vrsandeep/showtime-go/internal/metadata"
	"github.com/vrsandeep/showtime-go/internal/progress"
	"github.com/vrsandeep/showtime-go/internal/schedule"
	"github.com/vrsandeep/showtime-go/internal/store"
	"github.com/vrsandeep/showtime-go/internal/summary"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config     *config.Config
	db         *sql.DB
	store      *store.Store
	cache      cache.Cache
	metadata   metadata.Provider
	offers     justwatch.OfferFinder
	summaries  summary.Summarizer
	schedule   *schedule.Engine
	tracker    *progress.Tracker
	enricher   *enrich.Enricher
	jobManager *jobs.JobManager
	Version    string
}

// Deps overrides the upstream integrations. Nil fields are built from config.
type Deps struct {
	Cache     cache.Cache
	Metadata  metadata.Provider
	Offers    justwatch.OfferFinder
	Summaries summary.Summarizer
}

// NewApp wires every component around an open, migrated database.
func NewApp(cfg *config.Config, database *sql.DB, version string, deps Deps) *App {
	if deps.Cache == nil {
		deps.Cache = cache.New(cfg.Cache.TTL, cfg.Cache.MaxItems)
	}
	if deps.Metadata == nil {
		deps.Metadata = metadata.NewService(metadata.NewClient(cfg.TMDB, nil), deps.Cache)
	}
	if deps.Offers == nil {
		deps.Offers = justwatch.NewService(justwatch.NewClient(cfg.JustWatch, nil), deps.Cache)
	}
	if deps.Summaries == nil {
		deps.Summaries = summary.NewService(cfg.LLM, deps.Cache)
	}

	st := store.New(database)
	app := &App{
		config:    cfg,
		db:        database,
		store:     st,
		cache:     deps.Cache,
		metadata:  deps.Metadata,
		offers:    deps.Offers,
		summaries: deps.Summaries,
		schedule:  schedule.NewEngine(st),
		tracker:   progress.NewTracker(st),
		Version:   version,
	}
	app.enricher = enrich.New(st, deps.Metadata, deps.Offers, deps.Summaries, enrich.Options{
		Concurrency:     cfg.Enrichment.Concurrency,
		FallbackRuntime: cfg.Schedule.DefaultRuntimeMinutes,
		DayStart:        cfg.Schedule.DayStart,
	})
	app.jobManager = jobs.NewManager(app)
	jobs.RegisterAll(app.jobManager)
	return app
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running migrations.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// We can't proceed without a valid database schema.
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Info().Str("database", cfg.Database.Path).Msg("Core application setup complete")
	return NewApp(cfg, database, version, Deps{}), nil
}

func (a *App) Config() *config.Config { return a.config }
func (a *App) DB() *sql.DB { return a.db }
func (a *App) Store() *store.Store { return a.store }
func (a *App) Cache() cache.Cache { return a.cache }
func (a *App) Metadata() metadata.Provider { return a.metadata }
func (a *App) Offers() justwatch.OfferFinder { return a.offers }
func (a *App) Summaries() summary.Summarizer { return a.summaries }
func (a *App) Schedule() *schedule.Engine { return a.schedule }
func (a *App) Tracker() *progress.Tracker { return a.tracker }
func (a *App) Enricher() *enrich.Enricher { return a.enricher }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
