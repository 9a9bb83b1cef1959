package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hatchie-47/LoLPanion/external/riot"
	"github.com/Hatchie-47/LoLPanion/internal/config"
	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	cacherepo "github.com/Hatchie-47/LoLPanion/internal/infrastructure/repository/cache"
	"github.com/Hatchie-47/LoLPanion/internal/infrastructure/repository/memory"
	"github.com/Hatchie-47/LoLPanion/internal/infrastructure/repository/postgres"
	"github.com/Hatchie-47/LoLPanion/internal/interfaces/httpapi"
	"github.com/Hatchie-47/LoLPanion/internal/platform/cache"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
	"github.com/Hatchie-47/LoLPanion/internal/platform/resilience"
	"github.com/Hatchie-47/LoLPanion/internal/usecase"
)

// App bundles the wired service graph. Close releases everything New opened.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	DB         *sqlx.DB
	Notifier   *usecase.Notifier
	Tracker    *usecase.TrackerService
	HTTPServer *http.Server

	serviceLogger *logging.Logger
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	serviceLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(serviceLogger)

	var (
		db           *sqlx.DB
		matchRepo    match.Repository
		summonerRepo summoner.Repository
		tagRepo      tag.Repository
	)
	if cfg.DBURL != "" {
		dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		opened, err := otelsqlx.Connect("postgres", dsn,
			otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
			otelsql.WithDBName(dbNameFromURL(dsn)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = opened
		matchRepo = postgres.NewMatchRepository(db)
		summonerRepo = postgres.NewSummonerRepository(db)
		tagRepo = postgres.NewTagRepository(db)
		logger.Info("storage ready", "backend", "postgres", "db", dbNameFromURL(dsn))
	} else {
		matchRepo = memory.NewMatchRepository()
		summonerRepo = memory.NewSummonerRepository()
		tagRepo = memory.NewTagRepository()
		logger.Info("storage ready", "backend", "memory")
	}

	var profiles *cache.Store
	if cfg.CacheEnabled {
		profiles = cache.NewStore(cfg.CacheTTL)
		tagRepo = cacherepo.NewTagRepository(tagRepo, profiles)
	}

	provider := riot.NewClient(riot.ClientConfig{
		Platform:   cfg.RiotPlatform,
		Region:     cfg.RiotRegion,
		APIKey:     cfg.RiotAPIKey,
		Timeout:    cfg.RiotTimeout,
		MaxRetries: cfg.RiotMaxRetries,
		Logger:     serviceLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RiotCircuitEnabled,
			FailureThreshold: cfg.RiotCircuitFailureCount,
			OpenTimeout:      cfg.RiotCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RiotCircuitHalfOpenMaxReq,
		},
	})

	notifier := usecase.NewNotifier()
	enricher := usecase.NewEnrichmentService(
		provider,
		tagRepo,
		summonerRepo,
		matchRepo,
		profiles,
		cfg.HistorySize,
		serviceLogger,
	)
	tracker := usecase.NewTrackerService(
		provider,
		enricher,
		notifier,
		usecase.TrackerConfig{
			HomeSummonerID: cfg.HomeSummonerID,
			RankedQueueIDs: cfg.RankedQueueIDs,
			LiveInterval:   cfg.PollLiveInterval,
			IdleInterval:   cfg.PollIdleInterval,
		},
		serviceLogger,
	)
	tagService := usecase.NewTagService(tagRepo, tracker, serviceLogger)

	handler := httpapi.NewHandler(tracker, tagService, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Notifier:      notifier,
		Tracker:       tracker,
		HTTPServer:    server,
		serviceLogger: serviceLogger,
	}, nil
}

func (a *App) Close() error {
	var firstErr error
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}
	if a.serviceLogger != nil {
		_ = a.serviceLogger.Sync()
	}

	return firstErr
}
