package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/quinielabs/quiniela-assistant/external/apifootball"
	"github.com/quinielabs/quiniela-assistant/internal/config"
	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/modelperf"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	cacherepo "github.com/quinielabs/quiniela-assistant/internal/infrastructure/repository/cache"
	"github.com/quinielabs/quiniela-assistant/internal/infrastructure/repository/memory"
	"github.com/quinielabs/quiniela-assistant/internal/infrastructure/repository/postgres"
	"github.com/quinielabs/quiniela-assistant/internal/interfaces/httpapi"
	basecache "github.com/quinielabs/quiniela-assistant/internal/platform/cache"
	idgen "github.com/quinielabs/quiniela-assistant/internal/platform/id"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
	"github.com/quinielabs/quiniela-assistant/internal/platform/resilience"
	"github.com/quinielabs/quiniela-assistant/internal/predict"
	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

// MemoryDBURL selects the seeded in-memory repositories instead of Postgres,
// for local development without a database.
const MemoryDBURL = "memory"

type repositories struct {
	teams       team.Repository
	matches     match.Repository
	teamStats   teamstats.Repository
	advStats    advancedstats.Repository
	predictions prediction.Repository
	modelPerf   modelperf.Repository
	slips       quiniela.SlipRepository
	configs     quiniela.ConfigRepository
}

// NewHTTPServer wires repositories, services and the router into a ready
// http.Server. The returned cleanup closes the database pool when one was
// opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ensemble := predict.NewEnsemblePredictor(nil)
	modelStore := predict.NewModelStore(cfg.ModelDir)
	if model, loadErr := modelStore.LoadLatest(); loadErr != nil {
		logger.Warn("load stored ensemble model failed", "model_dir", cfg.ModelDir, "error", loadErr)
	} else if model != nil {
		ensemble.Swap(model)
		logger.Info("loaded ensemble model", "version", model.Version)
	}

	predictor := predict.NewTieredPredictor(
		predict.NewEnhancedPredictor(ensemble),
		ensemble,
		predict.NewBasicPredictor(),
	)

	ids := idgen.NewRandomGenerator()

	teamSvc := usecase.NewTeamService(repos.teams, repos.teamStats)
	matchSvc := usecase.NewMatchService(repos.matches)
	statisticsSvc := usecase.NewStatisticsService(repos.matches, repos.teamStats, logger)
	predictionSvc := usecase.NewPredictionService(repos.matches, repos.teams, repos.teamStats, repos.advStats, repos.predictions, predictor, ids, logger)
	trainingSvc := usecase.NewTrainingService(repos.matches, predictionSvc, repos.modelPerf, modelStore, ensemble, ids, logger)
	quinielaSvc := usecase.NewQuinielaService(repos.slips, repos.configs, repos.matches, predictionSvc, ids, logger)
	syncSvc := usecase.NewSyncService(
		buildProvider(cfg, logger),
		repos.teams,
		repos.matches,
		repos.teamStats,
		repos.advStats,
		statisticsSvc,
		ids,
		usecase.SyncConfig{
			Enabled:   cfg.APIFootballEnabled,
			LeagueIDs: cfg.LeagueIDs,
			Season:    cfg.Season,
			Workers:   cfg.SyncWorkers,
		},
		logger,
	)

	handler := httpapi.NewHandler(teamSvc, matchSvc, statisticsSvc, predictionSvc, trainingSvc, quinielaSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanupErr := cleanup(context.Background())
		if cleanupErr != nil {
			logger.Warn("cleanup after wiring failure", "error", cleanupErr)
		}
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if cfg.DBURL == MemoryDBURL {
		logger.Info("using in-memory repositories", "season", memory.SeedSeason)
		return repositories{
			teams:       memory.NewTeamRepository(memory.SeedTeams()),
			matches:     memory.NewMatchRepository(memory.SeedMatches()),
			teamStats:   memory.NewTeamStatsRepository(memory.SeedTeamStats()),
			advStats:    memory.NewAdvancedStatsRepository(nil),
			predictions: memory.NewPredictionRepository(),
			modelPerf:   memory.NewModelPerfRepository(),
			slips:       memory.NewQuinielaSlipRepository(),
			configs:     memory.NewQuinielaConfigRepository(),
		}, noop, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	repos := repositories{
		teams:       postgres.NewTeamRepository(db),
		matches:     postgres.NewMatchRepository(db),
		teamStats:   postgres.NewTeamStatsRepository(db),
		advStats:    postgres.NewAdvancedStatsRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		modelPerf:   postgres.NewModelPerfRepository(db),
		slips:       postgres.NewQuinielaSlipRepository(db),
		configs:     postgres.NewQuinielaConfigRepository(db),
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
		repos.teamStats = cacherepo.NewTeamStatsRepository(repos.teamStats, store)
	}

	logger.Info("connected to postgres", "db", dbNameFromURL(cfg.DBURL), "cache_enabled", cfg.CacheEnabled)

	return repos, func(context.Context) error { return db.Close() }, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}

func buildProvider(cfg config.Config, logger *logging.Logger) usecase.SportDataProvider {
	if !cfg.APIFootballEnabled {
		return nil
	}

	return apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballAPIKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})
}
