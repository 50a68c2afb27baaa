package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/vnsentiment/internal/adapter/httpserver"
	"github.com/pscheid92/vnsentiment/internal/adapter/memory"
	"github.com/pscheid92/vnsentiment/internal/adapter/metrics"
	"github.com/pscheid92/vnsentiment/internal/adapter/oracle"
	"github.com/pscheid92/vnsentiment/internal/adapter/postgres"
	"github.com/pscheid92/vnsentiment/internal/adapter/redis"
	"github.com/pscheid92/vnsentiment/internal/app"
	"github.com/pscheid92/vnsentiment/internal/domain"
	"github.com/pscheid92/vnsentiment/internal/platform/config"
	"github.com/pscheid92/vnsentiment/internal/platform/logging"
	"github.com/pscheid92/vnsentiment/internal/platform/version"
	"github.com/pscheid92/vnsentiment/internal/sentiment"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupTables(cfg *config.Config) *sentiment.Tables {
	tables, err := sentiment.LoadTables(cfg.LexiconFile)
	if err != nil {
		slog.Error("Failed to load lexicon", "error", err, "file", cfg.LexiconFile)
		os.Exit(1)
	}

	lexiconSize, abbreviations, cues := tables.Size()
	slog.Info("Lexicon loaded", "entries", lexiconSize, "abbreviations", abbreviations, "negation_cues", cues)
	return tables
}

// setupOracle returns nil when no endpoint is configured or the start-up probe
// fails; the engine then runs rule-based only.
func setupOracle(cfg *config.Config, m *metrics.Set, rdb *goredis.Client) domain.Oracle {
	if !cfg.OracleEnabled() {
		slog.Info("No oracle configured, running rule-based only")
		return nil
	}

	client, err := oracle.NewClient(oracle.Config{
		URL:      cfg.OracleURL,
		APIToken: cfg.OracleAPIToken,
		Timeout:  cfg.OracleTimeout,
	}, m.Oracle)
	if err != nil {
		slog.Error("Failed to create oracle client", "error", err)
		os.Exit(1)
	}

	if err := client.Probe(context.Background(), oracle.ProbePolicy(cfg.OracleProbeAttempts)); err != nil {
		slog.Warn("Oracle unavailable, running rule-based only", "error", err)
		return nil
	}
	slog.Info("Oracle available", "url", cfg.OracleURL)

	if rdb == nil {
		return client
	}
	return redis.NewCachedOracle(rdb, client, cfg.OracleCacheTTL, m.Cache)
}

func setupDB(cfg *config.Config, dbMetrics *metrics.DBMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, dbMetrics)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return db
}

func setupRedis(cfg *config.Config, redisMetrics *metrics.RedisMetrics) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL, redisMetrics)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version)

	reg := metrics.NewRegistry()
	m := metrics.NewSet(reg)

	var healthChecks []httpserver.HealthCheck

	var history domain.HistoryRepository
	if cfg.DatabaseURL != "" {
		pool := setupDB(cfg, m.DB)
		defer pool.Close()

		history = postgres.NewHistoryRepo(pool)
		healthChecks = append(healthChecks, httpserver.HealthCheck{Name: "postgres", Check: pool.Ping})
	} else {
		slog.Info("No database configured, keeping history in memory")
		history = memory.NewHistoryStore(clock)
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient = setupRedis(cfg, m.Redis)
		defer func() { _ = redisClient.Close() }()

		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	tables := setupTables(cfg)
	engine := sentiment.NewEngine(tables, setupOracle(cfg, m, redisClient))
	slog.Info("Classifier ready", "mode", engine.ModelInfo().Mode)

	appSvc := app.NewService(engine, history, clock, app.HistoryLimits{
		Default: cfg.HistoryLimitDefault,
		Max:     cfg.HistoryLimitMax,
	}, m.Classifier)

	srv := httpserver.NewServer(cfg, appSvc, m.HTTP, metrics.Handler(reg), healthChecks)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
