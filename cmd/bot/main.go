package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"chewsy/internal/bot"
	"chewsy/internal/catalog"
	"chewsy/internal/config"
	"chewsy/internal/history"
	"chewsy/internal/metrics"
	"chewsy/internal/schedule"
	"chewsy/internal/suggest"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CHEWSY_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Fatal().Msg("set telegram.bot_token in config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	}

	// The catalog is loaded once; a parse failure anywhere is fatal. An
	// empty catalog is fine and just terminates every cycle immediately.
	restaurants, err := loadCatalog(ctx, cfg, rdb)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}
	logger.Info().Int("restaurants", len(restaurants)).Msg("catalog loaded")

	journal, err := history.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer journal.Close()

	backup := history.NewBackupService(journal, cfg.Database.Backup, &logger)
	go backup.Run(ctx)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	buffer := cfg.TravelBuffer()
	sessions := suggest.NewSessionStore(cfg.SessionTimeout(), func() *suggest.Cycle {
		return suggest.NewCycle(restaurants, suggest.SystemClock, rng, buffer)
	})
	go sessionCleanupLoop(ctx, sessions, &logger)

	b, err := bot.New(cfg.Telegram.BotToken, sessions, journal, cfg.Managers, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create bot error")
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, journal, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Msg("chewsy bot started")
	b.Start(ctx)
}

func loadCatalog(ctx context.Context, cfg *config.Config, rdb *redis.Client) ([]schedule.Restaurant, error) {
	var src catalog.Source
	if cfg.Catalog.URL != "" {
		httpSrc := catalog.NewHTTPSource(cfg.Catalog.URL)
		if rdb != nil && cfg.CatalogCacheTTL() > 0 {
			httpSrc.UseRedisCache(rdb, cfg.CatalogCacheTTL())
		}
		src = httpSrc
	} else {
		src = catalog.FileSource{Path: cfg.Catalog.Path}
	}
	return src.Load(ctx)
}

func sessionCleanupLoop(ctx context.Context, sessions *suggest.SessionStore, logger *zerolog.Logger) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Cleanup(); removed > 0 {
				logger.Info().Int("removed", removed).Msg("cleaned up idle sessions")
			}
		}
	}
}

func startHealthServer(ctx context.Context, port int, journal *history.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := journal.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
