package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/zsiec/smpte/internal/api"
	"github.com/zsiec/smpte/internal/config"
	"github.com/zsiec/smpte/internal/generator"
	"github.com/zsiec/smpte/internal/health"
	"github.com/zsiec/smpte/internal/logger"
	"github.com/zsiec/smpte/internal/server"
	"github.com/zsiec/smpte/pkg/timecode"
	"github.com/zsiec/smpte/pkg/version"
)

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file (defaults and TIMECODE_* env when empty)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetInfo().String())
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithField("version", version.GetInfo().Short()).Info("Starting timecode service")
	log.WithField("config_path", configPath).Debug("Configuration loaded")

	// Refuse to start on an engine that disagrees with its reference vectors.
	if err := timecode.SelfTest(); err != nil {
		log.WithError(err).Fatal("Timecode engine self test failed")
	}

	srv := server.New(&cfg.Server, log)
	srv.RegisterHealthChecker(health.EngineChecker{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, redisClient, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open generator store")
	}
	if redisClient != nil {
		srv.RegisterHealthChecker(health.NewRedisChecker(redisClient))
	}
	srv.RegisterHealthChecker(health.NewStoreChecker(store))

	srv.RegisterRoutes(api.New(store, cfg.Timecode, cfg.Generators, log).Register)

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics, logger.FromLogrus(log))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		log.WithError(err).Error("Server error")
	}

	if err := store.Close(); err != nil {
		log.WithError(err).Error("Failed to close generator store")
	}

	log.Info("Server shutdown complete")
}

// openStore builds the configured generator backend. The Redis client is
// returned separately so it can be health checked.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (generator.Store, *redis.Client, error) {
	if cfg.Generators.Backend == "memory" {
		log.Info("Using in-memory generator store")
		return generator.Instrument(generator.NewMemoryStore(cfg.Generators.MaxGenerators), "memory"), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addresses[0],
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.WithField("address", cfg.Redis.Addresses[0]).Info("Connected to Redis successfully")

	store := generator.NewRedisStore(client, log, generator.RedisStoreOptions{
		KeyPrefix:     cfg.Generators.KeyPrefix,
		TTL:           cfg.Generators.TTL,
		MaxGenerators: cfg.Generators.MaxGenerators,
	})
	return generator.Instrument(store, "redis"), client, nil
}

// startMetricsServer starts the Prometheus metrics server
func startMetricsServer(cfg config.MetricsConfig, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithField("addr", addr).Info("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("Metrics server error")
	}
}
