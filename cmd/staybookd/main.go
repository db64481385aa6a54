package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"staybook/internal/api"
	"staybook/internal/availability"
	"staybook/internal/bookingapi"
	"staybook/internal/config"
	"staybook/internal/events"
	"staybook/internal/export"
	"staybook/internal/metrics"
	"staybook/internal/models"
	"staybook/internal/session"
	"staybook/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("STAYBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.BookingStore.BaseURL == "" {
		logger.Fatal().Msg("set booking_store.base_url in config")
	}

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	client := bookingapi.NewClient(cfg.BookingStore.BaseURL, cfg.BookingStore.APIKey)
	if cfg.BookingStore.RatePerSecond > 0 {
		client.SetRateLimit(cfg.BookingStore.RatePerSecond, cfg.BookingStore.RateBurst)
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.BookingStore.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	bus := events.NewBus()
	subscribeSubmissionLog(bus, db, &logger)

	sessions := session.NewManager(cfg.SessionTimeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions, cfg.CleanupInterval(), &logger)

	bounds := func() availability.Bounds {
		now := models.DateOnly(time.Now())
		return availability.Bounds{Min: now, Max: now.Add(cfg.BookingHorizon())}
	}

	server := api.NewServer(client, sessions, db, bus, bounds, &logger)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, client, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		backup := store.NewBackupService(cfg.Database.Path, cfg.Backup.StoragePath,
			cfg.BackupInterval(), cfg.Backup.RetentionDays, &logger)
		go backup.Start(ctx)
	}

	if cfg.Export.Enabled {
		retention := time.Duration(cfg.Export.RetentionDays) * 24 * time.Hour
		svc := export.NewService(db, fileSink(cfg.Export.Path), retention, &logger)
		svc.Start()
		defer svc.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Routes(),
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("staybook started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

// subscribeSubmissionLog persists every submission outcome for reporting.
func subscribeSubmissionLog(bus *events.Bus, db *store.DB, logger *zerolog.Logger) {
	record := func(outcome string) events.Handler {
		return func(e events.Event) {
			sub := &store.Submission{
				SessionID:  e.SessionID,
				PropertyID: e.PropertyID,
				CheckIn:    e.CheckIn,
				CheckOut:   e.CheckOut,
				Guests:     e.Guests,
				Outcome:    outcome,
				Detail:     e.Detail,
			}
			if outcome == "accepted" {
				sub.BookingID = e.Detail
				sub.Detail = ""
			}
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := db.LogSubmission(ctx, sub); err != nil {
				logger.Error().Err(err).Msg("log submission failed")
			}
		}
	}
	bus.Subscribe(events.TypeBookingSubmitted, record("accepted"))
	bus.Subscribe(events.TypeBookingRejected, record("rejected"))
}

func sweepSessions(ctx context.Context, sessions *session.Manager, interval time.Duration, logger *zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Cleanup(); removed > 0 {
				logger.Debug().Int("removed", removed).Msg("idle sessions swept")
			}
		}
	}
}

func fileSink(dir string) func(string, func(io.Writer) error) error {
	return func(filename string, write func(io.Writer) error) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dir, filename))
		if err != nil {
			return err
		}
		defer f.Close()
		return write(f)
	}
}

func startHealthServer(ctx context.Context, port int, db *store.DB, rdb *redis.Client, client *bookingapi.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if err := client.HealthCheck(ctxPing); err != nil {
			http.Error(w, "booking store not ready", http.StatusServiceUnavailable)
			return
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
