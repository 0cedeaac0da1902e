package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"invest-forecast/internal/api"
	"invest-forecast/internal/data"
	"invest-forecast/internal/events"
	"invest-forecast/internal/events/kafka"
	"invest-forecast/internal/forecast"
	"invest-forecast/internal/runner"
	"invest-forecast/internal/storage"
	"invest-forecast/internal/storage/memory"
	"invest-forecast/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	production := os.Getenv("API_ENV") == "production"
	l, err := newLogger(production)
	if err != nil {
		panic(err)
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, l)
	if err != nil {
		l.Fatal("failed to open run store", zap.Error(err))
	}

	var publisher events.Publisher = events.Noop{}
	if brokers := splitList(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		topic := getenv("KAFKA_TOPIC", events.TopicSimulationCompleted)
		publisher = kafka.NewPublisher(brokers, topic)
		l.Info("publishing run events", zap.Strings("brokers", brokers), zap.String("topic", topic))
	}
	defer publisher.Close()

	cache := data.NewSeriesCache(0)
	go cache.Cleanup(ctx, 10*time.Minute, l)
	prices := data.NewYahooClient(os.Getenv("YAHOO_BASE_URL"), cache, l)
	inflation := data.InflationFile{
		Path:    getenv("INFLATION_FILE", "./data/DataInflasi.xlsx"),
		Sheet:   os.Getenv("INFLATION_SHEET"),
		Column:  getenv("INFLATION_COLUMN", data.DefaultInflationColumn),
		Percent: os.Getenv("INFLATION_PERCENT") != "false",
		Cache:   cache,
	}
	forecaster := forecast.NewForecaster(forecast.NewAuto(forecast.DefaultConfig()), l)

	r := runner.New(prices, inflation, forecaster, l,
		runner.WithStore(store),
		runner.WithPublisher(publisher))

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Runner:      r,
		ProfileDir:  getenv("PROFILE_DIR", "./examples/profiles"),
		StaticDir:   getenv("STATIC_DIR", "./web/dist"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		Logger:      l,
	})

	srv := &http.Server{
		Addr:              ":" + getenv("API_PORT", "8080"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("shutdown failed", zap.Error(err))
		}
	}()

	l.Info("starting API server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStore uses Postgres when DATABASE_URL is set and an in-memory store otherwise.
func openStore(ctx context.Context, l *zap.Logger) (storage.RunStore, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		s := postgres.NewStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		l.Info("storing runs in postgres")
		return s, nil
	}

	ttl := memory.DefaultTTL
	if v := os.Getenv("RUN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		ttl = d
	}
	s := memory.NewStore(ttl)
	go s.Cleanup(ctx, time.Minute)
	l.Info("storing runs in memory", zap.Duration("ttl", ttl))
	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
