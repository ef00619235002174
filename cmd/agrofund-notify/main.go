package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrofund/internal/metrics"
	"agrofund/internal/notifyfn"
	"agrofund/internal/service"
	"agrofund/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := notifyfn.LoadConfig()

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "agrofund-notify")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.ProviderAPIKey == "" {
		log.Fatal("EMAIL_API_KEY is required")
	}
	if cfg.SharedKey == "" {
		log.Warn("NOTIFY_SHARED_KEY not set, requests are not authenticated")
	}

	provider := notifyfn.NewHTTPProvider(cfg.ProviderURL, cfg.ProviderAPIKey, cfg.ProviderTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/", notifyfn.NewHandler(cfg, provider, log))

	srv := service.NewServer("agrofund-notify", cfg.Addr, r, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Warn("HTTP server did not stop cleanly", zap.Error(err))
	}
}
