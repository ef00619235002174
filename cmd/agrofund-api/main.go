package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrofund/internal/config"
	"agrofund/internal/events"
	httpapi "agrofund/internal/http"
	"agrofund/internal/jobs"
	"agrofund/internal/notify"
	"agrofund/internal/repository"
	"agrofund/internal/service"
	"agrofund/internal/store"
	"agrofund/pkg/database"
	"agrofund/pkg/logger"
	"agrofund/pkg/mqtt"
	"agrofund/pkg/redis"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "agrofund-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redis.Ping(context.Background(), redisClient, 3*time.Second); err != nil {
		log.Warn("Redis unavailable, dashboards will be computed uncached", zap.Error(err))
	}
	kv := store.NewRedisKV(redisClient)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.MQTT.Enabled {
		mq, err := mqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Warn("MQTT unavailable, status events disabled", zap.Error(err))
		} else {
			defer mq.Disconnect()
			publisher = events.NewMQTTPublisher(mq, cfg.MQTT.QoS, log)
		}
	}

	var notifier notify.Sender = notify.Nop{}
	if cfg.Notify.FunctionURL != "" {
		notifier = notify.NewClient(cfg.Notify.FunctionURL, cfg.Notify.FunctionKey, log)
	} else {
		log.Warn("NOTIFY_FUNCTION_URL not set, notifications disabled")
	}

	profiles := repository.NewPostgresProfilesRepository(db)
	farmers := repository.NewPostgresFarmersRepository(db)
	farms := repository.NewPostgresFarmsRepository(db)
	media := repository.NewPostgresMediaRepository(db)
	packages := repository.NewPostgresPackagesRepository(db)
	assets := repository.NewPostgresAssetsRepository(db)
	investments := repository.NewPostgresInvestmentsRepository(db)
	payments := repository.NewPostgresPaymentsRepository(db)
	withdrawals := repository.NewPostgresWithdrawalsRepository(db)
	visits := repository.NewPostgresVisitsRepository(db)
	stats := repository.NewPostgresDashboardRepository(db)

	dashboard := service.NewDashboardService(service.DashboardDeps{
		Stats:    stats,
		Payments: payments,
		Farmers:  farmers,
		Farms:    farms,
		Assets:   assets,
		KV:       kv,
		TTL:      cfg.Dashboard.CacheTTL,
	}, log)
	farmerSvc := service.NewFarmerService(farmers, profiles, publisher, dashboard, cfg.CertificationValidity, log)

	svc := httpapi.Services{
		Profiles:    service.NewProfileService(profiles, publisher, dashboard, log),
		Farmers:     farmerSvc,
		Farms:       service.NewFarmService(farms, farmers, assets, media, log),
		Catalog:     service.NewCatalogService(packages, assets, farms, publisher, log),
		Investments: service.NewInvestmentService(investments, packages, publisher, dashboard, log),
		Payments: service.NewPaymentService(service.PaymentDeps{
			Payments:    payments,
			Investments: investments,
			Packages:    packages,
			Profiles:    profiles,
			Notifier:    notifier,
			Publisher:   publisher,
			Cache:       dashboard,
		}, log),
		Withdrawals: service.NewWithdrawalService(withdrawals, profiles, publisher, dashboard, cfg.MinWithdrawalAmount, log),
		Visits: service.NewVisitService(service.VisitDeps{
			Visits:    visits,
			Farms:     farms,
			Profiles:  profiles,
			Notifier:  notifier,
			Publisher: publisher,
			Cache:     dashboard,
		}, log),
		Dashboard: dashboard,
		Export:    service.NewExportService(payments, withdrawals, farmers),
	}

	scheduler, err := jobs.NewScheduler(jobs.Config{
		DashboardRefreshSpec: cfg.Dashboard.RefreshCron,
		CertExpirySpec:       cfg.Jobs.CertExpiryCron,
		CertExpiryWindow:     cfg.Jobs.CertExpiryWindow,
	}, dashboard, farmerSvc, publisher, log)
	if err != nil {
		log.Fatal("Failed to configure scheduler", zap.Error(err))
	}
	scheduler.Start()

	auth := httpapi.NewAuthenticator(cfg.Auth.JWTSecret, profiles, log)
	router := httpapi.NewRouter(httpapi.NewHandler(svc, log), auth)
	srv := service.NewServer("agrofund-api", cfg.HTTP.Addr, router, log)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("HTTP server did not stop cleanly", zap.Error(err))
	}
}
