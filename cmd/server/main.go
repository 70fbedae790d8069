package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/clients/api/handler"
	"github.com/fastygo/clients/internal/config"
	"github.com/fastygo/clients/internal/infrastructure/journal"
	"github.com/fastygo/clients/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/clients/internal/infrastructure/redis"
	"github.com/fastygo/clients/internal/middleware"
	"github.com/fastygo/clients/internal/router"
	"github.com/fastygo/clients/internal/services"
	"github.com/fastygo/clients/internal/services/lifecycle"
	"github.com/fastygo/clients/pkg/httpcontext"
	"github.com/fastygo/clients/pkg/logger"
	redisRepo "github.com/fastygo/clients/repository/redis"
	clientUC "github.com/fastygo/clients/usecase/client"
	linkedUC "github.com/fastygo/clients/usecase/linked"
	personUC "github.com/fastygo/clients/usecase/person"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.SignalContext(context.Background())
	defer stop()

	stores, storePinger, err := openStores(appCtx, cfg, zapLogger, manager)
	if err != nil {
		zapLogger.Fatal("store initialization failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	var cachePinger monitor.Pinger
	if cfg.Cache.Enabled {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
		stores.Persons = redisRepo.NewPersonCache(stores.Persons, redisClient, cfg.Cache.TTL, zapLogger)
		cachePinger = monitor.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	journalStore, err := journal.Open(cfg.Journal.Path, "")
	if err != nil {
		zapLogger.Fatal("failed to open residue journal", zap.Error(err))
	}
	manager.Register("journal", func(context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(cfg.Store.Driver, storePinger, cachePinger, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	reporter := services.NewResidueReporter(journalStore, zapLogger, services.ReporterConfig{
		Interval:  cfg.Journal.ReportInterval,
		Retention: time.Duration(cfg.Journal.RetentionHours) * time.Hour,
	})
	reporter.Start()
	manager.Register("residue_reporter", func(ctx context.Context) error {
		reporter.Stop(ctx)
		return nil
	})

	residue := services.NewResidueBridge(journalStore, zapLogger)

	personUseCase := personUC.New(stores.Persons, zapLogger)
	legalRepUseCase := linkedUC.New(stores.LegalRepresentatives, personUseCase, residue, zapLogger)
	signatoryUseCase := linkedUC.New(stores.AuthorizedSignatories, personUseCase, residue, zapLogger)
	clientUseCase := clientUC.New(stores.Clients, personUseCase, legalRepUseCase, signatoryUseCase, residue, zapLogger)

	// requests outlive the signal so the server can drain them
	ctxAdapter := httpcontext.NewAdapter(context.Background(), cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Persons:               apiHandler.NewPersonHandler(personUseCase, ctxAdapter, zapLogger),
		Clients:               apiHandler.NewClientHandler(clientUseCase, ctxAdapter, zapLogger),
		LegalRepresentatives:  apiHandler.NewLinkHandler(legalRepUseCase, ctxAdapter, zapLogger),
		AuthorizedSignatories: apiHandler.NewLinkHandler(signatoryUseCase, ctxAdapter, zapLogger),
		Health:                apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      router.Wrap(r.Handler, middleware.Recover(zapLogger), middleware.AccessLog(zapLogger)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("cache", cfg.Cache.Enabled))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
