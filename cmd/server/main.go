package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/config"
	"github.com/mherrera/rodeo/internal/record"
	"github.com/mherrera/rodeo/internal/record/memory"
	"github.com/mherrera/rodeo/internal/record/mongodb"
	"github.com/mherrera/rodeo/internal/record/rest"
	"github.com/mherrera/rodeo/internal/scheduler"
	"github.com/mherrera/rodeo/internal/server/handlers"
	"github.com/mherrera/rodeo/internal/server/router"
	"github.com/mherrera/rodeo/internal/service/herd"
	"github.com/mherrera/rodeo/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store record.Store
	switch cfg.Store.Backend {
	case config.BackendMongo:
		mongoStore, err := mongodb.New(context.Background(), cfg.Store.MongoURI, cfg.Store.MongoDBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb record store", zap.Error(err))
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoStore
	case config.BackendRest:
		store = rest.New(cfg.Store.APIBaseURL, cfg.Store.APIKey)
	case config.BackendMemory:
		baseLogger.Warn("memory record store selected, data will not survive restarts")
		store = memory.New()
	}

	container := herd.New(store, baseLogger.Named("herd"))
	api := handlers.NewAPI(container, baseLogger.Named("handlers"))
	engine := router.New(api, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Snapshot, container, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
