package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventradar/internal/alert"
	"eventradar/internal/classify"
	"eventradar/internal/config"
	cronrunner "eventradar/internal/cron"
	"eventradar/internal/db"
	"eventradar/internal/dedup"
	"eventradar/internal/handler"
	"eventradar/internal/ingest"
	"eventradar/internal/logger"
	"eventradar/internal/render"
	gormrepository "eventradar/internal/repository/gorm"
	"eventradar/internal/source"
	"eventradar/internal/source/scrape"
)

func main() {
	cfgPath := os.Getenv("ER_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("ER_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	registry := source.NewRegistry(
		source.NewTicketmaster(cfg.Sources.Ticketmaster, logger),
		source.NewEventbrite(cfg.Sources.Eventbrite, logger),
		source.NewSeatGeek(cfg.Sources.SeatGeek, logger),
		scrape.NewSouthbank(cfg.Sources.Scrapers, logger),
		scrape.NewRoundhouse(cfg.Sources.Scrapers, logger),
	)

	classifier := classify.New(cfg.Detector)
	aggregator := ingest.New(registry, store, dedup.New(store), classifier, cfg.Ingest, logger)
	monitor := alert.New(store, render.NewAlert(), cfg.Alerts, logger)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, Registry: registry}
	healthHandler.Register(engine)
	eventsHandler := &handler.EventsHandler{Repo: store, Logger: logger}
	eventsHandler.Register(engine)
	sourcesHandler := &handler.SourcesHandler{Registry: registry, Repo: store, Logger: logger}
	sourcesHandler.Register(engine)
	alertsHandler := &handler.AlertsHandler{Monitor: monitor, Repo: store, Logger: logger}
	alertsHandler.Register(engine)
	ingestHandler := &handler.IngestHandler{Aggregator: aggregator, Logger: logger}
	ingestHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Ingest, func(ctx context.Context) {
			results := aggregator.RunOnce(ctx)
			logger.Info("cron ingest complete", zap.Any("results", results))
		})
		if err != nil {
			logger.Warn("cron register ingest failed", zap.Error(err))
		}

		if cfg.Alerts.Enabled {
			_, err = cronRunner.Add(cfg.Cron.Monitor, func(ctx context.Context) {
				if _, err := monitor.RunOnce(ctx); err != nil {
					logger.Warn("cron alert check failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("cron register monitor failed", zap.Error(err))
			}
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
