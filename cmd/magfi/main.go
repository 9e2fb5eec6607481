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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/alert"
	"github.com/WillianTomaz/magfi/internal/client/peers"
	"github.com/WillianTomaz/magfi/internal/config"
	cronrunner "github.com/WillianTomaz/magfi/internal/cron"
	"github.com/WillianTomaz/magfi/internal/db"
	"github.com/WillianTomaz/magfi/internal/feed"
	"github.com/WillianTomaz/magfi/internal/handler"
	"github.com/WillianTomaz/magfi/internal/ingest"
	"github.com/WillianTomaz/magfi/internal/logger"
	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/predict"
	gormrepository "github.com/WillianTomaz/magfi/internal/repository/gorm"
	"github.com/WillianTomaz/magfi/internal/sentiment"
	"github.com/WillianTomaz/magfi/internal/stream"

	_ "github.com/WillianTomaz/magfi/docs"
)

func main() {
	cfgPath := os.Getenv("MAGFI_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("MAGFI_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	collector := &feed.Collector{
		HTTP:           &http.Client{Timeout: cfg.Feeds.FetchTimeout},
		Logger:         logger,
		URLs:           cfg.Feeds.URLs,
		MaxPerFeed:     cfg.Feeds.MaxPerFeed,
		FetchTimeout:   cfg.Feeds.FetchTimeout,
		MaxConcurrency: cfg.Feeds.MaxConcurrency,
	}

	provider, err := sentiment.NewProvider(cfg.Sentiment, logger)
	if err != nil {
		logger.Fatal("sentiment provider init failed", zap.Error(err))
	}
	classifier := &sentiment.Classifier{Provider: provider, Logger: logger}

	ingestSvc := &ingest.Service{
		Repo:       store,
		Collector:  collector,
		Classifier: classifier,
		Logger:     logger,
		Workers:    cfg.Ingest.Workers,
	}

	peerHTTP := &http.Client{Timeout: cfg.Peers.Timeout}
	predictSvc := &predict.Service{
		Repo:        store,
		Core:        peers.NewCoreClient(peerHTTP, cfg.Peers.CoreURL, logger),
		Ingestor:    peers.NewIngestorClient(peerHTTP, cfg.Peers.IngestorURL, logger),
		Logger:      logger,
		TopAssets:   cfg.Predict.TopAssets,
		HorizonDays: cfg.Predict.HorizonDays,
		NewsLimit:   cfg.Predict.NewsLimit,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, AppName: cfg.App.Name, Env: cfg.App.Env}
	healthHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Repo: store, Logger: logger}
	marketHandler.Register(engine)
	assetHandler := &handler.AssetHandler{Repo: store, Logger: logger}
	assetHandler.Register(engine)
	currencyHandler := &handler.CurrencyHandler{Repo: store, Logger: logger}
	currencyHandler.Register(engine)
	accountHandler := &handler.AccountHandler{Repo: store}
	accountHandler.Register(engine)
	configHandler := &handler.ConfigHandler{Repo: store}
	configHandler.Register(engine)
	ingestHandler := &handler.IngestHandler{Service: ingestSvc, Repo: store, Logger: logger}
	ingestHandler.Register(engine)
	predictHandler := &handler.PredictHandler{Service: predictSvc, Repo: store, Logger: logger}
	predictHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)

		_, err = cronRunner.AddEvery("news-ingest", cfg.Ingest.Interval, func(ctx context.Context) {
			sum := ingestSvc.Run(ctx)
			if sum.Failed > 0 {
				logger.Warn("ingestion cycle had failures",
					zap.Int("collected", sum.Collected),
					zap.Int("failed", sum.Failed),
				)
			}
		})
		if err != nil {
			logger.Warn("cron register ingest failed", zap.Error(err))
		}

		_, err = cronRunner.AddEvery("news-reprocess", 6*cfg.Ingest.Interval, func(ctx context.Context) {
			if _, err := ingestSvc.ReprocessUnprocessed(ctx, 100); err != nil {
				logger.Warn("reprocess sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register reprocess failed", zap.Error(err))
		}

		if cfg.Predict.Enabled {
			_, err = cronRunner.AddEvery("predict-top", cfg.Predict.Interval, func(ctx context.Context) {
				results, err := predictSvc.PredictTop(ctx)
				if err != nil {
					logger.Warn("cron prediction batch failed", zap.Error(err))
					return
				}
				logger.Info("cron prediction batch ok", zap.Int("predictions", len(results)))
			})
			if err != nil {
				logger.Warn("cron register predict failed", zap.Error(err))
			}
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	if cfg.PriceStream.Enabled && cfg.PriceStream.URL != "" {
		priceStream := stream.New(store, stream.Options{
			URL:          cfg.PriceStream.URL,
			ReconnectMin: cfg.PriceStream.ReconnectDelay,
			Logger:       logger,
		})
		go func() {
			if err := priceStream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("price stream stopped", zap.Error(err))
			}
		}()
	}

	// Refresh denormalized buy-window flags once at startup so restarts
	// converge with whatever prices changed while the process was down.
	go refreshAlerts(ctx, store, logger)

	errCh := make(chan error, 1)
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

// alertStore is the slice of the repository the startup refresh touches.
type alertStore interface {
	ListAssets(ctx context.Context, activeOnly bool) ([]models.Asset, error)
	SaveAsset(ctx context.Context, item *models.Asset) error
	ListCurrencies(ctx context.Context, activeOnly bool) ([]models.Currency, error)
	SaveCurrency(ctx context.Context, item *models.Currency) error
}

func refreshAlerts(ctx context.Context, store alertStore, logger *zap.Logger) {
	assets, err := store.ListAssets(ctx, true)
	if err != nil {
		logger.Warn("startup alert refresh failed", zap.Error(err))
		return
	}
	for i := range assets {
		item := &assets[i]
		wasTimeToBuy := item.TimeToBuy
		wasGap := item.TargetGapPct
		item.TimeToBuy = false
		item.TargetGapPct = nil
		if ev, ok := alert.Evaluate(item); ok {
			item.TimeToBuy = true
			gap := ev.GapPct
			item.TargetGapPct = &gap
		}
		// The gap moves with the quote even while the buy window holds,
		// so compare it too before skipping the save.
		if item.TimeToBuy == wasTimeToBuy && gapEqual(item.TargetGapPct, wasGap) {
			continue
		}
		if err := store.SaveAsset(ctx, item); err != nil {
			logger.Warn("startup alert refresh save failed",
				zap.String("ticker", item.Ticker),
				zap.Error(err),
			)
		}
	}

	currencies, err := store.ListCurrencies(ctx, true)
	if err != nil {
		logger.Warn("startup alert refresh failed", zap.Error(err))
		return
	}
	for i := range currencies {
		item := &currencies[i]
		wasTimeToBuy := item.TimeToBuy
		_, item.TimeToBuy = alert.Evaluate(item)
		if item.TimeToBuy == wasTimeToBuy {
			continue
		}
		if err := store.SaveCurrency(ctx, item); err != nil {
			logger.Warn("startup alert refresh save failed",
				zap.String("code", item.Code),
				zap.Error(err),
			)
		}
	}
}

func gapEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
