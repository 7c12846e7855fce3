package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/cleanup"
	"luxe-marketplace/internal/config"
	"luxe-marketplace/internal/database"
	"luxe-marketplace/internal/handlers"
	"luxe-marketplace/internal/inventory"
	"luxe-marketplace/internal/logger"
	"luxe-marketplace/internal/ratelimit"
	"luxe-marketplace/internal/scheduler"
	"luxe-marketplace/internal/search"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}
	appConfig.ApplyEnv()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(appConfig.Logging.Level, appConfig.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	zlog.Info("configuration loaded", zap.String("path", configPath))

	// Deferred closes inside run complete before os.Exit.
	err = run(appConfig, zlog)
	if err != nil {
		zlog.Error("service stopped", zap.Error(err))
	}
	_ = zlog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(appConfig *config.Config, zlog *zap.Logger) error {
	// Inventory origin, optionally behind the Redis cache
	var source inventory.Source
	var repo inventory.Repository
	var lookup handlers.VehicleLookup
	if appConfig.Inventory.APIURL != "" {
		source = inventory.NewAPIClient(appConfig.Inventory.APIURL, appConfig.Inventory.APIKey,
			appConfig.Inventory.GetTimeout(), zlog)
	}

	// Initialize database based on configuration
	switch appConfig.Database.Type {
	case "mysql":
		mysqlCfg := appConfig.Database.MySQL
		gormDB, err := database.NewGormDB(mysqlCfg.Host, mysqlCfg.Port, mysqlCfg.User, mysqlCfg.Password, mysqlCfg.Database)
		if err != nil {
			return fmt.Errorf("connect to MySQL: %w", err)
		}
		defer gormDB.Close()
		if err := gormDB.InitSchema(); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
		repo, lookup = gormDB, gormDB
		if source == nil {
			source = gormDB
		}
		zlog.Info("using MySQL with GORM")
	case "postgres":
		pgCfg := appConfig.Database.Postgres
		db, err := database.NewDB(pgCfg.Host, pgCfg.Port, pgCfg.User, pgCfg.Password, pgCfg.Database, pgCfg.SSLMode)
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		defer db.Close()
		if err := db.InitSchema(); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
		repo, lookup = db, db
		if source == nil {
			source = db
		}
		zlog.Info("using PostgreSQL")
	}

	if source == nil {
		return errors.New("no inventory source: set inventory.api_url or a database")
	}
	// Do not persist what was just read from the same database.
	if _, fromDB := source.(inventory.Repository); fromDB {
		repo = nil
	}

	if appConfig.Redis.Address != "" {
		redisClient := inventory.NewRedisClient(appConfig.Redis.Address, appConfig.Redis.Password, appConfig.Redis.DB)
		defer redisClient.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			zlog.Warn("redis unavailable, reads will fall through to the origin", zap.Error(err))
		}
		cancel()
		source = inventory.NewCachedSource(source, inventory.NewRedisCache(redisClient, appConfig.Redis.GetTTL()), zlog)
		zlog.Info("inventory cache enabled", zap.String("addr", appConfig.Redis.Address))
	}

	// Initialize Meilisearch using config
	var searchClient *search.SearchClient
	if host := appConfig.Search.Meilisearch.Host; host != "" {
		searchClient = search.NewSearchClient(host, appConfig.Search.Meilisearch.APIKey, appConfig.Search.Meilisearch.Index)
		if err := searchClient.InitIndex(); err != nil {
			zlog.Warn("failed to initialize search index", zap.Error(err))
		}
	}

	engine := catalog.NewEngine(catalog.Options{
		FeaturedOrder: catalog.ParseFeaturedOrder(appConfig.Catalog.FeaturedOrder),
	})
	snapshot := inventory.NewSnapshot()
	sessions := catalog.NewSessionManager(engine, zlog, appConfig.Catalog.MaxSessions)

	syncer := inventory.NewSyncer(source, snapshot, zlog).AddRefresher(sessions)
	if repo != nil {
		syncer.WithRepository(repo)
	}
	var facets handlers.FacetSource
	if searchClient != nil {
		syncer.WithIndexer(searchClient)
		facets = searchClient
	}

	catalogHandler := handlers.NewCatalogHandler(engine, snapshot, facets, zlog)
	if lookup != nil {
		catalogHandler.WithRepository(lookup)
	}

	// Initialize rate limiter
	rateLimiter := ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)

	sweeper := cleanup.NewService(sessions, appConfig.Catalog.GetSessionIdle(), zlog)
	appScheduler := scheduler.NewScheduler(syncer, sweeper, rateLimiter, scheduler.Config{
		RefreshCron:      appConfig.Inventory.RefreshCron,
		SessionSweepCron: appConfig.Catalog.SessionSweepCron,
	}, zlog)

	if appConfig.Inventory.RefreshOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := syncer.Sync(ctx, false); err != nil {
			zlog.Warn("initial inventory load failed; serving empty catalog until next refresh", zap.Error(err))
		}
		cancel()
	}

	if err := appScheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer appScheduler.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterConfig{
		Catalog:      catalogHandler,
		Sessions:     handlers.NewSessionHandler(sessions, zlog),
		Admin:        handlers.NewAdminHandler(appScheduler, syncer, snapshot, sessions, sweeper, rateLimiter, zlog),
		Limiter:      rateLimiter,
		AllowOrigins: appConfig.Server.AllowOrigins,
		Logger:       zlog,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("port", appConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
