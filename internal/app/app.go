package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSnakeDoc/geomarket/internal/auth"
	"github.com/MrSnakeDoc/geomarket/internal/bootstrap"
	"github.com/MrSnakeDoc/geomarket/internal/config"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/listing"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
	"github.com/MrSnakeDoc/geomarket/internal/mongo"
	"github.com/MrSnakeDoc/geomarket/internal/redis"
	"github.com/MrSnakeDoc/geomarket/internal/scheduler"
	"github.com/MrSnakeDoc/geomarket/internal/seed"
	mongostore "github.com/MrSnakeDoc/geomarket/internal/store/mongo"
	redisstore "github.com/MrSnakeDoc/geomarket/internal/store/redis"
	"github.com/MrSnakeDoc/geomarket/internal/version"
)

// listingStore is what the lifecycle manager, the engine and the seed
// importer need from a backend.
type listingStore interface {
	listing.Repository
	seed.Target
	deps.Pinger
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	mongoClient *gomongo.Client
	reloader    *scheduler.SeedReloader
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	ctx := context.Background()
	retry := bootstrap.RetryPolicy{
		ConnectTimeout: cfg.ConnectTimeout,
		RetryInterval:  cfg.RetryInterval,
		MaxWait:        cfg.MaxWait,
		PingTimeout:    cfg.PingTimeout,
		WarnThreshold:  cfg.WarnThreshold,
	}

	// Redis holds accounts whatever the listing backend - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(ctx, redis.ConnectOptions{
		Addr:         cfg.RedisAddr,
		User:         cfg.RedisUser,
		Password:     cfg.RedisPassword,
		RedisDB:      cfg.RedisDB,
		DialTimeout:  cfg.RedisDT,
		ReadTimeout:  cfg.RedisRT,
		WriteTimeout: cfg.RedisWT,
		PoolSize:     cfg.RedisPoolSize,
		Retry:        retry,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	loggerClient.Info("Redis initialized successfully")

	redisStore := redisstore.NewStore(redisClient)
	backends := map[string]deps.Pinger{config.BackendRedis: redisStore}

	var (
		store       listingStore = redisStore
		mongoClient *gomongo.Client
	)
	if cfg.StoreBackend == config.BackendMongo {
		mongoRetry := retry
		mongoRetry.ConnectTimeout = cfg.MongoConnectTimeout

		client, db, err := mongo.New(ctx, mongo.ConnectOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Retry:    mongoRetry,
		}, loggerClient)
		if err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}

		ms := mongostore.NewStore(db)
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			_ = redisClient.Close()
			return nil, err
		}
		loggerClient.Info("Mongo initialized successfully",
			logger.String("database", cfg.MongoDatabase))

		store = ms
		mongoClient = client
		backends[config.BackendMongo] = ms
	}
	loggerClient.Info("listing store selected", logger.String("backend", cfg.StoreBackend))

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(redisStore, tokens, loggerClient)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		Development:    cfg.Development(),
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Listings:       listing.NewManager(store, loggerClient),
		Engine:         listing.NewEngine(store, loggerClient),
		Auth:           authService,
		StoreBackend:   cfg.StoreBackend,
		Backends:       backends,
	}

	// Fixture import (optional)
	var reloader *scheduler.SeedReloader
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		importer := seed.NewImporter(cfg.SeedFile, store, loggerClient)
		reloadTrigger := make(chan struct{}, 1)
		reloader = scheduler.NewSeedReloader(importer, loggerClient, cfg.SeedReloadInterval, reloadTrigger)

		d.Seed = importer
		d.ReloadTrigger = reloadTrigger
	} else {
		loggerClient.Info("seed file not configured, seeding disabled")
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		mongoClient: mongoClient,
		reloader:    reloader,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting geomarket v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.SeedReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.logger.Warnf("failed to disconnect mongo: %v", err)
		} else {
			a.logger.Info("✅ Mongo disconnected cleanly")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ geomarket stopped cleanly")
	return nil
}
