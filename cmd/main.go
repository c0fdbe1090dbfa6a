package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/auth"
	"github.com/fathima-sithara/snapshoot-service/internal/config"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/handlers"
	"github.com/fathima-sithara/snapshoot-service/internal/metrics"
	"github.com/fathima-sithara/snapshoot-service/internal/middleware"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"github.com/fathima-sithara/snapshoot-service/internal/repository/memory"
	"github.com/fathima-sithara/snapshoot-service/internal/routes"
	"github.com/fathima-sithara/snapshoot-service/internal/services"
	"github.com/fathima-sithara/snapshoot-service/internal/storage"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Development(), cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	m := metrics.New()

	// stores
	var (
		stores *repository.Stores
		mc     *mongo.Client
	)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory stores; data is lost on restart")
		stores = memory.NewStores()
	default:
		mc, err = repository.Connect(ctx, cfg.Mongo.URI, cfg.ConnectTimeout, logger)
		if err != nil {
			logger.Fatalf("mongo connect: %v", err)
		}
		stores, err = repository.NewMongoStores(ctx, mc.Database(cfg.Mongo.Database))
		if err != nil {
			logger.Fatalf("mongo indexes: %v", err)
		}
	}

	// media
	var (
		media      storage.Store
		serveMedia fiber.Handler
	)
	if cfg.Store.Driver == config.DriverMemory && cfg.S3.Endpoint == "" {
		mem := storage.NewMemoryStore(fmt.Sprintf("http://localhost:%d/media", cfg.App.Port))
		media, serveMedia = mem, handlers.MediaObjects(mem)
	} else {
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Endpoint:      cfg.S3.Endpoint,
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			UsePathStyle:  cfg.S3.UsePathStyle,
		}, logger)
		if err != nil {
			logger.Fatalf("s3 init: %v", err)
		}
		if err := s3.EnsureBucket(ctx, cfg.ConnectTimeout); err != nil {
			logger.Fatalf("s3 bucket: %v", err)
		}
		breaker := storage.NewBreakerStore(s3, storage.BreakerOptions{Name: "s3"}, logger)
		breaker.Observe = m.ObserveMedia
		media = breaker
	}

	// events
	var pub events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Infow("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL)
	if err != nil {
		logger.Fatalf("jwt init: %v", err)
	}
	svc := services.New(stores, media, pub, tokens, logger)

	// rate limiting
	var (
		limit fiber.Handler
		rdb   *redis.Client
		ipl   *middleware.IPRateLimiter
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnw("redis unreachable at startup; limiter fails open until it recovers", "error", err)
		}
		limit = middleware.NewRateLimiter(middleware.RedisCounter{Client: rdb}, cfg.Redis.Prefix, cfg.RateLimit.PerMinute, time.Minute, logger).ByIP()
	} else {
		ipl = middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, logger)
		limit = ipl.Handler()
	}

	app := routes.NewApp(cfg.App.BodyLimitMB * 1024 * 1024)
	app.Use(middleware.Recovery(logger))
	app.Use(middleware.RequestLogger(logger, m))
	routes.Register(app, handlers.NewHandler(svc, logger), routes.Options{
		Auth:      middleware.JWT(tokens, logger),
		RateLimit: limit,
		Metrics:   m.Handler(),
		Media:     serveMedia,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infow("starting snapshoot", "addr", addr, "driver", cfg.Store.Driver, "env", cfg.App.Env)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warnw("http shutdown", "error", err)
	}
	closeAll(shutdownCtx, logger, pub, mc, rdb, ipl)
	logger.Info("shutdown completed")
}

func closeAll(ctx context.Context, log *zap.SugaredLogger, pub events.Publisher, mc *mongo.Client, rdb *redis.Client, ipl *middleware.IPRateLimiter) {
	if err := pub.Close(); err != nil {
		log.Warnw("event publisher close", "error", err)
	}
	if ipl != nil {
		ipl.Close()
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warnw("redis close", "error", err)
		}
	}
	if mc != nil {
		if err := mc.Disconnect(ctx); err != nil {
			log.Warnw("mongo disconnect", "error", err)
		}
	}
}
