package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/jingjai/internal/jingjai/auth"
	"github.com/gartstein/jingjai/internal/jingjai/config"
	"github.com/gartstein/jingjai/internal/jingjai/controller"
	"github.com/gartstein/jingjai/internal/jingjai/db"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/handlers"
	"github.com/gartstein/jingjai/internal/jingjai/idempotency"
	"github.com/gartstein/jingjai/internal/pkg/masker"
	"github.com/gartstein/jingjai/internal/pkg/zaplogger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (default $JINGJAI_CONFIG or config/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zaplogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := masker.LogConfig(logger, cfg); err != nil {
		logger.Warn("Failed to log config", zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	repo, err := db.NewRepository(databaseConfig(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer, closeProducer := initProducer(cfg, logger)
	defer closeProducer()

	idem, closeIdem := initIdempotency(cfg, logger)
	defer closeIdem()

	services := controller.NewServices(repo, producer, logger, controller.Options{
		AllowNegativeStock: cfg.Inventory.AllowNegative,
		Location:           loc,
		ResourceCacheTTL:   cfg.Resources.CacheTTL,
	})

	handler := handlers.NewControlHandler(handlers.Controllers{
		Clients:   services.Clients,
		Inventory: services.Inventory,
		Sales:     services.Sales,
		Resources: services.Resources,
		Bookings:  services.Bookings,
	}, idem, logger)

	authInterceptor := auth.NewAuthInterceptor(cfg.Auth.JWTSecret)
	server := handlers.NewServer(cfg.Server.GRPCPort, cfg.Server.HTTPPort, logger, grpc.UnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(handler)
	if err := server.RegisterHTTPGateway(handler, cfg.Auth.JWTSecret); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

func databaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Driver:    cfg.Database.Driver,
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		DBName:    cfg.Database.Name,
		SSLMode:   cfg.Database.SSLMode,
		Path:      cfg.Database.Path,
		TxRetries: cfg.Database.TxRetries,
	}
}

// initProducer publishes to Kafka when brokers are configured and only
// logs change events otherwise.
func initProducer(cfg *config.Config, logger *zap.Logger) (controller.EventProducer, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, change events are logged only")
		return events.NewLogProducer(logger), func() {}
	}
	producer, err := events.NewProducer(cfg.Kafka.Brokers, logger, cfg.Kafka.Topic)
	if err != nil {
		logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
	}
	return producer, producer.Close
}

func initIdempotency(cfg *config.Config, logger *zap.Logger) (handlers.IdempotencyStore, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unreachable, idempotency keys fail open until it recovers", zap.Error(err))
	}
	return idempotency.NewStore(client), func() { _ = client.Close() }
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure,
// then shuts the servers down.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
