// auditlog consumes the change-event topic and writes every event to the
// log as structured JSON.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/jingjai/internal/jingjai/config"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/pkg/zaplogger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config")
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

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Fatal("kafka.brokers is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(auditHandler(logger.Named("audit")))

	logger.Info("Audit log consumer started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	consumer.Run(ctx)
	logger.Info("Audit log consumer stopped")
}

func auditHandler(logger *zap.Logger) func(context.Context, events.Event) error {
	return func(_ context.Context, event events.Event) error {
		logger.Info("change",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID.String()),
			zap.String("actor", event.Actor),
			zap.Time("occurred_at", event.OccurredAt),
			zap.Any("payload", event.Payload),
		)
		return nil
	}
}
