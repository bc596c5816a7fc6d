package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/email"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log, "worker")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.NotificationsTopic == "" {
		zlog.Fatal("kafka brokers and notifications topic are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	emailSender := email.NewSender(zlog)

	zlog.Info("worker started", zap.String("topic", cfg.Kafka.NotificationsTopic))
	err = consumer.Consume(ctx, emailSender.Send)
	if err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("consumer stopped", zap.Error(err))
		return
	}
	zlog.Info("worker stopped")
}
