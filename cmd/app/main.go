package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airbooking-web/api"
	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/bootstrap"
	"github.com/Domenick1991/airbooking-web/internal/cache"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/logger"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/Domenick1991/airbooking-web/internal/service/bookings"
	"github.com/Domenick1991/airbooking-web/internal/service/flights"
	"github.com/Domenick1991/airbooking-web/internal/service/payment"
	"github.com/Domenick1991/airbooking-web/internal/service/session"
	"github.com/Domenick1991/airbooking-web/internal/service/support"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log, "app")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]bootstrap.HealthCheck{}

	var (
		credentials session.CredentialStore = cache.NewMemoryStore()
		locations   flights.LocationsCache
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.LocationsCacheTTLSeconds)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			zlog.Warn("redis unavailable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		credentials = redisCache
		locations = redisCache
		checks["redis"] = redisCache.Ping
	} else {
		zlog.Info("redis not configured, keeping credentials in memory")
	}

	var events *kafka.FlowPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog)
		defer producer.Close()
		events = kafka.NewFlowPublisher(producer, cfg.Kafka.FlowEventsTopic, cfg.Kafka.NotificationsTopic, zlog,
			kafka.WithQueueSize(cfg.Kafka.PublishQueueSize),
			kafka.WithPublishTimeout(time.Duration(cfg.Kafka.PublishTimeoutMs)*time.Millisecond),
		)
		defer events.Close()
		checks["kafka"] = producer.CheckConnection
	}

	client := repository.NewClient(cfg.Backend.APIURL(), cfg.Backend.Timeout(), zlog)
	authRepo := repository.NewAuthRepository(client)
	flightRepo := repository.NewFlightRepository(client)
	bookingRepo := repository.NewBookingRepository(client)
	paymentRepo := repository.NewPaymentRepository(client)
	supportRepo := repository.NewSupportRepository(client)

	drafts := booking.NewDraftStore()
	sessionService := session.NewSessionService(authRepo, credentials, cfg.Session, zlog, session.OnEvict(drafts.Forget), session.OnRotate(drafts.Move))
	flightService := flights.NewFlightService(flightRepo, locations, zlog)
	checkout := payment.NewCheckoutService(paymentRepo, cfg.HTTP.PublicURL, events, zlog)
	bookingService := booking.NewBookingService(bookingRepo, checkout, zlog, booking.WithEvents(events), booking.WithDraftStore(drafts))
	poller := payment.NewConfirmationPoller(bookingRepo, cfg.Payment, zlog, payment.WithEvents(events))
	bookingsService := bookings.NewBookingsService(bookingRepo, paymentRepo, flightService, checkout, events, zlog)
	supportService := support.NewSupportService(supportRepo, zlog)

	go sessionService.RunJanitor(ctx, time.Duration(cfg.Session.SweepMinutes)*time.Minute)

	deps := bootstrap.Deps{
		Sessions: sessionService,
		Handlers: []bootstrap.Handler{
			api.NewAuthHandler(sessionService, cfg.Session),
			api.NewFlightHandler(flightService),
			api.NewDraftHandler(bookingService),
			api.NewPaymentHandler(poller, zlog),
			api.NewBookingHandler(bookingsService, time.Duration(cfg.Bookings.RefreshSeconds)*time.Second),
			api.NewSupportHandler(supportService),
		},
		Checks: checks,
		Log:    zlog,
	}

	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
