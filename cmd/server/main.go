// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/config"
	"github.com/unclebandit/customer-api/internal/controller"
	"github.com/unclebandit/customer-api/internal/db"
	"github.com/unclebandit/customer-api/internal/handler"
	"github.com/unclebandit/customer-api/internal/logger"
	"github.com/unclebandit/customer-api/internal/queue"
	"github.com/unclebandit/customer-api/internal/repository"
	"github.com/unclebandit/customer-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not load config")
	}

	log, err := logger.New(cfg.Log, "customer-api")
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A store that failed to open stays in place and fails every request.
	store := db.Open(ctx, cfg.Database, log)
	defer store.Close()

	q, closeQueue := newQueue(cfg.Events, log)
	defer closeQueue()
	events := queue.NewPublisher(q, cfg.Events.Queue, log)

	customerRepo := &repository.CustomerRepository{Store: store}
	addressRepo := &repository.AddressRepository{Store: store}

	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
		Events:       events,
	}
	addressService := &service.AddressService{
		AddressRepo:  addressRepo,
		CustomerRepo: customerRepo,
		Events:       events,
	}

	router := handler.NewRouter(handler.Routes{
		Customers:      &controller.CustomerController{CustomerService: customerService, Log: log},
		Addresses:      &controller.AddressController{AddressService: addressService, Log: log},
		Health:         &handler.HealthHandler{Store: store},
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newQueue connects to AMQP when configured and falls back to an in-process
// queue whose only subscriber logs the events.
func newQueue(cfg config.EventsConfig, log zerolog.Logger) (queue.Queue, func()) {
	if cfg.AMQPURL != "" {
		aq, err := queue.DialAMQP(cfg.AMQPURL, log)
		if err == nil {
			log.Info().Str("queue", cfg.Queue).Msg("publishing change events to amqp")
			return aq, func() { _ = aq.Close() }
		}
		log.Warn().Err(err).Msg("amqp unavailable, keeping change events in process")
	}

	mq := queue.NewInMemoryQueue(log)
	if err := queue.StartEventLogger(mq, cfg.Queue, log); err != nil {
		log.Warn().Err(err).Msg("failed to start event logger")
	}
	return mq, mq.Wait
}
