package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/config"
	"github.com/unclebandit/customer-api/internal/logger"
	"github.com/unclebandit/customer-api/internal/queue"
	"github.com/unclebandit/customer-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not load config")
	}

	log, err := logger.New(cfg.Log, "customer-worker")
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not build logger")
	}

	if cfg.Events.AMQPURL == "" {
		log.Fatal().Msg("CUSTOMERS_EVENTS_AMQP_URL is required for the worker")
	}

	q, err := queue.DialAMQP(cfg.Events.AMQPURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer q.Close()

	worker := newWorker(log)
	if err := q.Subscribe(cfg.Events.Queue, worker.Process); err != nil {
		log.Fatal().Err(err).Msg("failed to register consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.Events.Queue).Msg("worker running, waiting for events")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case amqpErr := <-q.NotifyClose():
		log.Error().Interface("reason", amqpErr).Msg("amqp connection closed")
	}
}

// newWorker logs every change event it receives.
func newWorker(log zerolog.Logger) *service.Worker {
	return service.NewWorker(queue.EventLogger(log), log)
}
