package service

import (
	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/queue"
)

// Worker processes change events delivered by a queue subscription.
type Worker struct {
	Handle func(evt queue.Event) error
	Log    zerolog.Logger
}

// Constructor
func NewWorker(handle func(evt queue.Event) error, logger zerolog.Logger) *Worker {
	return &Worker{
		Handle: handle,
		Log:    logger,
	}
}

// Process is a queue handler. Malformed payloads are dropped; handler errors
// are returned so the queue can retry.
func (w *Worker) Process(payload any) error {
	evt, err := queue.DecodeEvent(payload)
	if err != nil {
		w.Log.Warn().Err(err).Msg("dropping malformed event")
		return nil
	}

	if err := w.Handle(evt); err != nil {
		w.Log.Error().Err(err).Str("event_id", evt.ID).Str("type", evt.Type).Msg("failed to process event")
		return err
	}
	return nil
}
