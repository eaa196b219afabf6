package queue

import (
	"github.com/rs/zerolog"
)

// Publisher emits change events on a single topic. Publishing is best-effort:
// failures are logged and never returned to the caller. A nil Publisher is a no-op.
type Publisher struct {
	Queue Queue
	Topic string
	Log   zerolog.Logger
}

func NewPublisher(q Queue, topic string, logger zerolog.Logger) *Publisher {
	return &Publisher{Queue: q, Topic: topic, Log: logger}
}

func (p *Publisher) Emit(eventType string, customerID, addressID int64) {
	if p == nil || p.Queue == nil {
		return
	}
	evt := NewEvent(eventType, customerID, addressID)
	if err := p.Queue.Publish(p.Topic, evt); err != nil {
		p.Log.Warn().Err(err).Str("event", evt.Type).Str("event_id", evt.ID).Msg("failed to publish change event")
	}
}

// EventLogger returns a handler that writes one structured line per change event.
func EventLogger(logger zerolog.Logger) func(evt Event) error {
	return func(evt Event) error {
		logger.Info().
			Str("event_id", evt.ID).
			Str("type", evt.Type).
			Int64("customer_id", evt.CustomerID).
			Int64("address_id", evt.AddressID).
			Time("occurred_at", evt.OccurredAt).
			Msg("change event")
		return nil
	}
}

// StartEventLogger subscribes EventLogger to topic, dropping malformed payloads.
func StartEventLogger(q Queue, topic string, logger zerolog.Logger) error {
	handle := EventLogger(logger)
	return q.Subscribe(topic, func(payload any) error {
		evt, err := DecodeEvent(payload)
		if err != nil {
			logger.Warn().Err(err).Msg("dropping malformed event")
			return nil // no retry
		}
		return handle(evt)
	})
}
