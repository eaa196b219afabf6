package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Change event types.
const (
	CustomerCreated = "customer.created"
	CustomerUpdated = "customer.updated"
	CustomerDeleted = "customer.deleted"
	AddressCreated  = "address.created"
	AddressUpdated  = "address.updated"
	AddressDeleted  = "address.deleted"
)

// Event records a successful mutation of a customer or address.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	CustomerID int64     `json:"customer_id,omitempty"`
	AddressID  int64     `json:"address_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, customerID, addressID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		CustomerID: customerID,
		AddressID:  addressID,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeEvent accepts an Event value or its JSON encoding.
func DecodeEvent(payload any) (Event, error) {
	switch p := payload.(type) {
	case Event:
		return p, nil
	case *Event:
		if p == nil {
			return Event{}, errors.New("nil event")
		}
		return *p, nil
	case []byte:
		var e Event
		if err := json.Unmarshal(p, &e); err != nil {
			return Event{}, errors.Wrap(err, "decode event")
		}
		return e, nil
	default:
		return Event{}, errors.Errorf("unexpected event payload %T", payload)
	}
}
