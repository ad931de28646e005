package infrastructure

import (
	"context"
	"encoding/json"

	"ecochampions/events"

	log "github.com/sirupsen/logrus"
)

// messagePublisher is the part of NATSClient the forwarder needs
type messagePublisher interface {
	Publish(subject string, data []byte) error
}

// ledgerEventTypes lists every event the ledger emits after commit
var ledgerEventTypes = []events.EventType{
	events.EventTypeCoinsAwarded,
	events.EventTypeTierChanged,
	events.EventTypeUserCreated,
	events.EventTypeProjectCompleted,
	events.EventTypeAwardFailed,
}

// NATSForwarder republishes committed domain events to NATS as JSON, one
// subject per event type under a common prefix.
type NATSForwarder struct {
	prefix string
	pub    messagePublisher
}

// NewNATSForwarder creates a forwarder publishing through pub
func NewNATSForwarder(pub messagePublisher, subjectPrefix string) *NATSForwarder {
	return &NATSForwarder{
		prefix: subjectPrefix,
		pub:    pub,
	}
}

// Subscribe forwards every ledger event type
func (f *NATSForwarder) Subscribe(bus *events.Bus) {
	for _, eventType := range ledgerEventTypes {
		bus.Subscribe(eventType, f.forward)
	}
}

func (f *NATSForwarder) forward(_ context.Context, event events.Event) {
	subject := subjectFor(f.prefix, event.Type())

	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("subject", subject).Error("Failed to marshal event")
		return
	}

	if err := f.pub.Publish(subject, data); err != nil {
		log.WithError(err).WithField("subject", subject).Error("Failed to publish event to NATS")
		return
	}

	log.WithField("subject", subject).Debug("Forwarded event to NATS")
}

func subjectFor(prefix string, eventType events.EventType) string {
	return prefix + "." + string(eventType)
}
