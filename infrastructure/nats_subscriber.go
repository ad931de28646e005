package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ecochampions/events"

	log "github.com/sirupsen/logrus"
)

// messageSubscriber is the part of NATSClient the subscriber needs
type messageSubscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte) error) error
}

// NATSEventSubscriber consumes events forwarded by other processes and
// re-emits them on a local bus, so subscribers such as Metrics observe
// activity from every CLI invocation.
type NATSEventSubscriber struct {
	sub    messageSubscriber
	prefix string
	bus    *events.Bus
}

// NewNATSEventSubscriber creates a subscriber emitting decoded events on bus
func NewNATSEventSubscriber(sub messageSubscriber, subjectPrefix string, bus *events.Bus) *NATSEventSubscriber {
	return &NATSEventSubscriber{
		sub:    sub,
		prefix: subjectPrefix,
		bus:    bus,
	}
}

// Start subscribes to every subject under the prefix
func (s *NATSEventSubscriber) Start() error {
	return s.sub.Subscribe(s.prefix+".>", s.handleMessage)
}

func (s *NATSEventSubscriber) handleMessage(subject string, data []byte) error {
	eventType, ok := strings.CutPrefix(subject, s.prefix+".")
	if !ok {
		return fmt.Errorf("subject %s is outside prefix %s", subject, s.prefix)
	}

	event, err := decodeEvent(events.EventType(eventType), data)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"subject":   subject,
		"eventType": eventType,
	}).Debug("Received forwarded event")

	s.bus.Emit(context.Background(), event)
	return nil
}

func decodeEvent(eventType events.EventType, data []byte) (events.Event, error) {
	var (
		event events.Event
		err   error
	)

	switch eventType {
	case events.EventTypeCoinsAwarded:
		var e events.CoinsAwardedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case events.EventTypeTierChanged:
		var e events.TierChangedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case events.EventTypeUserCreated:
		var e events.UserCreatedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case events.EventTypeProjectCompleted:
		var e events.ProjectCompletedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case events.EventTypeAwardFailed:
		var e events.AwardFailedEvent
		err = json.Unmarshal(data, &e)
		event = e
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}
	return event, nil
}
