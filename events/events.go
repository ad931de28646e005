package events

import (
	"context"
	"sync"

	"ecochampions/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeCoinsAwarded     EventType = "coins_awarded"
	EventTypeTierChanged      EventType = "tier_changed"
	EventTypeUserCreated      EventType = "user_created"
	EventTypeProjectCompleted EventType = "project_completed"
	EventTypeAwardFailed      EventType = "award_failed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// CoinsAwardedEvent represents a committed ledger entry
type CoinsAwardedEvent struct {
	UserID        uuid.UUID   `json:"user_id"`
	TransactionID uuid.UUID   `json:"transaction_id"`
	Amount        int64       `json:"amount"`
	Reason        string      `json:"reason"`
	OldBalance    int64       `json:"old_balance"`
	NewBalance    int64       `json:"new_balance"`
	Tier          models.Tier `json:"tier"`
}

func (e CoinsAwardedEvent) Type() EventType {
	return EventTypeCoinsAwarded
}

// TierChangedEvent is emitted when an award moves a user into another tier
type TierChangedEvent struct {
	UserID  uuid.UUID   `json:"user_id"`
	OldTier models.Tier `json:"old_tier"`
	NewTier models.Tier `json:"new_tier"`
	Balance int64       `json:"balance"`
}

func (e TierChangedEvent) Type() EventType {
	return EventTypeTierChanged
}

// UserCreatedEvent represents a new account
type UserCreatedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Community string    `json:"community"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// ProjectCompletedEvent is emitted once per project when it reaches its goal
type ProjectCompletedEvent struct {
	ProjectID       uuid.UUID   `json:"project_id"`
	Title           string      `json:"title"`
	GoalWeight      float64     `json:"goal_weight"`
	CollectedWeight float64     `json:"collected_weight"`
	Participants    []uuid.UUID `json:"participants"`
}

func (e ProjectCompletedEvent) Type() EventType {
	return EventTypeProjectCompleted
}

// AwardFailedEvent reports a secondary award that could not be applied
type AwardFailedEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Amount int64     `json:"amount"`
	Reason string    `json:"reason"`
	Cause  string    `json:"cause"`
}

func (e AwardFailedEvent) Type() EventType {
	return EventTypeAwardFailed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// Publish emits an event that is not tied to a unit of work
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits, then flushes them to the underlying bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	// Handlers outlive the request; don't hand them the transaction's context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for a commit
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
