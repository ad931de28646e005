package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"ecochampions/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan CoinsAwardedEvent, 1)
	mainBus.Subscribe(EventTypeCoinsAwarded, func(ctx context.Context, event Event) {
		awarded, ok := event.(CoinsAwardedEvent)
		if !ok {
			t.Errorf("Expected CoinsAwardedEvent, got %T", event)
			return
		}
		eventReceived <- awarded
	})

	testEvent := CoinsAwardedEvent{
		UserID:        uuid.New(),
		TransactionID: uuid.New(),
		Amount:        15,
		Reason:        models.ReasonThirdLogBonus,
		OldBalance:    10,
		NewBalance:    25,
		Tier:          models.TierEcoExplorer,
	}

	transactionalBus.Publish(testEvent)
	assert.Equal(t, 1, transactionalBus.Pending())

	transactionalBus.Flush(context.Background())
	assert.Equal(t, 0, transactionalBus.Pending())

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery routes each event type to its own subscribers
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	var received []EventType
	var wg sync.WaitGroup
	wg.Add(3)

	record := func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		received = append(received, event.Type())
		mu.Unlock()
	}
	mainBus.Subscribe(EventTypeCoinsAwarded, record)
	mainBus.Subscribe(EventTypeTierChanged, record)
	mainBus.Subscribe(EventTypeProjectCompleted, record)

	userID := uuid.New()
	transactionalBus.Publish(CoinsAwardedEvent{UserID: userID, Amount: 20, NewBalance: 30, Tier: models.TierEcoChampion})
	transactionalBus.Publish(TierChangedEvent{UserID: userID, OldTier: models.TierEcoExplorer, NewTier: models.TierEcoChampion, Balance: 30})
	transactionalBus.Publish(ProjectCompletedEvent{ProjectID: uuid.New(), Participants: []uuid.UUID{userID}})
	transactionalBus.Flush(context.Background())

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Events were not received within timeout")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []EventType{EventTypeCoinsAwarded, EventTypeTierChanged, EventTypeProjectCompleted}, received)
}

// TestTransactionalBusDiscard verifies rolled back events never reach subscribers
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	called := make(chan struct{}, 1)
	mainBus.Subscribe(EventTypeCoinsAwarded, func(ctx context.Context, event Event) {
		called <- struct{}{}
	})

	transactionalBus.Publish(CoinsAwardedEvent{UserID: uuid.New(), Amount: 5})
	transactionalBus.Discard()
	transactionalBus.Flush(context.Background())

	select {
	case <-called:
		t.Fatal("Discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusHandlerPanicIsRecovered(t *testing.T) {
	bus := NewBus()

	delivered := make(chan struct{}, 1)
	bus.Subscribe(EventTypeAwardFailed, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeAwardFailed, func(ctx context.Context, event Event) {
		delivered <- struct{}{}
	})

	require.NotPanics(t, func() {
		bus.Publish(AwardFailedEvent{UserID: uuid.New(), Amount: 20, Reason: models.ReasonCompleteProject, Cause: "deadlock"})
	})

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("Healthy handler did not receive the event")
	}
}

func TestBusWait(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	handled := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, event Event) {
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			handled++
			mu.Unlock()
		})
	}

	bus.Publish(UserCreatedEvent{UserID: uuid.New(), Name: "Ana"})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, handled)
}
