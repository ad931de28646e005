package service

import (
	"context"
	"fmt"
	"strings"

	"ecochampions/events"
	"ecochampions/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type rewardEngine struct {
	uowFactory UnitOfWorkFactory
}

// NewRewardEngine creates a new reward engine
func NewRewardEngine(uowFactory UnitOfWorkFactory) RewardEngine {
	return &rewardEngine{
		uowFactory: uowFactory,
	}
}

// AwardCoins applies a single award in its own unit of work. Failures are
// returned as-is; retrying is left to the caller.
func (e *rewardEngine) AwardCoins(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*AwardResult, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	result, err := AwardCoins(ctx, uow, userID, amount, reason)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit award: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"reason":  reason,
		"balance": result.Balance,
		"tier":    result.Tier,
	}).Info("Awarded eco-coins")

	return result, nil
}

// AwardCoins is the single entry point for balance changes. It increments the
// balance, stores the recomputed tier and appends the ledger entry inside the
// caller's unit of work, so all three commit or roll back together.
func AwardCoins(ctx context.Context, uow UnitOfWork, userID uuid.UUID, amount int64, reason string) (*AwardResult, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}
	if amount == 0 {
		return nil, fmt.Errorf("award amount cannot be zero: %w", ErrInvalidInput)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("award reason is required: %w", ErrInvalidInput)
	}

	// The increment takes the row lock, serializing awards to the same user
	newBalance, err := uow.UserRepository().AddCoins(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add coins: %w", err)
	}
	if newBalance == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	oldBalance := *newBalance - amount
	result := &AwardResult{
		UserID:       userID,
		Amount:       amount,
		Reason:       reason,
		Balance:      *newBalance,
		Tier:         models.TierFor(*newBalance),
		PreviousTier: models.TierFor(oldBalance),
	}

	if err := uow.UserRepository().SetRole(ctx, userID, result.Tier); err != nil {
		return nil, fmt.Errorf("failed to store tier: %w", err)
	}

	entry := &models.CoinTransaction{
		UserID: userID,
		Amount: amount,
		Reason: reason,
	}
	if err := uow.CoinTransactionRepository().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append coin transaction: %w", err)
	}
	result.TransactionID = entry.ID

	// Flushed only after the unit of work commits
	uow.EventBus().Publish(events.CoinsAwardedEvent{
		UserID:        userID,
		TransactionID: entry.ID,
		Amount:        amount,
		Reason:        reason,
		OldBalance:    oldBalance,
		NewBalance:    result.Balance,
		Tier:          result.Tier,
	})
	if result.TierChanged() {
		uow.EventBus().Publish(events.TierChangedEvent{
			UserID:  userID,
			OldTier: result.PreviousTier,
			NewTier: result.Tier,
			Balance: result.Balance,
		})
	}

	return result, nil
}

// awardEach attempts every award independently. A failure is recorded on its
// outcome and published; it never stops the remaining awards.
func awardEach(ctx context.Context, engine RewardEngine, publisher EventPublisher, awards []AwardOutcome) []AwardOutcome {
	// Once started, every award is attempted even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	for i := range awards {
		o := &awards[i]
		o.Result, o.Err = engine.AwardCoins(ctx, o.UserID, o.Amount, o.Reason)
		if o.Err == nil {
			continue
		}

		log.WithError(o.Err).WithFields(log.Fields{
			"user_id": o.UserID,
			"amount":  o.Amount,
			"reason":  o.Reason,
		}).Warn("Cascade award failed")

		if publisher != nil {
			publisher.Publish(events.AwardFailedEvent{
				UserID: o.UserID,
				Amount: o.Amount,
				Reason: o.Reason,
				Cause:  o.Err.Error(),
			})
		}
	}
	return awards
}
