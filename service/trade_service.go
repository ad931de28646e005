package service

import (
	"context"
	"fmt"

	"ecochampions/config"
	"ecochampions/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type tradeService struct {
	uowFactory UnitOfWorkFactory
	engine     RewardEngine
	publisher  EventPublisher
	rewards    config.Rewards
}

// NewTradeService creates a new trade service
func NewTradeService(uowFactory UnitOfWorkFactory, engine RewardEngine, publisher EventPublisher, rewards config.Rewards) TradeService {
	return &tradeService{
		uowFactory: uowFactory,
		engine:     engine,
		publisher:  publisher,
		rewards:    rewards,
	}
}

// FinalizeTrade pays both parties of a trade. Only the buyer or the seller may
// finalize. Both awards are attempted even if the first fails.
func (s *tradeService) FinalizeTrade(ctx context.Context, callerID, buyerID, sellerID uuid.UUID) (*TradeResult, error) {
	if callerID == uuid.Nil || buyerID == uuid.Nil || sellerID == uuid.Nil {
		return nil, fmt.Errorf("caller, buyer and seller ids are required: %w", ErrInvalidInput)
	}
	if buyerID == sellerID {
		return nil, fmt.Errorf("buyer and seller must differ: %w", ErrInvalidInput)
	}
	if callerID != buyerID && callerID != sellerID {
		return nil, fmt.Errorf("user %s is not a party to this trade: %w", callerID, ErrForbidden)
	}

	if err := s.requireParties(ctx, buyerID, sellerID); err != nil {
		return nil, err
	}

	outcomes := awardEach(ctx, s.engine, s.publisher, []AwardOutcome{
		{UserID: buyerID, Amount: s.rewards.TradeFinalized, Reason: models.ReasonTradeFinalized},
		{UserID: sellerID, Amount: s.rewards.TradeFinalized, Reason: models.ReasonTradeFinalized},
	})

	result := &TradeResult{
		BuyerID:  buyerID,
		SellerID: sellerID,
		Outcomes: outcomes,
	}
	if r := outcomes[0].Result; r != nil {
		result.BuyerBalance = r.Balance
	}
	if r := outcomes[1].Result; r != nil {
		result.SellerBalance = r.Balance
	}

	log.WithFields(log.Fields{
		"caller_id":      callerID,
		"buyer_id":       buyerID,
		"seller_id":      sellerID,
		"buyer_balance":  result.BuyerBalance,
		"seller_balance": result.SellerBalance,
	}).Info("Trade finalized")

	return result, partialFailure(outcomes)
}

func (s *tradeService) requireParties(ctx context.Context, ids ...uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for _, id := range ids {
		user, err := uow.UserRepository().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
	}
	return nil
}
