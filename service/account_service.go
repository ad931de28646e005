package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"ecochampions/events"
	"ecochampions/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{
		uowFactory: uowFactory,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, name, email, community string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", email, ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user := &models.User{
		Name:      name,
		Email:     email,
		Community: strings.TrimSpace(community),
		EcoCoins:  0,
		Role:      models.TierFor(0),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:    user.ID,
		Name:      user.Name,
		Community: user.Community,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":   user.ID,
		"community": user.Community,
	}).Info("Created account")

	return user, nil
}

func (s *accountService) GetAccount(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	return user, nil
}

func (s *accountService) GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CoinTransaction, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	txs, err := uow.CoinTransactionRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	return txs, nil
}

// VerifyLedger reads the balance and the transaction sum under the user's row
// lock so no award can land between the two reads.
func (s *accountService) VerifyLedger(ctx context.Context, userID uuid.UUID) (*models.LedgerAudit, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	sum, count, err := uow.CoinTransactionRepository().SumByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	audit := &models.LedgerAudit{
		UserID:         userID,
		Balance:        user.EcoCoins,
		TransactionSum: sum,
		Transactions:   count,
	}
	if !audit.Consistent() {
		log.WithFields(log.Fields{
			"user_id":         userID,
			"balance":         audit.Balance,
			"transaction_sum": audit.TransactionSum,
		}).Error("Ledger does not match balance")
	}

	return audit, nil
}
