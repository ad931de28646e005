package service

import (
	"context"
	"errors"
	"testing"

	"ecochampions/events"
	"ecochampions/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_CreateAccount_Success(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewAccountService(m.factory)
	newID := uuid.New()

	m.expectTransaction(ctx, true)
	m.userRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ana" && u.Email == "ana@example.org" && u.EcoCoins == 0 && u.Role == models.TierEcoLearner
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = newID
	}).Return(nil)
	m.bus.On("Publish", events.UserCreatedEvent{UserID: newID, Name: "Ana", Community: "Riverside"}).Return()

	user, err := svc.CreateAccount(ctx, " Ana ", "Ana@Example.org", "Riverside")

	require.NoError(t, err)
	assert.Equal(t, newID, user.ID)
	m.assertExpectations(t)
}

func TestAccountService_CreateAccount_InvalidInput(t *testing.T) {
	m := newTestMocks()
	svc := NewAccountService(m.factory)

	_, err := svc.CreateAccount(context.Background(), "", "ana@example.org", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateAccount(context.Background(), "Ana", "not-an-email", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	m.factory.AssertNotCalled(t, "Create")
}

func TestAccountService_CreateAccount_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewAccountService(m.factory)

	m.expectTransaction(ctx, false)
	m.userRepo.On("Create", ctx, mock.Anything).Return(ErrConflict)

	_, err := svc.CreateAccount(ctx, "Ana", "ana@example.org", "")

	assert.ErrorIs(t, err, ErrConflict)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestAccountService_GetAccount_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewAccountService(m.factory)
	userID := uuid.New()

	m.expectTransaction(ctx, false)
	m.userRepo.On("GetByID", ctx, userID).Return(nil, nil)

	_, err := svc.GetAccount(ctx, userID)

	assert.ErrorIs(t, err, ErrNotFound)
	m.assertExpectations(t)
}

func TestAccountService_GetTransactions_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewAccountService(m.factory)
	userID := uuid.New()
	txs := []*models.CoinTransaction{{UserID: userID, Amount: 5, Reason: models.ReasonLogRecycling}}

	m.expectTransaction(ctx, false)
	m.userRepo.On("GetByID", ctx, userID).Return(&models.User{ID: userID}, nil)
	m.coinTxRepo.On("GetByUser", ctx, userID, 50).Return(txs, nil)

	result, err := svc.GetTransactions(ctx, userID, 0)

	require.NoError(t, err)
	assert.Equal(t, txs, result)
	m.assertExpectations(t)
}

func TestAccountService_VerifyLedger(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name       string
		balance    int64
		sum        int64
		consistent bool
	}{
		{"matching", 45, 45, true},
		{"drifted", 50, 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMocks()
			svc := NewAccountService(m.factory)

			m.expectTransaction(ctx, false)
			m.userRepo.On("GetByIDForUpdate", ctx, userID).Return(&models.User{ID: userID, EcoCoins: tt.balance}, nil)
			m.coinTxRepo.On("SumByUser", ctx, userID).Return(tt.sum, int64(4), nil)

			audit, err := svc.VerifyLedger(ctx, userID)

			require.NoError(t, err)
			assert.Equal(t, tt.consistent, audit.Consistent())
			assert.Equal(t, int64(4), audit.Transactions)
			m.assertExpectations(t)
		})
	}
}

func TestAccountService_VerifyLedger_SumError(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewAccountService(m.factory)
	userID := uuid.New()

	m.expectTransaction(ctx, false)
	m.userRepo.On("GetByIDForUpdate", ctx, userID).Return(&models.User{ID: userID}, nil)
	m.coinTxRepo.On("SumByUser", ctx, userID).Return(int64(0), int64(0), errors.New("timeout"))

	_, err := svc.VerifyLedger(ctx, userID)

	assert.ErrorContains(t, err, "failed to sum transactions")
}
