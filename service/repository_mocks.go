package service

import (
	"context"
	"time"

	"ecochampions/events"
	"ecochampions/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) AddCoins(ctx context.Context, id uuid.UUID, amount int64) (*int64, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id uuid.UUID, role models.Tier) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) MarkGuideBonusClaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCoinTransactionRepository is a mock implementation of CoinTransactionRepository
type MockCoinTransactionRepository struct {
	mock.Mock
}

func (m *MockCoinTransactionRepository) Append(ctx context.Context, tx *models.CoinTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCoinTransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CoinTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CoinTransaction), args.Error(1)
}

func (m *MockCoinTransactionRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockRecyclingLogRepository is a mock implementation of RecyclingLogRepository
type MockRecyclingLogRepository struct {
	mock.Mock
}

func (m *MockRecyclingLogRepository) Create(ctx context.Context, entry *models.RecyclingLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRecyclingLogRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecyclingLogRepository) GetByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.RecyclingLog, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RecyclingLog), args.Error(1)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectRepository) AddCollectedWeight(ctx context.Context, id uuid.UUID, weight float64) (float64, error) {
	args := m.Called(ctx, id, weight)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProjectRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) AddParticipation(ctx context.Context, participation *models.ProjectParticipation) error {
	args := m.Called(ctx, participation)
	return args.Error(0)
}

func (m *MockProjectRepository) GetParticipantIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockRewardEngine is a mock implementation of RewardEngine
type MockRewardEngine struct {
	mock.Mock
}

func (m *MockRewardEngine) AwardCoins(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*AwardResult, error) {
	args := m.Called(ctx, userID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AwardResult), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields so tests only stub the transaction lifecycle.
type MockUnitOfWork struct {
	mock.Mock
	userRepo       UserRepository
	coinTxRepo     CoinTransactionRepository
	recyclingRepo  RecyclingLogRepository
	projectRepo    ProjectRepository
	eventPublisher EventPublisher
}

// SetRepositories wires the repositories returned by the getters. A nil
// publisher is replaced by a no-op one.
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, coinTxRepo CoinTransactionRepository, recyclingRepo RecyclingLogRepository, projectRepo ProjectRepository, publisher EventPublisher) {
	m.userRepo = userRepo
	m.coinTxRepo = coinTxRepo
	m.recyclingRepo = recyclingRepo
	m.projectRepo = projectRepo
	m.eventPublisher = publisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CoinTransactionRepository() CoinTransactionRepository {
	return m.coinTxRepo
}

func (m *MockUnitOfWork) RecyclingLogRepository() RecyclingLogRepository {
	return m.recyclingRepo
}

func (m *MockUnitOfWork) ProjectRepository() ProjectRepository {
	return m.projectRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventPublisher == nil {
		return noopPublisher{}
	}
	return m.eventPublisher
}

type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
