package service

import (
	"context"
	"time"

	"ecochampions/events"
	"ecochampions/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for balance record access
type UserRepository interface {
	// GetByID retrieves a user, returning nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Create inserts a new user with a zero balance
	Create(ctx context.Context, user *models.User) error

	// AddCoins atomically adds amount to the balance and returns the new balance.
	// Returns nil if the user does not exist.
	AddCoins(ctx context.Context, id uuid.UUID, amount int64) (*int64, error)

	// SetRole stores the denormalized tier
	SetRole(ctx context.Context, id uuid.UUID, role models.Tier) error

	// MarkGuideBonusClaimed flips the one-shot guide flag; returns false if it was already set
	MarkGuideBonusClaimed(ctx context.Context, id uuid.UUID) (bool, error)
}

// CoinTransactionRepository defines the interface for the append-only ledger
type CoinTransactionRepository interface {
	// Append inserts a transaction, filling ID and CreatedAt
	Append(ctx context.Context, tx *models.CoinTransaction) error

	// GetByUser returns a user's transactions, newest first
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CoinTransaction, error)

	// SumByUser returns the sum and count of a user's transaction amounts
	SumByUser(ctx context.Context, userID uuid.UUID) (sum int64, count int64, err error)
}

// RecyclingLogRepository defines the interface for recycling log access
type RecyclingLogRepository interface {
	// Create inserts a log entry
	Create(ctx context.Context, entry *models.RecyclingLog) error

	// CountByUser returns the lifetime number of logs for a user
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// GetByUserSince returns a user's logs created at or after since
	GetByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.RecyclingLog, error)
}

// ProjectRepository defines the interface for project and participation access
type ProjectRepository interface {
	// Create inserts an Active project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project, returning nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// GetByIDForUpdate retrieves a project and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// List returns projects matching the filter, newest first
	List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error)

	// AddCollectedWeight adds to the accumulator and returns the new total
	AddCollectedWeight(ctx context.Context, id uuid.UUID, weight float64) (float64, error)

	// MarkCompleted transitions Active to Completed if the goal is met.
	// Returns true only for the caller that performed the transition.
	MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error)

	// AddParticipation records a contribution
	AddParticipation(ctx context.Context, participation *models.ProjectParticipation) error

	// GetParticipantIDs returns the distinct users that have joined a project
	GetParticipantIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	CoinTransactionRepository() CoinTransactionRepository
	RecyclingLogRepository() RecyclingLogRepository
	ProjectRepository() ProjectRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// RewardEngine credits coins and keeps the ledger and tier in step
type RewardEngine interface {
	// AwardCoins applies one award in its own transaction
	AwardCoins(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*AwardResult, error)
}

// AccountService defines the interface for account lookup and auditing
type AccountService interface {
	// CreateAccount registers a new user with a zero balance
	CreateAccount(ctx context.Context, name, email, community string) (*models.User, error)

	// GetAccount resolves a user record with balance, tier and flags
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetTransactions returns a user's ledger, newest first
	GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CoinTransaction, error)

	// VerifyLedger compares the stored balance against the transaction sum
	VerifyLedger(ctx context.Context, userID uuid.UUID) (*models.LedgerAudit, error)
}

// RecyclingService defines the interface for recycling rewards
type RecyclingService interface {
	// RecordRecyclingLog stores a log and applies the base and streak rewards
	RecordRecyclingLog(ctx context.Context, userID uuid.UUID, material string, weight float64, photoURL string) (*RecyclingResult, error)

	// ClaimGuideBonus awards the one-time guide checklist bonus
	ClaimGuideBonus(ctx context.Context, userID uuid.UUID) (*AwardResult, error)
}

// ProjectService defines the interface for community projects
type ProjectService interface {
	// CreateProject opens a project and rewards its creator
	CreateProject(ctx context.Context, creatorID uuid.UUID, input NewProject) (*models.Project, error)

	// ListProjects returns projects matching the filter
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error)

	// JoinProject records a participation and runs the reward cascade
	JoinProject(ctx context.Context, userID, projectID uuid.UUID, contributedWeight float64) (*JoinProjectResult, error)
}

// TradeService defines the interface for trade rewards
type TradeService interface {
	// FinalizeTrade rewards both parties of a completed trade
	FinalizeTrade(ctx context.Context, callerID, buyerID, sellerID uuid.UUID) (*TradeResult, error)
}
