package repository

import (
	"context"
	"errors"
	"fmt"

	"ecochampions/database"
	"ecochampions/events"
	"ecochampions/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	coinTxRepo       service.CoinTransactionRepository
	recyclingLogRepo service.RecyclingLogRepository
	projectRepo      service.ProjectRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.coinTxRepo = newCoinTransactionRepositoryWithTx(tx)
	u.recyclingLogRepo = newRecyclingLogRepositoryWithTx(tx)
	u.projectRepo = newProjectRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", mapPgError(err))
	}

	// Flush pending events after successful commit
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil

	// Discard pending events on rollback
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// CoinTransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) CoinTransactionRepository() service.CoinTransactionRepository {
	if u.coinTxRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.coinTxRepo
}

// RecyclingLogRepository returns the recycling log repository for this unit of work
func (u *unitOfWork) RecyclingLogRepository() service.RecyclingLogRepository {
	if u.recyclingLogRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.recyclingLogRepo
}

// ProjectRepository returns the project repository for this unit of work
func (u *unitOfWork) ProjectRepository() service.ProjectRepository {
	if u.projectRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.projectRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
