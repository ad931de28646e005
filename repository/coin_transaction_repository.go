package repository

import (
	"context"
	"fmt"

	"ecochampions/database"
	"ecochampions/models"

	"github.com/google/uuid"
)

// CoinTransactionRepository implements the CoinTransactionRepository interface
type CoinTransactionRepository struct {
	q queryable
}

// NewCoinTransactionRepository creates a new coin transaction repository
func NewCoinTransactionRepository(db *database.DB) *CoinTransactionRepository {
	return &CoinTransactionRepository{q: db.Pool}
}

// newCoinTransactionRepositoryWithTx creates a new coin transaction repository with a transaction
func newCoinTransactionRepositoryWithTx(tx queryable) *CoinTransactionRepository {
	return &CoinTransactionRepository{q: tx}
}

// Append inserts a ledger entry. Entries are never updated or deleted.
func (r *CoinTransactionRepository) Append(ctx context.Context, tx *models.CoinTransaction) error {
	query := `
		INSERT INTO coin_transactions (user_id, amount, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, tx.UserID, tx.Amount, tx.Reason).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append transaction for user %s: %w", tx.UserID, mapPgError(err))
	}

	return nil
}

// GetByUser returns a user's transactions, newest first
func (r *CoinTransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CoinTransaction, error) {
	query := `
		SELECT id, user_id, amount, reason, created_at
		FROM coin_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txs []*models.CoinTransaction
	for rows.Next() {
		var tx models.CoinTransaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Reason, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// SumByUser returns the total and number of a user's ledger entries
func (r *CoinTransactionRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::BIGINT, COUNT(*) FROM coin_transactions WHERE user_id = $1`

	var sum, count int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}

	return sum, count, nil
}
