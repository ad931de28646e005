package repository

import (
	"context"
	"errors"
	"fmt"

	"ecochampions/database"
	"ecochampions/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, community, eco_coins, role, guide_bonus_claimed, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

// GetByIDForUpdate retrieves a user and holds its row lock until the transaction ends
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", id, mapPgError(err))
	}
	return user, nil
}

// Create inserts a user and fills the generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, community, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, eco_coins, guide_bonus_claimed, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, user.Name, user.Email, user.Community, user.Role).Scan(
		&user.ID,
		&user.EcoCoins,
		&user.GuideBonusClaimed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, mapPgError(err))
	}

	return nil
}

// AddCoins increments the balance in a single statement. The row stays locked
// until the surrounding transaction ends.
func (r *UserRepository) AddCoins(ctx context.Context, id uuid.UUID, amount int64) (*int64, error) {
	query := `
		UPDATE users
		SET eco_coins = eco_coins + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING eco_coins
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add %d coins to user %s: %w", amount, id, mapPgError(err))
	}

	return &balance, nil
}

// SetRole stores the denormalized tier
func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role models.Tier) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("failed to set role for user %s: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	return nil
}

// MarkGuideBonusClaimed sets the guide flag only if it is still false
func (r *UserRepository) MarkGuideBonusClaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE users
		SET guide_bonus_claimed = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT guide_bonus_claimed
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark guide bonus for user %s: %w", id, mapPgError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// scanUser returns nil, nil when the row does not exist
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Community,
		&user.EcoCoins,
		&user.Role,
		&user.GuideBonusClaimed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
