package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform member together with their eco-coin balance
type User struct {
	ID                uuid.UUID `db:"id"`
	Name              string    `db:"name"`
	Email             string    `db:"email"`
	Community         string    `db:"community"`
	EcoCoins          int64     `db:"eco_coins"`
	Role              Tier      `db:"role"` // Denormalized from EcoCoins, see TierFor
	GuideBonusClaimed bool      `db:"guide_bonus_claimed"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// Tier returns the tier derived from the current balance
func (u *User) Tier() Tier {
	return TierFor(u.EcoCoins)
}
