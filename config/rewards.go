package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Rewards holds the coin amount paid by each reward rule
type Rewards struct {
	LogRecycling      int64 `toml:"log_recycling"`
	StreakBonus       int64 `toml:"streak_bonus"`
	StreakEvery       int64 `toml:"streak_every"`
	GuideChecklist    int64 `toml:"guide_checklist"`
	CreateProject     int64 `toml:"create_project"`
	JoinProject       int64 `toml:"join_project"`
	ParticipantJoined int64 `toml:"participant_joined"`
	CompleteProject   int64 `toml:"complete_project"`
	TradeFinalized    int64 `toml:"trade_finalized"`
}

// DefaultRewards returns the standard payout table
func DefaultRewards() Rewards {
	return Rewards{
		LogRecycling:      5,
		StreakBonus:       15,
		StreakEvery:       3,
		GuideChecklist:    5,
		CreateProject:     10,
		JoinProject:       10,
		ParticipantJoined: 5,
		CompleteProject:   20,
		TradeFinalized:    50,
	}
}

// LoadRewards reads a TOML rewards file. Keys missing from the file keep
// their default amounts.
func LoadRewards(path string) (Rewards, error) {
	rewards := DefaultRewards()
	if _, err := toml.DecodeFile(path, &rewards); err != nil {
		return Rewards{}, fmt.Errorf("failed to parse rewards file %s: %w", path, err)
	}
	if err := rewards.Validate(); err != nil {
		return Rewards{}, fmt.Errorf("invalid rewards file %s: %w", path, err)
	}
	return rewards, nil
}

// Validate rejects payout tables that would debit users or break the streak rule
func (r Rewards) Validate() error {
	amounts := map[string]int64{
		"log_recycling":      r.LogRecycling,
		"streak_bonus":       r.StreakBonus,
		"guide_checklist":    r.GuideChecklist,
		"create_project":     r.CreateProject,
		"join_project":       r.JoinProject,
		"participant_joined": r.ParticipantJoined,
		"complete_project":   r.CompleteProject,
		"trade_finalized":    r.TradeFinalized,
	}
	for key, amount := range amounts {
		if amount <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, amount)
		}
	}
	if r.StreakEvery <= 0 {
		return fmt.Errorf("streak_every must be positive, got %d", r.StreakEvery)
	}
	return nil
}
