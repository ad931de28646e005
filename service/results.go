package service

import (
	"ecochampions/models"

	"github.com/google/uuid"
)

// AwardResult describes a committed award
type AwardResult struct {
	UserID        uuid.UUID   `json:"user_id"`
	TransactionID uuid.UUID   `json:"transaction_id"`
	Amount        int64       `json:"amount"`
	Reason        string      `json:"reason"`
	Balance       int64       `json:"balance"`
	Tier          models.Tier `json:"tier"`
	PreviousTier  models.Tier `json:"previous_tier"`
}

// TierChanged returns true if the award moved the user into another tier
func (r *AwardResult) TierChanged() bool {
	return r.Tier != r.PreviousTier
}

// AwardOutcome is the result of one secondary award within a cascade
type AwardOutcome struct {
	UserID uuid.UUID    `json:"user_id"`
	Amount int64        `json:"amount"`
	Reason string       `json:"reason"`
	Result *AwardResult `json:"result,omitempty"`
	Err    error        `json:"-"`
}

// Succeeded returns true if the award was committed
func (o AwardOutcome) Succeeded() bool {
	return o.Err == nil
}

// RecyclingResult is returned after a recycling log is recorded
type RecyclingResult struct {
	Log         *models.RecyclingLog     `json:"log"`
	Balance     int64                    `json:"balance"`
	Tier        models.Tier              `json:"tier"`
	LogCount    int64                    `json:"log_count"`
	StreakBonus bool                     `json:"streak_bonus"`
	Monthly     models.MonthlyAggregates `json:"monthly"`
}

// NewProject holds the fields needed to open a project
type NewProject struct {
	Title        string
	Description  string
	GoalMaterial string
	GoalWeight   float64
	DaysLeft     int
}

// JoinProjectResult is returned after a participation is recorded
type JoinProjectResult struct {
	ProjectID       uuid.UUID            `json:"project_id"`
	Status          models.ProjectStatus `json:"status"`
	CollectedWeight float64              `json:"collected_weight"`
	GoalWeight      float64              `json:"goal_weight"`
	Participant     *AwardResult         `json:"participant"`
	// Completed is true only for the participation that completed the project
	Completed bool           `json:"completed"`
	Outcomes  []AwardOutcome `json:"outcomes"`
}

// TradeResult is returned after a trade is finalized
type TradeResult struct {
	BuyerID       uuid.UUID      `json:"buyer_id"`
	SellerID      uuid.UUID      `json:"seller_id"`
	BuyerBalance  int64          `json:"buyer_balance"`
	SellerBalance int64          `json:"seller_balance"`
	Outcomes      []AwardOutcome `json:"outcomes"`
}
