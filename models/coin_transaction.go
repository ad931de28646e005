package models

import (
	"time"

	"github.com/google/uuid"
)

// Reason codes recorded on coin transactions
const (
	ReasonLogRecycling      = "Log Recycling"
	ReasonThirdLogBonus     = "Third Recycling Log Bonus"
	ReasonGuideChecklist    = "Recycling Guide Checklist"
	ReasonCreateProject     = "Create Project"
	ReasonJoinProject       = "Join Project"
	ReasonParticipantJoined = "Participant Joined Project"
	ReasonCompleteProject   = "Complete Project"
	ReasonTradeFinalized    = "EcoTrade Finalized"
	ReasonManualAward       = "Manual Award"
)

// CoinTransaction is an immutable ledger entry. The sum of a user's
// transaction amounts equals their balance.
type CoinTransaction struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Amount    int64     `db:"amount"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

// LedgerAudit compares a stored balance against the ledger it was built from
type LedgerAudit struct {
	UserID         uuid.UUID
	Balance        int64
	TransactionSum int64
	Transactions   int64
}

// Consistent reports whether the balance matches the transaction sum
func (a *LedgerAudit) Consistent() bool {
	return a.Balance == a.TransactionSum
}
