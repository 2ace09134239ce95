package domain

import "time"

// TransactionType classifies ledger entries. The first three are
// credits, payment is a debit.
type TransactionType string

const (
	TxReferralReward TransactionType = "referral_reward"
	TxReferredBonus  TransactionType = "referred_bonus"
	TxMilestoneBonus TransactionType = "milestone_bonus"
	TxPayment        TransactionType = "payment"
)

// IsCredit reports whether the type increases a user's balance.
func (t TransactionType) IsCredit() bool { return t != TxPayment }

// Transaction is one append-only ledger entry. Rows are never updated
// or deleted; every change to a user's earnings/paid-out totals must be
// backed by exactly one of these.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      int64           `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	ReferralID  *int64          `db:"referral_id" json:"referral_id,omitempty"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// TxStatusCompleted is the only transaction status written today;
// kept a column so a future pending/reversed state doesn't need a
// schema change.
const TxStatusCompleted = "completed"
