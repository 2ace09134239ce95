package domain

import "time"

// PaymentStatus is the payout request state. pending is the only
// non-terminal state; there is no resubmission of the same request.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// PaymentRequest is a withdrawal against available balance. The amount
// is reserved (deducted from available_balance) when the request is
// created; approval issues the payment ledger entry, rejection restores
// the reserved amount.
type PaymentRequest struct {
	ID          int64         `db:"id" json:"id"`
	UserID      int64         `db:"user_id" json:"user_id"`
	UserName    string        `db:"user_name" json:"user_name"`
	Amount      int64         `db:"amount" json:"amount"`
	BankDetails BankDetails   `db:"bank_details" json:"bank_details"`
	Status      PaymentStatus `db:"status" json:"status"`
	AdminNote   string        `db:"admin_note" json:"admin_note,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time    `db:"processed_at" json:"processed_at,omitempty"`
}
