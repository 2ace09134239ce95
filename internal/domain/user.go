package domain

import "time"

// User is a BlueMoon account. Monetary fields are in naira and are
// denormalized projections of the transactions ledger: they are only
// mutated inside the same database transaction as the paired ledger
// write (or payout reserve/refund).
type User struct {
	ID                 int64        `db:"id" json:"id"`
	Email              string       `db:"email" json:"email,omitempty"`
	Phone              string       `db:"phone" json:"phone,omitempty"`
	DisplayName        string       `db:"display_name" json:"display_name"`
	ReferralCode       string       `db:"referral_code" json:"referral_code"`
	ReferredBy         string       `db:"referred_by" json:"referred_by,omitempty"`
	TotalReferrals     int          `db:"total_referrals" json:"total_referrals"`
	QualifiedReferrals int          `db:"qualified_referrals" json:"qualified_referrals"`
	TotalEarnings      int64        `db:"total_earnings" json:"total_earnings"`
	AvailableBalance   int64        `db:"available_balance" json:"available_balance"`
	PaidOut            int64        `db:"paid_out" json:"paid_out"`
	BankDetails        *BankDetails `db:"bank_details" json:"bank_details,omitempty"`
	IsAdmin            bool         `db:"is_admin" json:"is_admin"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// BankDetails is the payout destination saved on the user and
// snapshotted onto each payment request at request time.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// Subscriber is a landing-page waitlist signup.
type Subscriber struct {
	Email     string    `db:"email" json:"email"`
	Source    string    `db:"source" json:"source,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
