package domain

import "time"

// ReferralStatus is the referral lifecycle state. Transitions only move
// forward: pending -> qualified -> credited.
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusQualified ReferralStatus = "qualified"
	ReferralStatusCredited  ReferralStatus = "credited"
)

// Referral links a referrer to a referred user. Display names and
// contacts are denormalized at creation time so admin and dashboard
// listings don't need joins against users.
type Referral struct {
	ID             int64          `db:"id" json:"id"`
	ReferrerID     int64          `db:"referrer_id" json:"referrer_id"`
	ReferrerName   string         `db:"referrer_name" json:"referrer_name"`
	ReferredUserID int64          `db:"referred_user_id" json:"referred_user_id"`
	ReferredName   string         `db:"referred_name" json:"referred_name"`
	ReferredEmail  string         `db:"referred_email" json:"referred_email,omitempty"`
	ReferredPhone  string         `db:"referred_phone" json:"referred_phone,omitempty"`
	ReferralCode   string         `db:"referral_code" json:"referral_code"`
	Status         ReferralStatus `db:"status" json:"status"`
	ServiceUsed    bool           `db:"service_used" json:"service_used"`
	ServiceName    string         `db:"service_name" json:"service_name,omitempty"`
	ReferrerReward int64          `db:"referrer_reward" json:"referrer_reward"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	QualifiedAt    *time.Time     `db:"qualified_at" json:"qualified_at,omitempty"`
	CreditedAt     *time.Time     `db:"credited_at" json:"credited_at,omitempty"`
}
