// Package reward holds the referral reward policy: pure functions of
// the referrer's qualified-referral count at crediting time. Amounts
// are in naira.
package reward

const (
	// TierA is the per-referral reward below TierThreshold qualified referrals.
	TierA int64 = 2000
	// TierB is the per-referral reward at TierThreshold or more.
	TierB int64 = 3000
	// TierThreshold is the qualified count at which TierB kicks in.
	TierThreshold = 5

	// Milestone is the one-time bonus paid when the qualified count
	// lands exactly on MilestoneCount.
	Milestone      int64 = 10000
	MilestoneCount       = 10

	// WelcomeBonus is the one-time bonus for a referred user's first
	// qualified service.
	WelcomeBonus int64 = 500

	// MinWithdrawal is the smallest payout amount a user may request.
	MinWithdrawal int64 = 1000
)

// Amount returns the reward credited to the referrer for one referral,
// given the referrer's qualified-referral count after the qualify
// increment ("this is referral #N").
func Amount(qualifiedCount int) int64 {
	if qualifiedCount >= TierThreshold {
		return TierB
	}
	return TierA
}

// MilestoneBonus returns the one-time milestone bonus, nonzero only
// when the qualified count equals the milestone exactly. Reaching 11
// later does not re-trigger it; issuance is additionally guarded by a
// unique index on the ledger.
func MilestoneBonus(qualifiedCount int) int64 {
	if qualifiedCount == MilestoneCount {
		return Milestone
	}
	return 0
}
