package domain

import "errors"

// Validation errors: rejected before any write, no state change.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrBelowMinimum       = errors.New("amount below minimum withdrawal")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrMissingBankDetails = errors.New("bank details not saved")
	ErrBadAccountNumber   = errors.New("account number must be 10 digits")
)

// Precondition errors: the record exists but is not in a state that
// permits the operation. The operation aborts with nothing written.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrReferralNotFound = errors.New("referral not found")
	ErrRequestNotFound  = errors.New("payment request not found")
	ErrInvalidState     = errors.New("operation not valid in current state")
)
