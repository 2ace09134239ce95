package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"bluemoon/internal/domain"
	"bluemoon/internal/logger"
	"bluemoon/internal/repository"
	"bluemoon/internal/ws"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var accountNumberRe = regexp.MustCompile(`^\d{10}$`)

// ValidateBankDetails checks a payout destination before it is saved
// or snapshotted onto a request.
func ValidateBankDetails(bd *domain.BankDetails) error {
	if bd == nil || bd.BankName == "" || bd.AccountName == "" || bd.AccountNumber == "" {
		return domain.ErrMissingBankDetails
	}
	if !accountNumberRe.MatchString(bd.AccountNumber) {
		return domain.ErrBadAccountNumber
	}
	return nil
}

// PayoutService runs the withdrawal workflow. Requesting reserves the
// amount out of available balance immediately; approval issues the
// payment ledger entry and bumps paid_out, rejection restores the
// reserved amount. Both terminal transitions are compare-and-set
// updates so a request is processed at most once.
type PayoutService struct {
	db               *pgxpool.Pool
	transactionRepo  *repository.TransactionRepository
	paymentRepo      *repository.PaymentRepository
	notificationRepo *repository.NotificationRepository
	hub              *ws.Hub
	minWithdrawal    int64
}

func NewPayoutService(db *pgxpool.Pool, hub *ws.Hub, minWithdrawal int64) *PayoutService {
	return &PayoutService{
		db:               db,
		transactionRepo:  repository.NewTransactionRepository(db),
		paymentRepo:      repository.NewPaymentRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		hub:              hub,
		minWithdrawal:    minWithdrawal,
	}
}

// Request reserves amount from the user's available balance and files
// a pending payment request with a snapshot of their bank details.
func (s *PayoutService) Request(ctx context.Context, userID, amount int64) (*domain.PaymentRequest, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if amount < s.minWithdrawal {
		return nil, domain.ErrBelowMinimum
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int64
	var displayName string
	var bankRaw []byte
	err = tx.QueryRow(ctx,
		`SELECT available_balance, display_name, bank_details FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&balance, &displayName, &bankRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var bd domain.BankDetails
	if len(bankRaw) == 0 || json.Unmarshal(bankRaw, &bd) != nil {
		return nil, domain.ErrMissingBankDetails
	}
	if err := ValidateBankDetails(&bd); err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, domain.ErrInsufficientFunds
	}

	// Reserve the funds now; approval must not deduct again.
	if _, err := tx.Exec(ctx,
		`UPDATE users SET available_balance = available_balance - $2, updated_at = now() WHERE id = $1`,
		userID, amount,
	); err != nil {
		return nil, err
	}

	req := &domain.PaymentRequest{
		UserID:      userID,
		UserName:    displayName,
		Amount:      amount,
		BankDetails: bd,
		Status:      domain.PaymentStatusPending,
	}
	if err := s.paymentRepo.CreateWithTx(ctx, tx, req); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info("payout requested", "request_id", req.ID, "user_id", userID, "amount", amount)
	s.hub.Publish(ws.Event{Type: ws.EventPaymentRequest, UserID: userID})
	s.hub.Publish(ws.Event{Type: ws.EventBalance, UserID: userID})
	return req, nil
}

// Approve completes a pending request: one payment ledger entry for
// the amount, paid_out bumped by the same. Available balance was
// already reduced at request time and stays untouched.
func (s *PayoutService) Approve(ctx context.Context, requestID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID, amount int64
	err = tx.QueryRow(ctx, `
		UPDATE payment_requests
		SET status = 'completed', processed_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING user_id, amount
	`, requestID).Scan(&userID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.requestStateErr(ctx, requestID)
		}
		return err
	}

	if err := s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID:      userID,
		Type:        domain.TxPayment,
		Amount:      amount,
		Description: "Withdrawal to bank account",
	}); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET paid_out = paid_out + $2, updated_at = now() WHERE id = $1`,
		userID, amount,
	); err != nil {
		return err
	}

	if err := s.notificationRepo.CreateWithTx(ctx, tx, &domain.Notification{
		UserID: userID,
		Message: fmt.Sprintf("Your payment of %s has been processed and sent to your bank account.",
			FormatNaira(amount)),
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info("payout approved", "request_id", requestID, "user_id", userID, "amount", amount)
	s.hub.Publish(ws.Event{Type: ws.EventPaymentRequest, UserID: userID})
	s.hub.Publish(ws.Event{Type: ws.EventTransaction, UserID: userID})
	s.hub.Publish(ws.Event{Type: ws.EventNotification, UserID: userID})
	return nil
}

// Reject restores the reserved amount to available balance. The
// restoration is deliberately not a ledger entry: the reservation it
// reverses never hit the ledger either, so the ledger still sums to
// the user's earnings and payments.
func (s *PayoutService) Reject(ctx context.Context, requestID int64, note string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID, amount int64
	err = tx.QueryRow(ctx, `
		UPDATE payment_requests
		SET status = 'rejected', admin_note = $2, processed_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING user_id, amount
	`, requestID, note).Scan(&userID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.requestStateErr(ctx, requestID)
		}
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET available_balance = available_balance + $2, updated_at = now() WHERE id = $1`,
		userID, amount,
	); err != nil {
		return err
	}

	msg := fmt.Sprintf("Your payment request of %s was declined.", FormatNaira(amount))
	if note != "" {
		msg += " Reason: " + note
	}
	msg += " Your balance has been restored."
	if err := s.notificationRepo.CreateWithTx(ctx, tx, &domain.Notification{
		UserID:  userID,
		Message: msg,
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info("payout rejected", "request_id", requestID, "user_id", userID, "amount", amount)
	s.hub.Publish(ws.Event{Type: ws.EventPaymentRequest, UserID: userID})
	s.hub.Publish(ws.Event{Type: ws.EventBalance, UserID: userID})
	s.hub.Publish(ws.Event{Type: ws.EventNotification, UserID: userID})
	return nil
}

func (s *PayoutService) requestStateErr(ctx context.Context, requestID int64) error {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM payment_requests WHERE id = $1)`, requestID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrRequestNotFound
	}
	return domain.ErrInvalidState
}
