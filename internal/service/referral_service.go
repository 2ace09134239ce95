package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bluemoon/internal/domain"
	"bluemoon/internal/logger"
	"bluemoon/internal/repository"
	"bluemoon/internal/reward"
	"bluemoon/internal/ws"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrServiceNameRequired = errors.New("service name is required")

// ReferralService runs the referral lifecycle: pending referrals are
// qualified once the referred user has used a service, then credited.
// Each transition is a single database transaction; the status update
// is a compare-and-set and the bonus inserts ride the ledger's unique
// indexes, so retries and concurrent admin clicks cannot double-issue.
type ReferralService struct {
	db               *pgxpool.Pool
	transactionRepo  *repository.TransactionRepository
	notificationRepo *repository.NotificationRepository
	hub              *ws.Hub
}

func NewReferralService(db *pgxpool.Pool, hub *ws.Hub) *ReferralService {
	return &ReferralService{
		db:               db,
		transactionRepo:  repository.NewTransactionRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		hub:              hub,
	}
}

// Qualify marks a pending referral qualified for the named service,
// bumps the referrer's qualified count, and issues the one-time welcome
// bonus to the referred user if they have never received one.
func (s *ReferralService) Qualify(ctx context.Context, referralID int64, serviceName string) error {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return ErrServiceNameRequired
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Only a pending referral may qualify; the WHERE clause is the
	// state-machine guard.
	var referrerID, referredID int64
	err = tx.QueryRow(ctx, `
		UPDATE referrals
		SET status = 'qualified', service_used = TRUE, service_name = $2, qualified_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING referrer_id, referred_user_id
	`, referralID, serviceName).Scan(&referrerID, &referredID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.referralStateErr(ctx, referralID)
		}
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET qualified_referrals = qualified_referrals + 1, updated_at = now() WHERE id = $1`,
		referrerID,
	); err != nil {
		return err
	}

	bonusIssued, err := s.transactionRepo.CreateOnceWithTx(ctx, tx, &domain.Transaction{
		UserID:      referredID,
		Type:        domain.TxReferredBonus,
		Amount:      reward.WelcomeBonus,
		Description: fmt.Sprintf("Welcome bonus for first service (%s)", serviceName),
		ReferralID:  &referralID,
	})
	if err != nil {
		return err
	}
	if bonusIssued {
		if _, err := tx.Exec(ctx, `
			UPDATE users
			SET total_earnings = total_earnings + $2, available_balance = available_balance + $2, updated_at = now()
			WHERE id = $1
		`, referredID, reward.WelcomeBonus); err != nil {
			return err
		}
		if err := s.notificationRepo.CreateWithTx(ctx, tx, &domain.Notification{
			UserID: referredID,
			Message: fmt.Sprintf("You earned %s welcome bonus for your first service (%s). Thank you for choosing BlueMoon!",
				FormatNaira(reward.WelcomeBonus), serviceName),
		}); err != nil {
			return err
		}
	}

	if err := s.notificationRepo.CreateWithTx(ctx, tx, &domain.Notification{
		UserID: referrerID,
		Message: fmt.Sprintf("Your referral used BlueMoon services (%s). The referral is now qualified for credit!",
			serviceName),
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info("referral qualified", "referral_id", referralID, "referrer_id", referrerID,
		"service", serviceName, "welcome_bonus", bonusIssued)

	s.hub.Publish(ws.Event{Type: ws.EventReferral, UserID: referrerID})
	s.hub.Publish(ws.Event{Type: ws.EventNotification, UserID: referrerID})
	if bonusIssued {
		s.hub.Publish(ws.Event{Type: ws.EventTransaction, UserID: referredID})
		s.hub.Publish(ws.Event{Type: ws.EventBalance, UserID: referredID})
	}
	return nil
}

// AwardCredit credits a qualified referral: the referrer earns the
// tier reward for their current qualified count, plus the one-time
// milestone bonus when the count sits exactly on the milestone.
func (s *ReferralService) AwardCredit(ctx context.Context, referralID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var referrerID int64
	var status domain.ReferralStatus
	err = tx.QueryRow(ctx,
		`SELECT referrer_id, status FROM referrals WHERE id = $1 FOR UPDATE`,
		referralID,
	).Scan(&referrerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReferralNotFound
		}
		return err
	}
	if status != domain.ReferralStatusQualified {
		return domain.ErrInvalidState
	}

	// The tier reflects the count after the qualify increment: this
	// referral is "referral #N" for the referrer.
	var qualifiedCount int
	err = tx.QueryRow(ctx,
		`SELECT qualified_referrals FROM users WHERE id = $1 FOR UPDATE`,
		referrerID,
	).Scan(&qualifiedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}

	amount := reward.Amount(qualifiedCount)
	if err := s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID:      referrerID,
		Type:        domain.TxReferralReward,
		Amount:      amount,
		Description: fmt.Sprintf("Referral reward (referral #%d)", qualifiedCount),
		ReferralID:  &referralID,
	}); err != nil {
		return err
	}

	totalReward := amount
	milestone := reward.MilestoneBonus(qualifiedCount)
	milestoneIssued := false
	if milestone > 0 {
		milestoneIssued, err = s.transactionRepo.CreateOnceWithTx(ctx, tx, &domain.Transaction{
			UserID:      referrerID,
			Type:        domain.TxMilestoneBonus,
			Amount:      milestone,
			Description: fmt.Sprintf("Milestone bonus for reaching %d referrals!", qualifiedCount),
			ReferralID:  &referralID,
		})
		if err != nil {
			return err
		}
		if milestoneIssued {
			totalReward += milestone
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users
		SET total_earnings = total_earnings + $2, available_balance = available_balance + $2, updated_at = now()
		WHERE id = $1
	`, referrerID, totalReward); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE referrals
		SET status = 'credited', referrer_reward = $2, credited_at = now()
		WHERE id = $1 AND status = 'qualified'
	`, referralID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Row is locked above, so this means the state changed under
		// us in the same transaction; treat as a precondition failure.
		return domain.ErrInvalidState
	}

	msg := fmt.Sprintf("You earned %s for referral #%d!", FormatNaira(amount), qualifiedCount)
	if milestoneIssued {
		msg += fmt.Sprintf(" Plus a %s milestone bonus for reaching %d referrals!",
			FormatNaira(milestone), qualifiedCount)
	}
	if err := s.notificationRepo.CreateWithTx(ctx, tx, &domain.Notification{
		UserID:  referrerID,
		Message: msg,
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info("referral credited", "referral_id", referralID, "referrer_id", referrerID,
		"amount", amount, "milestone", milestoneIssued)

	s.hub.Publish(ws.Event{Type: ws.EventReferral, UserID: referrerID})
	s.hub.Publish(ws.Event{Type: ws.EventTransaction, UserID: referrerID})
	s.hub.Publish(ws.Event{Type: ws.EventBalance, UserID: referrerID})
	s.hub.Publish(ws.Event{Type: ws.EventNotification, UserID: referrerID})
	return nil
}

// referralStateErr distinguishes "no such referral" from "wrong state"
// after a zero-row CAS update.
func (s *ReferralService) referralStateErr(ctx context.Context, referralID int64) error {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM referrals WHERE id = $1)`, referralID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrReferralNotFound
	}
	return domain.ErrInvalidState
}
