package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bluemoon/internal/domain"
	"bluemoon/internal/repository"
	"bluemoon/internal/reward"
	"bluemoon/internal/service"
)

func applyMigrationsToPool(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	os.Setenv("JWT_SECRET", "test-secret")

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(dbp.Close)

	applyMigrationsToPool(t, dbp)
	return dbp
}

func registerUser(t *testing.T, auth *service.AuthService, name, refCode string) *domain.User {
	t.Helper()
	email := fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano())
	u, err := auth.Register(context.Background(), service.RegisterInput{
		Email:        email,
		Password:     "secret123",
		DisplayName:  name,
		ReferralCode: refCode,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

// Full workflow: signup with a referral code, qualify, credit the
// referrer, then run a withdrawal through reject and approve. At every
// step the denormalized balance columns must agree with the ledger.
func TestReferralLedgerWorkflow(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(dbp)
	referrals := repository.NewReferralRepository(dbp)
	txs := repository.NewTransactionRepository(dbp)

	auth := service.NewAuthService(dbp, nil)
	refSvc := service.NewReferralService(dbp, nil)
	paySvc := service.NewPayoutService(dbp, nil, reward.MinWithdrawal)

	referrer := registerUser(t, auth, "referrer", "")
	referred := registerUser(t, auth, "referred", referrer.ReferralCode)

	// Signup created a pending referral and bumped the counter
	list, err := referrals.ListByReferrer(ctx, referrer.ID, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("want 1 referral, got %d (err %v)", len(list), err)
	}
	ref := list[0]
	if ref.Status != domain.ReferralStatusPending {
		t.Fatalf("want pending referral, got %s", ref.Status)
	}
	if ref.ReferredUserID != referred.ID {
		t.Fatalf("referral points at user %d, want %d", ref.ReferredUserID, referred.ID)
	}

	u, err := users.GetByID(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get referrer: %v", err)
	}
	if u.TotalReferrals != 1 || u.QualifiedReferrals != 0 {
		t.Fatalf("counters after signup: total=%d qualified=%d", u.TotalReferrals, u.QualifiedReferrals)
	}

	// Qualify: referred gets the one-time welcome bonus
	if err := refSvc.Qualify(ctx, ref.ID, "Wash & Fold"); err != nil {
		t.Fatalf("qualify: %v", err)
	}
	if err := refSvc.Qualify(ctx, ref.ID, "Wash & Fold"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second qualify: want ErrInvalidState, got %v", err)
	}

	rb, err := users.GetByID(ctx, ref.ReferredUserID)
	if err != nil {
		t.Fatalf("get referred: %v", err)
	}
	if rb.AvailableBalance != reward.WelcomeBonus {
		t.Fatalf("welcome bonus: want %d, got %d", reward.WelcomeBonus, rb.AvailableBalance)
	}

	// Credit: first qualified referral pays the base tier
	if err := refSvc.AwardCredit(ctx, ref.ID); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := refSvc.AwardCredit(ctx, ref.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second credit: want ErrInvalidState, got %v", err)
	}

	u, _ = users.GetByID(ctx, referrer.ID)
	if u.AvailableBalance != reward.TierA || u.TotalEarnings != reward.TierA {
		t.Fatalf("after credit: balance=%d earnings=%d", u.AvailableBalance, u.TotalEarnings)
	}

	got, err := referrals.GetByID(ctx, ref.ID)
	if err != nil {
		t.Fatalf("get referral: %v", err)
	}
	if got.Status != domain.ReferralStatusCredited || got.ReferrerReward != reward.TierA {
		t.Fatalf("credited referral: status=%s reward=%d", got.Status, got.ReferrerReward)
	}

	credits, debits, err := txs.SumByUser(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	if credits != u.TotalEarnings || debits != u.PaidOut {
		t.Fatalf("ledger mismatch: credits=%d earnings=%d debits=%d paid_out=%d",
			credits, u.TotalEarnings, debits, u.PaidOut)
	}

	// Withdrawals need bank details on file
	amount := reward.TierA - 500
	if _, err := paySvc.Request(ctx, referrer.ID, amount); !errors.Is(err, domain.ErrMissingBankDetails) {
		t.Fatalf("payout without bank details: want ErrMissingBankDetails, got %v", err)
	}
	bd := domain.BankDetails{BankName: "GTBank", AccountNumber: "0123456789", AccountName: "Referrer Test"}
	if err := users.UpdateBankDetails(ctx, referrer.ID, bd); err != nil {
		t.Fatalf("save bank details: %v", err)
	}

	// Request reserves the amount
	p, err := paySvc.Request(ctx, referrer.ID, amount)
	if err != nil {
		t.Fatalf("payout request: %v", err)
	}
	u, _ = users.GetByID(ctx, referrer.ID)
	if u.AvailableBalance != reward.TierA-amount {
		t.Fatalf("after request: balance=%d", u.AvailableBalance)
	}

	// Reject restores it
	if err := paySvc.Reject(ctx, p.ID, "account name mismatch"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := paySvc.Approve(ctx, p.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("approve rejected request: want ErrInvalidState, got %v", err)
	}
	u, _ = users.GetByID(ctx, referrer.ID)
	if u.AvailableBalance != reward.TierA {
		t.Fatalf("after reject: balance=%d", u.AvailableBalance)
	}

	// Request again and approve: debit lands in the ledger
	p, err = paySvc.Request(ctx, referrer.ID, amount)
	if err != nil {
		t.Fatalf("second payout request: %v", err)
	}
	if err := paySvc.Approve(ctx, p.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	u, _ = users.GetByID(ctx, referrer.ID)
	if u.PaidOut != amount || u.AvailableBalance != reward.TierA-amount {
		t.Fatalf("after approve: paid_out=%d balance=%d", u.PaidOut, u.AvailableBalance)
	}

	credits, debits, err = txs.SumByUser(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	if credits != u.TotalEarnings || debits != u.PaidOut || credits-debits != u.AvailableBalance {
		t.Fatalf("final ledger mismatch: credits=%d debits=%d earnings=%d paid_out=%d balance=%d",
			credits, debits, u.TotalEarnings, u.PaidOut, u.AvailableBalance)
	}
}

// At exactly ten qualified referrals, crediting pays the higher tier
// plus the one-time milestone bonus. Crediting another referral at the
// same count pays the tier again but never the bonus.
func TestMilestoneCredit(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(dbp)
	referrals := repository.NewReferralRepository(dbp)
	txs := repository.NewTransactionRepository(dbp)

	auth := service.NewAuthService(dbp, nil)
	refSvc := service.NewReferralService(dbp, nil)

	referrer := registerUser(t, auth, "milestone-referrer", "")
	for i := 0; i < reward.MilestoneCount; i++ {
		registerUser(t, auth, fmt.Sprintf("milestone-friend-%d", i), referrer.ReferralCode)
	}

	list, err := referrals.ListByReferrer(ctx, referrer.ID, reward.MilestoneCount)
	if err != nil || len(list) != reward.MilestoneCount {
		t.Fatalf("want %d referrals, got %d (err %v)", reward.MilestoneCount, len(list), err)
	}
	for _, ref := range list {
		if err := refSvc.Qualify(ctx, ref.ID, "Dry Cleaning"); err != nil {
			t.Fatalf("qualify %d: %v", ref.ID, err)
		}
	}

	u, err := users.GetByID(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get referrer: %v", err)
	}
	if u.QualifiedReferrals != reward.MilestoneCount {
		t.Fatalf("qualified count: want %d, got %d", reward.MilestoneCount, u.QualifiedReferrals)
	}

	// First credit at the milestone: tier B plus the bonus
	if err := refSvc.AwardCredit(ctx, list[0].ID); err != nil {
		t.Fatalf("credit at milestone: %v", err)
	}
	u, _ = users.GetByID(ctx, referrer.ID)
	want := reward.TierB + reward.Milestone
	if u.TotalEarnings != want || u.AvailableBalance != want {
		t.Fatalf("after milestone credit: earnings=%d balance=%d, want %d", u.TotalEarnings, u.AvailableBalance, want)
	}

	ref, err := referrals.GetByID(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("get referral: %v", err)
	}
	if ref.ReferrerReward != reward.TierB {
		t.Fatalf("referrer reward: want %d, got %d", reward.TierB, ref.ReferrerReward)
	}

	// Second credit at the same count: tier only, bonus stays one-time
	if err := refSvc.AwardCredit(ctx, list[1].ID); err != nil {
		t.Fatalf("second credit: %v", err)
	}
	u, _ = users.GetByID(ctx, referrer.ID)
	want += reward.TierB
	if u.TotalEarnings != want || u.AvailableBalance != want {
		t.Fatalf("after second credit: earnings=%d balance=%d, want %d", u.TotalEarnings, u.AvailableBalance, want)
	}

	milestones, err := txs.GetByUserIDAndType(ctx, referrer.ID, domain.TxMilestoneBonus, 10)
	if err != nil {
		t.Fatalf("list milestone transactions: %v", err)
	}
	if len(milestones) != 1 {
		t.Fatalf("milestone bonus rows: want 1, got %d", len(milestones))
	}
	rewards, err := txs.GetByUserIDAndType(ctx, referrer.ID, domain.TxReferralReward, 10)
	if err != nil {
		t.Fatalf("list reward transactions: %v", err)
	}
	if len(rewards) != 2 {
		t.Fatalf("referral reward rows: want 2, got %d", len(rewards))
	}

	// The ledger rows themselves must sum to the balance columns
	all, err := txs.GetByUserID(ctx, referrer.ID, 50)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	var credits, debits int64
	for _, tr := range all {
		if tr.Type.IsCredit() {
			credits += tr.Amount
		} else {
			debits += tr.Amount
		}
	}
	if credits != u.TotalEarnings || debits != u.PaidOut {
		t.Fatalf("ledger rows: credits=%d debits=%d, user earnings=%d paid_out=%d",
			credits, debits, u.TotalEarnings, u.PaidOut)
	}
}

// A second signup with the same email loses the unique-constraint race
// and surfaces as ErrEmailTaken, never as a raw database error.
func TestDuplicateEmailRegistration(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	auth := service.NewAuthService(dbp, nil)

	email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())
	in := service.RegisterInput{Email: email, Password: "secret123", DisplayName: "First"}
	if _, err := auth.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in.DisplayName = "Second"
	if _, err := auth.Register(ctx, in); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("second register: want ErrEmailTaken, got %v", err)
	}
}

// Below the minimum and above the balance both refuse before touching
// any rows.
func TestPayoutValidation(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	auth := service.NewAuthService(dbp, nil)
	paySvc := service.NewPayoutService(dbp, nil, reward.MinWithdrawal)

	u := registerUser(t, auth, "payout-validation", "")

	if _, err := paySvc.Request(ctx, u.ID, 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero amount: want ErrInvalidAmount, got %v", err)
	}
	if _, err := paySvc.Request(ctx, u.ID, reward.MinWithdrawal-1); !errors.Is(err, domain.ErrBelowMinimum) {
		t.Fatalf("below minimum: want ErrBelowMinimum, got %v", err)
	}

	users := repository.NewUserRepository(dbp)
	bd := domain.BankDetails{BankName: "GTBank", AccountNumber: "0123456789", AccountName: "Payout Test"}
	if err := users.UpdateBankDetails(ctx, u.ID, bd); err != nil {
		t.Fatalf("save bank details: %v", err)
	}
	if _, err := paySvc.Request(ctx, u.ID, reward.MinWithdrawal); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("insufficient funds: want ErrInsufficientFunds, got %v", err)
	}
}
