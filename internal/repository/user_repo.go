package repository

import (
	"context"
	"encoding/json"
	"errors"

	"bluemoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, COALESCE(email, ''), phone, display_name, referral_code, referred_by,
	total_referrals, qualified_referrals, total_earnings, available_balance, paid_out,
	bank_details, is_admin, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByReferralCode resolves a referral code to its owner. Returns
// ErrUserNotFound when the code does not exist.
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	return scanUser(row)
}

// GetCredentials returns the id and password hash for a login attempt.
func (r *UserRepository) GetCredentials(ctx context.Context, email string) (int64, string, error) {
	var id int64
	var hash string
	err := r.db.QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", domain.ErrUserNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

// CodeExists reports whether a referral code is already taken.
func (r *UserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)`,
		code,
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, displayName, phone string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET display_name = $2, phone = $3, updated_at = now() WHERE id = $1`,
		id, displayName, phone,
	)
	return err
}

func (r *UserRepository) UpdateBankDetails(ctx context.Context, id int64, bd domain.BankDetails) error {
	raw, err := json.Marshal(bd)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`UPDATE users SET bank_details = $2, updated_at = now() WHERE id = $1`,
		id, raw,
	)
	return err
}

// SetAdmin promotes a user to admin. There is no demotion path.
func (r *UserRepository) SetAdmin(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_admin = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRow(ctx, `SELECT is_admin FROM users WHERE id = $1`, id).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrUserNotFound
		}
		return false, err
	}
	return isAdmin, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var bankRaw []byte

	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.DisplayName, &u.ReferralCode, &u.ReferredBy,
		&u.TotalReferrals, &u.QualifiedReferrals, &u.TotalEarnings, &u.AvailableBalance, &u.PaidOut,
		&bankRaw, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if len(bankRaw) > 0 {
		var bd domain.BankDetails
		if err := json.Unmarshal(bankRaw, &bd); err == nil {
			u.BankDetails = &bd
		}
	}
	return &u, nil
}
