package repository

import (
	"context"
	"errors"

	"bluemoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const referralColumns = `id, referrer_id, referrer_name, referred_user_id, referred_name,
	referred_email, referred_phone, referral_code, status, service_used, service_name,
	referrer_reward, created_at, qualified_at, credited_at`

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) GetByID(ctx context.Context, id int64) (*domain.Referral, error) {
	row := r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1`, id)
	return scanReferral(row)
}

// CreateWithTx inserts a referral inside an existing database
// transaction. A user can only be referred once; a conflicting insert
// no-ops and returns false.
func (r *ReferralRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, ref *domain.Referral) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO referrals (referrer_id, referrer_name, referred_user_id, referred_name,
			referred_email, referred_phone, referral_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (referred_user_id) DO NOTHING
	`, ref.ReferrerID, ref.ReferrerName, ref.ReferredUserID, ref.ReferredName,
		ref.ReferredEmail, ref.ReferredPhone, ref.ReferralCode, domain.ReferralStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID int64, limit int) ([]domain.Referral, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+referralColumns+` FROM referrals
		 WHERE referrer_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		referrerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReferrals(rows)
}

func (r *ReferralRepository) ListAll(ctx context.Context, limit int) ([]domain.Referral, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+referralColumns+` FROM referrals ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReferrals(rows)
}

func scanReferral(row pgx.Row) (*domain.Referral, error) {
	var ref domain.Referral
	err := row.Scan(
		&ref.ID, &ref.ReferrerID, &ref.ReferrerName, &ref.ReferredUserID, &ref.ReferredName,
		&ref.ReferredEmail, &ref.ReferredPhone, &ref.ReferralCode, &ref.Status, &ref.ServiceUsed,
		&ref.ServiceName, &ref.ReferrerReward, &ref.CreatedAt, &ref.QualifiedAt, &ref.CreditedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReferralNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func scanReferrals(rows pgx.Rows) ([]domain.Referral, error) {
	var refs []domain.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, *ref)
	}
	return refs, rows.Err()
}
