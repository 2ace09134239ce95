package repository

import (
	"context"
	"encoding/json"
	"errors"

	"bluemoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id, user_id, user_name, amount, bank_details, status, admin_note, created_at, processed_at`

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.PaymentRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_requests WHERE id = $1`, id)
	return scanPayment(row)
}

// CreateWithTx inserts a pending payment request with the bank details
// snapshot, inside the same transaction that reserves the balance.
func (r *PaymentRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, p *domain.PaymentRequest) error {
	raw, err := json.Marshal(p.BankDetails)
	if err != nil {
		return err
	}
	return tx.QueryRow(ctx, `
		INSERT INTO payment_requests (user_id, user_name, amount, bank_details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.UserID, p.UserName, p.Amount, raw, domain.PaymentStatusPending).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.PaymentRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

func (r *PaymentRepository) ListAll(ctx context.Context, limit int) ([]domain.PaymentRequest, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

func scanPayment(row pgx.Row) (*domain.PaymentRequest, error) {
	var p domain.PaymentRequest
	var bankRaw []byte

	err := row.Scan(&p.ID, &p.UserID, &p.UserName, &p.Amount, &bankRaw,
		&p.Status, &p.AdminNote, &p.CreatedAt, &p.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if len(bankRaw) > 0 {
		_ = json.Unmarshal(bankRaw, &p.BankDetails)
	}
	return &p, nil
}

func scanPayments(rows pgx.Rows) ([]domain.PaymentRequest, error) {
	var result []domain.PaymentRequest
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
