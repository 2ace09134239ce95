package repository

import (
	"context"

	"bluemoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only ledger. Rows are inserted,
// never updated or deleted.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByUserID returns recent ledger entries for a user
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, description, referral_id, status, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByUserIDAndType returns ledger entries filtered by type
func (r *TransactionRepository) GetByUserIDAndType(ctx context.Context, userID int64, txType domain.TransactionType, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, description, referral_id, status, created_at
		 FROM transactions
		 WHERE user_id = $1 AND type = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID, txType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CreateWithTx appends a ledger entry using an existing database transaction
func (r *TransactionRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, tx *domain.Transaction) error {
	return dbTx.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, description, referral_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		tx.UserID, tx.Type, tx.Amount, tx.Description, tx.ReferralID, domain.TxStatusCompleted,
	).Scan(&tx.ID, &tx.CreatedAt)
}

// CreateOnceWithTx appends a referred_bonus or milestone_bonus entry.
// The partial unique indexes on (user_id, type) make the insert an
// atomic at-most-once guard: a duplicate no-ops and returns false.
func (r *TransactionRepository) CreateOnceWithTx(ctx context.Context, dbTx pgx.Tx, tx *domain.Transaction) (bool, error) {
	tag, err := dbTx.Exec(ctx,
		`INSERT INTO transactions (user_id, type, amount, description, referral_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT DO NOTHING`,
		tx.UserID, tx.Type, tx.Amount, tx.Description, tx.ReferralID, domain.TxStatusCompleted,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SumByUser returns the all-time credit total for a user, used to
// cross-check the denormalized total_earnings projection.
func (r *TransactionRepository) SumByUser(ctx context.Context, userID int64) (credits, debits int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type <> 'payment'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'payment'), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID).Scan(&credits, &debits)
	return credits, debits, err
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Description,
			&tx.ReferralID, &tx.Status, &tx.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}
