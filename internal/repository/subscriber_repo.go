package repository

import (
	"context"

	"bluemoon/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriberRepository stores landing-page waitlist signups, keyed by
// normalized email so repeat submissions are idempotent.
type SubscriberRepository struct {
	db *pgxpool.Pool
}

func NewSubscriberRepository(db *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

func (r *SubscriberRepository) Upsert(ctx context.Context, sub *domain.Subscriber) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO subscribers (email, source)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET source = EXCLUDED.source
		RETURNING created_at
	`, sub.Email, sub.Source).Scan(&sub.CreatedAt)
}

func (r *SubscriberRepository) List(ctx context.Context, limit int) ([]domain.Subscriber, error) {
	rows, err := r.db.Query(ctx, `
		SELECT email, source, created_at
		FROM subscribers ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.Email, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
