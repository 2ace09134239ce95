package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminService provides console statistics
type AdminService struct {
	db *pgxpool.Pool
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{db: db}
}

// Stats represents program-wide statistics for the admin console
type Stats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalReferrals     int64 `json:"total_referrals"`
	QualifiedReferrals int64 `json:"qualified_referrals"` // qualified or credited
	CreditedReferrals  int64 `json:"credited_referrals"`
	PendingPayments    int64 `json:"pending_payments"`
	TotalEarnings      int64 `json:"total_earnings"` // sum over all users
	TotalPaidOut       int64 `json:"total_paid_out"`
	WaitlistSize       int64 `json:"waitlist_size"`
}

// GetStats returns program statistics
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers)

	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status <> 'pending'),
		       COUNT(*) FILTER (WHERE status = 'credited')
		FROM referrals
	`).Scan(&stats.TotalReferrals, &stats.QualifiedReferrals, &stats.CreditedReferrals)

	_ = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_requests WHERE status = 'pending'`,
	).Scan(&stats.PendingPayments)

	_ = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_earnings), 0), COALESCE(SUM(paid_out), 0) FROM users`,
	).Scan(&stats.TotalEarnings, &stats.TotalPaidOut)

	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&stats.WaitlistSize)

	return stats, nil
}
