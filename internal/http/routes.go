package http

import (
	"os"
	"strconv"
	"time"

	"bluemoon/internal/config"
	"bluemoon/internal/http/handlers"
	"bluemoon/internal/http/middleware"
	"bluemoon/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, hub, handlers.HandlerConfig{
		BaseURL:       cfg.AppBaseURL,
		MinWithdrawal: cfg.MinWithdrawal,
	})
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Public
	v1.POST("/auth/register", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Register)
	v1.POST("/auth/login", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Login)
	v1.POST("/waitlist", middleware.SimpleRateLimit(10, time.Minute), h.JoinWaitlist)
	v1.GET("/referral/validate", h.ValidateReferralCode)

	// Profile and dashboard
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.PATCH("/me", middleware.JWT(), h.UpdateProfile)
	v1.GET("/me/balance", middleware.JWT(), h.Balance)
	v1.PUT("/me/bank-details", middleware.JWT(), h.SaveBankDetails)
	v1.GET("/me/referrals", middleware.JWT(), h.MyReferrals)
	v1.GET("/me/transactions", middleware.JWT(), h.MyTransactions)
	v1.GET("/me/notifications", middleware.JWT(), h.MyNotifications)
	v1.POST("/me/notifications/read", middleware.JWT(), h.MarkNotificationsRead)
	v1.GET("/payouts", middleware.JWT(), h.MyPayouts)

	// Referral sharing
	referral := v1.Group("/referral")
	referral.Use(middleware.JWT())
	{
		referral.GET("/code", h.GetReferralCode)
		referral.GET("/link", h.GetReferralLink)
		referral.GET("/stats", h.MyReferralStats)
	}

	// Withdrawals (per-user rate limited)
	payoutRL := middleware.PayoutRateLimit(5, time.Hour)
	v1.POST("/payouts", middleware.JWT(), payoutRL, h.RequestPayout)

	// Admin console
	admin := v1.Group("/admin")
	admin.Use(middleware.JWT(), middleware.Admin(h.UserRepo))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminUsers)
		admin.GET("/referrals", h.AdminReferrals)
		admin.GET("/payouts", h.AdminPayouts)
		admin.GET("/waitlist", h.AdminWaitlist)
		admin.POST("/users/:id/promote", h.AdminPromote)
		admin.POST("/referrals/:id/qualify", h.AdminQualifyReferral)
		admin.POST("/referrals/:id/credit", h.AdminCreditReferral)
		admin.POST("/payouts/:id/approve", h.AdminApprovePayout)
		admin.POST("/payouts/:id/reject", h.AdminRejectPayout)
	}

	// WebSocket for live dashboard updates
	r.GET("/ws", h.WS(hub))
}
