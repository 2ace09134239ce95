package handlers

import (
	"errors"
	"net/http"

	"bluemoon/internal/domain"
	"bluemoon/internal/repository"
	"bluemoon/internal/service"
	"bluemoon/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	BaseURL       string
	MinWithdrawal int64
}

type Handler struct {
	DB               *pgxpool.Pool
	Hub              *ws.Hub
	BaseURL          string
	UserRepo         *repository.UserRepository
	ReferralRepo     *repository.ReferralRepository
	TransactionRepo  *repository.TransactionRepository
	PaymentRepo      *repository.PaymentRepository
	NotificationRepo *repository.NotificationRepository
	SubscriberRepo   *repository.SubscriberRepository
	AuthService      *service.AuthService
	ReferralService  *service.ReferralService
	PayoutService    *service.PayoutService
	AdminService     *service.AdminService
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub, cfg HandlerConfig) *Handler {
	return &Handler{
		DB:               db,
		Hub:              hub,
		BaseURL:          cfg.BaseURL,
		UserRepo:         repository.NewUserRepository(db),
		ReferralRepo:     repository.NewReferralRepository(db),
		TransactionRepo:  repository.NewTransactionRepository(db),
		PaymentRepo:      repository.NewPaymentRepository(db),
		NotificationRepo: repository.NewNotificationRepository(db),
		SubscriberRepo:   repository.NewSubscriberRepository(db),
		AuthService:      service.NewAuthService(db, hub),
		ReferralService:  service.NewReferralService(db, hub),
		PayoutService:    service.NewPayoutService(db, hub, cfg.MinWithdrawal),
		AdminService:     service.NewAdminService(db),
	}
}

// getUserID extracts the authenticated user id from the gin context
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// fail maps domain errors onto HTTP status codes. Unknown errors are
// reported as 500 without leaking internals.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrReferralNotFound),
		errors.Is(err, domain.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrMissingBankDetails),
		errors.Is(err, domain.ErrBadAccountNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
