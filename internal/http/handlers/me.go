package handlers

import (
	"net/http"
	"strconv"

	"bluemoon/internal/domain"
	"bluemoon/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Balance recomputes the user's totals from the transaction ledger.
// The ledger is the source of truth; the denormalized columns on the
// user row exist for cheap reads and must agree with it.
func (h *Handler) Balance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	credits, debits, err := h.TransactionRepo.SumByUser(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_earnings":    credits,
		"total_paid_out":    debits,
		"available_balance": user.AvailableBalance,
		"formatted_balance": service.FormatNaira(user.AvailableBalance),
	})
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "display_name is required"})
		return
	}

	if err := h.UserRepo.UpdateProfile(c.Request.Context(), userID, req.DisplayName, req.Phone); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) SaveBankDetails(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var bd domain.BankDetails
	if err := c.ShouldBindJSON(&bd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := service.ValidateBankDetails(&bd); err != nil {
		fail(c, err)
		return
	}

	if err := h.UserRepo.UpdateBankDetails(c.Request.Context(), userID, bd); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) MyReferrals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	referrals, err := h.ReferralRepo.ListByReferrer(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"referrals": referrals})
}

func (h *Handler) MyTransactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	var (
		txs []*domain.Transaction
		err error
	)
	if t := c.Query("type"); t != "" {
		txs, err = h.TransactionRepo.GetByUserIDAndType(ctx, userID, domain.TransactionType(t), listLimit(c))
	} else {
		txs, err = h.TransactionRepo.GetByUserID(ctx, userID, listLimit(c))
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) MyNotifications(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	notes, err := h.NotificationRepo.ListByUser(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.NotificationRepo.MarkAllRead(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) MyPayouts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payouts, err := h.PaymentRepo.ListByUser(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

// listLimit reads the optional ?limit= query param, capped at 200.
func listLimit(c *gin.Context) int {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}
	return limit
}
