package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PayoutRequestBody struct {
	Amount int64 `json:"amount" binding:"required"`
}

// RequestPayout reserves part of the caller's available balance and
// opens a pending withdrawal for admin review.
func (h *Handler) RequestPayout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PayoutRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	payout, err := h.PayoutService.Request(c.Request.Context(), userID, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payout": payout})
}
