package handlers

import (
	"errors"
	"net/http"

	"bluemoon/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetReferralCode returns the caller's referral code.
func (h *Handler) GetReferralCode(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"code": user.ReferralCode})
}

// GetReferralLink returns a shareable signup link carrying the code.
func (h *Handler) GetReferralLink(c *gin.Context) {
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

	link := h.BaseURL + "/signup?ref=" + user.ReferralCode
	c.JSON(http.StatusOK, gin.H{"code": user.ReferralCode, "link": link})
}

// ValidateReferralCode checks a code before signup so the landing page
// can show who the invite came from. Unknown codes are a normal
// outcome, not an error.
func (h *Handler) ValidateReferralCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	referrer, err := h.UserRepo.GetByReferralCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusOK, gin.H{"valid": false})
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "referrer_name": referrer.DisplayName})
}

// MyReferralStats returns the caller's referral counters alongside the
// recent referral list, for the dashboard.
func (h *Handler) MyReferralStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	referrals, err := h.ReferralRepo.ListByReferrer(ctx, userID, listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_referrals":     user.TotalReferrals,
			"qualified_referrals": user.QualifiedReferrals,
			"total_earnings":      user.TotalEarnings,
			"available_balance":   user.AvailableBalance,
			"paid_out":            user.PaidOut,
		},
		"referrals": referrals,
	})
}
