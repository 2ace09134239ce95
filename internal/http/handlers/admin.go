package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bluemoon/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.AdminService.GetStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminUsers(c *gin.Context) {
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	users, err := h.UserRepo.List(c.Request.Context(), listLimit(c), offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) AdminReferrals(c *gin.Context) {
	referrals, err := h.ReferralRepo.ListAll(c.Request.Context(), listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": referrals})
}

func (h *Handler) AdminPayouts(c *gin.Context) {
	payouts, err := h.PaymentRepo.ListAll(c.Request.Context(), listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

func (h *Handler) AdminWaitlist(c *gin.Context) {
	subs, err := h.SubscriberRepo.List(c.Request.Context(), listLimit(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subs})
}

func (h *Handler) AdminPromote(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.UserRepo.SetAdmin(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type QualifyRequest struct {
	ServiceName string `json:"service_name"`
}

// AdminQualifyReferral marks a pending referral as qualified, meaning
// the referred customer completed their first paid order.
func (h *Handler) AdminQualifyReferral(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req QualifyRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.ReferralService.Qualify(c.Request.Context(), id, req.ServiceName); err != nil {
		if errors.Is(err, service.ErrServiceNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminCreditReferral pays the referrer for a qualified referral.
func (h *Handler) AdminCreditReferral(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.ReferralService.AwardCredit(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) AdminApprovePayout(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.PayoutService.Approve(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type RejectRequest struct {
	Note string `json:"note"`
}

func (h *Handler) AdminRejectPayout(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.PayoutService.Reject(c.Request.Context(), id, req.Note); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
