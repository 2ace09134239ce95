package handlers

import (
	"net/http"
	"strings"

	"bluemoon/internal/domain"

	"github.com/gin-gonic/gin"
)

type WaitlistRequest struct {
	Email  string `json:"email" binding:"required"`
	Source string `json:"source"`
}

// JoinWaitlist records a landing-page signup. Repeat signups with the
// same email are absorbed silently.
func (h *Handler) JoinWaitlist(c *gin.Context) {
	var req WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}

	sub := domain.Subscriber{Email: email, Source: req.Source}
	if err := h.SubscriberRepo.Upsert(c.Request.Context(), &sub); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "subscriber": sub})
}
