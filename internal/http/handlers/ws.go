package handlers

import (
	"net/http"
	"os"

	"bluemoon/internal/logger"
	"bluemoon/internal/service"
	"bluemoon/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection and streams live reward, referral and
// payout events to the dashboard. Auth is a JWT in the query string
// since browsers cannot set headers on websocket upgrades.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Admin streams see all users' events
		admin := false
		if c.Query("scope") == "admin" {
			admin, err = h.UserRepo.IsAdmin(c.Request.Context(), userID)
			if err != nil || !admin {
				c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
				return
			}
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(userID, admin, conn, hub)
		go client.Run()
	}
}
