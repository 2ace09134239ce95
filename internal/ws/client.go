package ws

import (
	"encoding/json"
	"time"

	"bluemoon/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client bridges one websocket connection to a hub subscription. The
// read pump exists only to notice disconnects and pongs; the wire
// protocol is server-push.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Hub    *Hub
	sub    *Subscription
}

func NewClient(userID int64, admin bool, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		sub:    hub.Subscribe(userID, admin),
	}
}

// Run pumps events until the peer disconnects, then unsubscribes.
func (c *Client) Run() {
	done := make(chan struct{})
	go c.readPump(done)
	c.writePump(done)
}

func (c *Client) readPump(done chan struct{}) {
	defer close(done)
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump(done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.Unsubscribe(c.sub)
		_ = c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.sub.C:
			if !ok {
				return
			}
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			msg, err := json.Marshal(ev)
			if err != nil {
				logger.Error("marshal ws event", "error", err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
