package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"boardroom/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client is a live viewer of one room over a WebSocket. It only receives
// state events; game actions still go through the HTTP handlers. The
// connection is torn down when either pump exits, unsubscribing the viewer.
type Client struct {
	RoomID string
	Conn   *websocket.Conn
	Send   chan []byte
	Done   chan struct{}
}

func NewClient(roomID string, conn *websocket.Conn) *Client {
	return &Client{
		RoomID: roomID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
		Done:   make(chan struct{}),
	}
}

// Run drives both pumps and blocks until the viewer disconnects.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump discards inbound frames; it exists to service pong handlers and
// to notice the disconnect.
func (c *Client) readPump() {
	defer func() {
		close(c.Done)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			logger.Debug("live view disconnected", "room", c.RoomID, "error", err)
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Done:
			return
		}
	}
}
