package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Buffer size for outbound messages
	sendBufferSize = 256
)

// Client is the WebSocket transport of one session
type Client struct {
	conn *websocket.Conn
	send chan models.ServerMessage
	log  *slog.Logger
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		conn: conn,
		send: make(chan models.ServerMessage, sendBufferSize),
		log:  logger,
	}
}

// TrySend queues a message for the write pump without blocking.
// Returns false if the buffer is full.
func (c *Client) TrySend(msg models.ServerMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump reads browser messages and hands them to deliver until the
// connection fails or ctx ends
func (c *Client) ReadPump(ctx context.Context, deliver func(models.ClientMessage)) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var msg models.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("unexpected websocket close", "error", err)
			}
			return
		}
		deliver(msg)
	}
}

// WritePump writes queued messages and keepalive pings until ctx ends
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.drain()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.log.Warn("websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drain flushes messages already queued when the session stops
func (c *Client) drain() {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		default:
			return
		}
	}
}
