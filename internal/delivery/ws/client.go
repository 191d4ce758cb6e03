package ws

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prasetyodidi/campfire/internal/domain"
	"github.com/prasetyodidi/campfire/internal/usecase"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a single websocket connection. Its ID is the opaque
// connection identity the registry keys on, assigned once at upgrade time.
type Client struct {
	ID     string
	hub    *Hub
	router *usecase.Router
	conn   *websocket.Conn
	send   chan []byte
}

// NewClient creates a Client with a fresh connection identity
func NewClient(hub *Hub, router *usecase.Router, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		hub:    hub,
		router: router,
		conn:   conn,
		send:   make(chan []byte, domain.SendBufferSize),
	}
}

// ReadPump pumps inbound events from the websocket to the router.
// On teardown the registry entry is removed before the connection is
// dropped from the hub, so no broadcast can target a half-closed client.
func (c *Client) ReadPump() {
	defer func() {
		c.router.Disconnect(c.ID)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(domain.MaxMessageSize))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var incoming struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}

		if err := json.Unmarshal(message, &incoming); err != nil {
			continue
		}

		c.dispatch(incoming.Type, incoming.Payload)
	}
}

// dispatch routes one inbound event and answers it with a direct ack.
// Unknown event types and malformed payloads are ignored; the protocol
// has no error channel for requests it cannot parse.
func (c *Client) dispatch(event string, payload json.RawMessage) {
	switch event {
	case domain.EventJoin:
		var p domain.JoinPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return
		}
		c.ack(event, c.router.Join(c.ID, p.Username, p.Room), "")

	case domain.EventSendMessage:
		var p domain.SendMessagePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return
		}
		c.ack(event, c.router.SendMessage(c.ID, p.Text), "")

	case domain.EventSendLocation:
		var p domain.SendLocationPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return
		}
		confirmation, err := c.router.SendLocation(c.ID, p.Latitude, p.Longitude)
		c.ack(event, err, confirmation)
	}
}

// ack answers the originating connection. Protocol errors from a connection
// that never joined are swallowed; everything else becomes the ack body.
func (c *Client) ack(event string, err error, message string) {
	if errors.Is(err, usecase.ErrNotJoined) {
		return
	}

	errText := ""
	if err != nil {
		errText = err.Error()
	}

	c.Send(domain.NewAck(event, errText, message).Encode())
}

// WritePump pumps messages from the send queue to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// Send adds a message to the client's send queue
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Buffer full
	}
}
