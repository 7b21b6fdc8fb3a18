package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/johndosdos/chatrelay/internal/model"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
)

// Client is one browser connection in the hub's active set.
type Client struct {
	ID   uuid.UUID
	conn *websocket.Conn
	hub  *Hub
	send chan model.Event
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   uuid.New(),
		conn: conn,
		hub:  hub,
		send: make(chan model.Event, sendBuffer),
	}
}

// WriteMessage writes queued events to the outgoing websocket stream until
// the hub closes the channel or ctx is done.
func (c *Client) WriteMessage(ctx context.Context) {
	for {
		select {
		case event, ok := <-c.send:
			// The hub closed the channel: the client was unregistered.
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}

			if err := c.write(ctx, event); err != nil {
				slog.WarnContext(ctx, "failed to write event",
					"error", err,
					"event", event.Name,
					"client_id", c.ID.String())
			}

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}

func (c *Client) write(ctx context.Context, event model.Event) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	w, err := c.conn.Writer(writeCtx, websocket.MessageText)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}
