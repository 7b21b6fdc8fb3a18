package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/coder/websocket"

	"github.com/johndosdos/chatrelay/internal/model"
)

// ReadMessage reads the incoming data from the websocket stream. Each
// message event is handled to completion before the next frame is read.
// Returning unregisters the client.
func (c *Client) ReadMessage(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow()
	}()

	for {
		msgType, p, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				slog.WarnContext(ctx, "websocket read failed",
					"error", err,
					"client_id", c.ID.String())
			}
			return
		}

		// Only JSON text frames carry events.
		if msgType != websocket.MessageText {
			continue
		}

		var event model.Event
		if err := json.Unmarshal(p, &event); err != nil {
			slog.WarnContext(ctx, "failed to process payload from client",
				"error", err,
				"client_id", c.ID.String())
			continue
		}

		if event.Name != model.EventMessage {
			slog.DebugContext(ctx, "ignoring event",
				"event", event.Name,
				"client_id", c.ID.String())
			continue
		}

		if err := c.hub.HandleMessage(ctx, c, event.Data); err != nil {
			slog.DebugContext(ctx, "message not relayed",
				"error", err,
				"client_id", c.ID.String())
		}
	}
}
