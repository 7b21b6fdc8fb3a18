package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/johndosdos/chatrelay/internal/model"
	"github.com/johndosdos/chatrelay/internal/store"
)

// ErrHubClosed is returned once Run has started stopping.
var ErrHubClosed = errors.New("websocket: hub is closed")

type sanitizer interface {
	Sanitize(s string) string
}

type registration struct {
	Client *Client
	Done   chan struct{}
}

// delivery is an outbound event. A nil to means every registered client.
type delivery struct {
	to    *Client
	event model.Event
}

// Hub owns the set of connected clients. Only the Run goroutine reads or
// writes the set; everything else talks to it over channels.
type Hub struct {
	store      store.MessageStore
	clients    map[uuid.UUID]*Client
	register   chan registration
	unregister chan *Client
	outbound   chan delivery
	sizeReq    chan chan int
	sanitizer  sanitizer

	// quit is closed when Run starts stopping, done once it has returned.
	quit chan struct{}
	done chan struct{}

	mu       sync.Mutex
	stopping bool
	inflight sync.WaitGroup
}

// NewHub returns a new instance of Hub. Messages are appended to st before
// they are broadcast; pass store.NopStore{} to relay without persisting.
func NewHub(st store.MessageStore, sanitize bool) *Hub {
	h := &Hub{
		store:      st,
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan registration),
		unregister: make(chan *Client),
		outbound:   make(chan delivery, 1024),
		sizeReq:    make(chan chan int),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if sanitize {
		h.sanitizer = bluemonday.StrictPolicy()
	}

	return h
}

// Run manages incoming and outgoing hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case reg := <-h.register:
			client := reg.Client
			h.clients[client.ID] = client
			close(reg.Done)
			slog.DebugContext(ctx, "client registered",
				"client_id", client.ID.String(),
				"clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; !ok {
				continue
			}
			delete(h.clients, client.ID)
			close(client.send)
			slog.DebugContext(ctx, "client unregistered",
				"client_id", client.ID.String(),
				"clients", len(h.clients))

		case d := <-h.outbound:
			if d.to != nil {
				if _, ok := h.clients[d.to.ID]; ok {
					h.deliver(ctx, d.to, d.event)
				}
				continue
			}
			for _, client := range h.clients {
				h.deliver(ctx, client, d.event)
			}

		case reply := <-h.sizeReq:
			reply <- len(h.clients)

		case <-ctx.Done():
			h.shutdown(ctx)
			return
		}
	}
}

// shutdown stops accepting messages, waits for the ones being stored and
// closes every connection with StatusGoingAway.
func (h *Hub) shutdown(ctx context.Context) {
	slog.InfoContext(ctx, "hub stopping", "clients", len(h.clients))

	h.mu.Lock()
	h.stopping = true
	h.mu.Unlock()
	close(h.quit)

	h.inflight.Wait()

	var wg sync.WaitGroup
	for id, client := range h.clients {
		delete(h.clients, id)
		if client.conn == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}()
	}
	wg.Wait()
}

// Done is closed once Run has returned and every connection is closed.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) deliver(ctx context.Context, client *Client, event model.Event) {
	select {
	case client.send <- event:
	default:
		slog.WarnContext(ctx, "skipping event - channel full or client slow",
			"client_id", client.ID.String(),
			"event", event.Name)
	}
}

// Register adds client to the active set. It returns after the hub has
// recorded the client.
func (h *Hub) Register(ctx context.Context, client *Client) error {
	reg := registration{Client: client, Done: make(chan struct{})}

	select {
	case h.register <- reg:
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-reg.Done
	return nil
}

// Unregister removes client from the active set and closes its outbound
// channel. Unknown clients are ignored.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues event for every registered client, including the sender
// of the message that produced it.
func (h *Hub) Broadcast(ctx context.Context, event model.Event) error {
	return h.enqueue(ctx, delivery{event: event})
}

// Reply queues event for client alone.
func (h *Hub) Reply(ctx context.Context, client *Client, event model.Event) error {
	return h.enqueue(ctx, delivery{to: client, event: event})
}

func (h *Hub) enqueue(ctx context.Context, d delivery) error {
	// Nothing drains outbound once Run is stopping.
	select {
	case <-h.quit:
		return ErrHubClosed
	default:
	}

	select {
	case h.outbound <- d:
		return nil
	case <-h.quit:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clients reports how many clients are registered.
func (h *Hub) Clients() int {
	reply := make(chan int, 1)

	select {
	case h.sizeReq <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// HandleMessage relays the data of one inbound "message" event: it is
// stored first and then broadcast unchanged as a "response" event. When the
// store rejects it, only the sender is told and nothing is broadcast.
func (h *Hub) HandleMessage(ctx context.Context, from *Client, data json.RawMessage) error {
	if !h.begin() {
		return ErrHubClosed
	}
	defer h.inflight.Done()

	// The connection may go away mid-message; the message is still finished.
	ctx = context.WithoutCancel(ctx)

	var payload model.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		err = fmt.Errorf("decode message payload: %w", err)
		h.replyError(ctx, from, "malformed message")
		return err
	}

	out := data
	if h.sanitizer != nil {
		payload.Nickname = h.sanitize(payload.Nickname)
		payload.Message = h.sanitize(payload.Message)
		payload.Date = h.sanitize(payload.Date)

		p, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode sanitized payload: %w", err)
		}
		out = p
	}

	id, err := h.store.Append(ctx, payload.Nickname, payload.Message, payload.CreatedAt())
	if err != nil {
		slog.ErrorContext(ctx, "failed to store message",
			"error", err,
			"client_id", clientID(from),
			"nickname", payload.Nickname)

		msg := "message could not be saved"
		if errors.Is(err, store.ErrValidation) {
			msg = err.Error()
		}
		h.replyError(ctx, from, msg)
		return err
	}

	slog.DebugContext(ctx, "message stored",
		"id", id,
		"nickname", payload.Nickname)

	return h.Broadcast(ctx, model.Event{Name: model.EventResponse, Data: out})
}

// begin registers an in-flight message unless the hub is stopping.
func (h *Hub) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopping {
		return false
	}
	h.inflight.Add(1)
	return true
}

// sanitize strips markup but keeps the text plain: the page and the browser
// script escape it themselves.
func (h *Hub) sanitize(s string) string {
	return html.UnescapeString(h.sanitizer.Sanitize(s))
}

func (h *Hub) replyError(ctx context.Context, to *Client, msg string) {
	if to == nil {
		return
	}

	event, err := model.NewEvent(model.EventError, model.ErrorPayload{Error: msg})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode error event", "error", err)
		return
	}

	if err := h.Reply(ctx, to, event); err != nil {
		slog.WarnContext(ctx, "failed to queue error event",
			"error", err,
			"client_id", to.ID.String())
	}
}

func clientID(c *Client) string {
	if c == nil {
		return ""
	}
	return c.ID.String()
}
