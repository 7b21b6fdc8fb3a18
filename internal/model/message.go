// Package model defines data structure.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Event names exchanged over the real-time channel.
const (
	EventMessage  = "message"
	EventResponse = "response"
	EventError    = "error"
)

// clientDateLayout is what the bundled browser script sends in Payload.Date.
const clientDateLayout = "02.01.2006 15:04:05"

// Event is the envelope for every frame on the websocket.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Payload is the data of an inbound "message" event. The same value is
// echoed back as the data of the "response" event.
type Payload struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
	Date     string `json:"date"`
}

// ErrorPayload is sent to a single client when its message was not relayed.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewEvent wraps v as the data of a named event.
func NewEvent(name string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, err
	}

	return Event{Name: name, Data: data}, nil
}

// CreatedAt converts the client supplied date. A zero time is returned when
// the date is empty or in an unknown layout.
func (p Payload) CreatedAt() time.Time {
	s := strings.TrimSpace(p.Date)
	if s == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}

	if t, err := time.Parse(clientDateLayout, s); err == nil {
		return t
	}

	return time.Time{}
}
