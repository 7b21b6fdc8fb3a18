package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"rfc3339", "2024-01-01T00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2024-01-01T02:00:00+02:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"browser layout", "31.12.2023 23:59:58", time.Date(2023, 12, 31, 23, 59, 58, 0, time.UTC)},
		{"padded", "  01.02.2024 10:00:00 ", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Payload{Date: tt.date}.CreatedAt()
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestEventEnvelope(t *testing.T) {
	raw := []byte(`{"event":"message","data":{"nickname":"alice","message":"hi","date":"2024-01-01T00:00:00Z"}}`)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, EventMessage, ev.Name)

	var p Payload
	require.NoError(t, json.Unmarshal(ev.Data, &p))
	assert.Equal(t, Payload{Nickname: "alice", Message: "hi", Date: "2024-01-01T00:00:00Z"}, p)

	out, err := NewEvent(EventError, ErrorPayload{Error: "nope"})
	require.NoError(t, err)
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"error","data":{"error":"nope"}}`, string(b))
}
