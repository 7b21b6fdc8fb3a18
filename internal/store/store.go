// Package store persists chat messages.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johndosdos/chatrelay/internal/model"
)

var (
	// ErrValidation reports a message that is missing its nickname or body.
	ErrValidation = errors.New("store: invalid message")
	// ErrPersistence reports a storage layer failure.
	ErrPersistence = errors.New("store: persistence failed")
)

// MaxNicknameLen matches the width of messages.nickname.
const MaxNicknameLen = 50

// MessageStore is an append-only log of chat messages.
type MessageStore interface {
	// Append stores a message and returns its id. A zero createdAt is
	// replaced with the current time.
	Append(ctx context.Context, nickname, body string, createdAt time.Time) (int64, error)
	// ListAll returns every stored message, oldest id first.
	ListAll(ctx context.Context) ([]model.ChatMessage, error)
	Close() error
}

func validate(nickname, body string) error {
	if strings.TrimSpace(nickname) == "" {
		return fmt.Errorf("%w: nickname is required", ErrValidation)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	if len([]rune(nickname)) > MaxNicknameLen {
		return fmt.Errorf("%w: nickname longer than %d characters", ErrValidation, MaxNicknameLen)
	}

	return nil
}

func createdAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// NopStore is used when no database is configured. It accepts every message
// and remembers none of them.
type NopStore struct{}

func (NopStore) Append(context.Context, string, string, time.Time) (int64, error) {
	return 0, nil
}

func (NopStore) ListAll(context.Context) ([]model.ChatMessage, error) {
	return nil, nil
}

func (NopStore) Close() error { return nil }
