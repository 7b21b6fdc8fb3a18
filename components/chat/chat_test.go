package chat

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/johndosdos/chatrelay/internal/model"
)

func TestChatInputComponent(t *testing.T) {
	var buf bytes.Buffer

	err := ChatInput().Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<form")
	assert.Contains(t, html, `name="nickname"`)
	assert.Contains(t, html, `name="message"`)
	assert.Contains(t, html, `type="submit"`)
	assert.Contains(t, html, "Send")
}

func TestMessageBubbleComponent(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)

	err := MessageBubble("alice", "hi", at).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "alice")
	assert.Contains(t, html, "hi")
	assert.Contains(t, html, "01.01.2024 09:05:00")
}

func TestMessageBubbleEscapesText(t *testing.T) {
	var buf bytes.Buffer

	err := MessageBubble(`<img src=x onerror="alert(1)">`, "<script>alert(1)</script>", time.Time{}).
		Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestPageComponent(t *testing.T) {
	messages := []model.ChatMessage{
		{ID: 1, Nickname: "alice", Body: "first", CreatedAt: time.Now()},
		{ID: 2, Nickname: "bob", Body: "second", CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	err := Page(messages).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `<div id="messages">`)
	assert.Contains(t, html, `"/ws"`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("first")), bytes.Index(buf.Bytes(), []byte("second")))
}

func TestPageComponentEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Page(nil).Render(context.Background(), &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `<div id="messages"></div>`)
}

func TestPageComponentLayout(t *testing.T) {
	var buf bytes.Buffer
	err := Page([]model.ChatMessage{{Nickname: "alice", Body: "hi"}}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.True(t, strings.HasSuffix(html, "</body></html>"))

	// History, then the form, then the script that finds both by id.
	list := strings.Index(html, `<div id="messages">`)
	form := strings.Index(html, `<form id="chat-form"`)
	script := strings.Index(html, "<script>")
	assert.Less(t, list, form)
	assert.Less(t, form, script)
}

func TestMessageBubbleWithoutDate(t *testing.T) {
	var buf bytes.Buffer
	err := MessageBubble("alice", "hi", time.Time{}).Render(context.Background(), &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "<small></small>")
}
