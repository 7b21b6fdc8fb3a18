package handler

import (
	"log/slog"
	"net/http"

	viewChat "github.com/johndosdos/chatrelay/components/chat"
	"github.com/johndosdos/chatrelay/internal/store"
)

// ServeRoot renders the chat page with every stored message.
func ServeRoot(st store.MessageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		messages, err := st.ListAll(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to load messages", "error", err)
			http.Error(w, "Could not load messages.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := viewChat.Page(messages).Render(ctx, w); err != nil {
			slog.ErrorContext(ctx, "failed to render component", "error", err)
		}
	}
}
