// Package chat renders the chat page. Components live in chat.templ;
// run `templ generate` after editing it.
package chat

import "time"

// DateLayout is how message times are shown. The browser script formats
// live messages the same way.
const DateLayout = "02.01.2006 15:04:05"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
