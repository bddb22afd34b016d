package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopeat/go-shopeat/pkg/protocol"
	"github.com/shopeat/go-shopeat/pkg/session"
	"github.com/shopeat/go-shopeat/pkg/shopping"
	"github.com/shopeat/go-shopeat/pkg/transport"
)

// consoleEvents renders session events as terminal status lines.
type consoleEvents struct {
	out io.Writer
}

func (e *consoleEvents) ModeChanged(mode session.Mode) {
	switch mode {
	case session.ModeListening:
		fmt.Fprintln(e.out, "🎤 Listening...")
	case session.ModeAwaitingResponse:
		fmt.Fprintln(e.out, "⏳ Thinking...")
	}
}

func (e *consoleEvents) ContinuousChanged(enabled bool) {
	if enabled {
		fmt.Fprintln(e.out, "🎤 Hands-free listening is on.")
	} else {
		fmt.Fprintln(e.out, "🔇 Hands-free listening is off.")
	}
}

func (e *consoleEvents) TranscriptReceived(text string, isFinal bool) {
	if isFinal {
		fmt.Fprintf(e.out, "🗣  %s\n", text)
	}
}

func (e *consoleEvents) AssistantReplied(string, string) {
	// The speaker already prints the reply.
}

func (e *consoleEvents) ListChanged(action protocol.Action, item *shopping.Item, totalItems int) {
	switch action {
	case protocol.ActionItemAdded:
		if item != nil {
			fmt.Fprintf(e.out, "✅ Added %s (%d items)\n", item.Name, totalItems)
		}
	case protocol.ActionListCleared:
		fmt.Fprintln(e.out, "🧹 List cleared.")
	}
}

func (e *consoleEvents) ConnectionChanged(state transport.State) {
	switch state {
	case transport.StateOpen:
		fmt.Fprintln(e.out, "🔌 Connected.")
	case transport.StateClosed:
		fmt.Fprintln(e.out, "🔌 Disconnected, retrying...")
	}
}

func (e *consoleEvents) Notice(text string) {
	fmt.Fprintf(e.out, "⚠️  %s\n", text)
}

var _ session.Events = (*consoleEvents)(nil)

// renderList prints the list grouped by category.
func renderList(w io.Writer, items []shopping.Item) {
	fmt.Fprintln(w, "\n🛒 Shopping list:")
	if len(items) == 0 {
		fmt.Fprintln(w, "   (empty)")
		return
	}

	grouped := make(map[string][]shopping.Item)
	var order []string
	for _, item := range items {
		if _, seen := grouped[item.Category]; !seen {
			order = append(order, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	for _, category := range order {
		fmt.Fprintf(w, "📂 %s:\n", strings.ToUpper(category))
		for _, item := range grouped[category] {
			line := fmt.Sprintf("  • %s (x%d)", item.Name, item.Quantity)
			if item.Notes != "" {
				line += " - " + item.Notes
			}
			fmt.Fprintln(w, line)
		}
	}
}
