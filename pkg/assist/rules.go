package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopeat/go-shopeat/pkg/shopping"
)

// Rules is a keyword-driven interpreter. It needs no network and no API key,
// so the assistant keeps working when OpenAI is not configured.
type Rules struct{}

// NewRules creates a rules interpreter.
func NewRules() *Rules {
	return &Rules{}
}

// Reply composes a spoken answer from the recognized intent. It never fails.
func (r *Rules) Reply(_ context.Context, transcript string) (string, error) {
	switch {
	case WantsClear(transcript):
		return "Okay, I've cleared your shopping list.", nil
	case WantsList(transcript):
		return "Here's your shopping list.", nil
	}

	items := ExtractItems(transcript)
	if len(items) > 0 {
		return fmt.Sprintf("I've added %s to your list. What else do you need?", joinNames(items)), nil
	}

	if strings.TrimSpace(transcript) == "" {
		return "I didn't catch that. What do you need?", nil
	}
	return "I can add items to your shopping list. Just tell me what you need to buy.", nil
}

// Describe renders a snapshot as speech for list readbacks.
func Describe(snapshot shopping.Snapshot) string {
	switch len(snapshot.Items) {
	case 0:
		return "Your shopping list is empty."
	case 1:
		return fmt.Sprintf("You have one item: %s.", snapshot.Items[0].Name)
	default:
		return fmt.Sprintf("You have %d items: %s.", len(snapshot.Items), joinNames(snapshot.Items))
	}
}

var _ Assistant = (*Rules)(nil)
