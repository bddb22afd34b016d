// Package assist interprets finalized shopping transcripts and produces
// spoken replies. Two interpreters exist: a keyword rules engine that works
// offline, and an OpenAI-backed one for free-form conversation.
package assist

import (
	"context"
	"strings"

	"github.com/shopeat/go-shopeat/pkg/shopping"
)

// Assistant turns a finalized transcript into a reply to speak back.
type Assistant interface {
	Reply(ctx context.Context, transcript string) (string, error)
}

// lexiconEntry maps spoken keywords to a canonical list item.
type lexiconEntry struct {
	keywords []string
	name     string
	category string
}

// lexicon covers the grocery vocabulary the rules engine understands.
var lexicon = []lexiconEntry{
	{[]string{"milk"}, "milk", "dairy"},
	{[]string{"cheese"}, "cheese", "dairy"},
	{[]string{"butter"}, "butter", "dairy"},
	{[]string{"yogurt"}, "yogurt", "dairy"},
	{[]string{"cream"}, "cream", "dairy"},
	{[]string{"banana", "bananas"}, "bananas", "produce"},
	{[]string{"apple", "apples"}, "apples", "produce"},
	{[]string{"tomato", "tomatoes"}, "tomatoes", "produce"},
	{[]string{"lettuce"}, "lettuce", "produce"},
	{[]string{"carrot", "carrots"}, "carrots", "produce"},
	{[]string{"chicken"}, "chicken", "meat"},
	{[]string{"beef"}, "beef", "meat"},
	{[]string{"pork"}, "pork", "meat"},
	{[]string{"fish"}, "fish", "meat"},
	{[]string{"bread"}, "bread", "bakery"},
	{[]string{"bagel", "bagels"}, "bagels", "bakery"},
	{[]string{"croissant", "croissants"}, "croissants", "bakery"},
	{[]string{"rice"}, "rice", "pantry"},
	{[]string{"pasta"}, "pasta", "pantry"},
	{[]string{"oil"}, "cooking oil", "pantry"},
	{[]string{"sauce"}, "pasta sauce", "pantry"},
}

// ExtractItems returns the list items mentioned in a transcript, in lexicon
// order, each at most once.
func ExtractItems(transcript string) []shopping.Item {
	lower := strings.ToLower(transcript)
	var items []shopping.Item
	for _, entry := range lexicon {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				items = append(items, shopping.Item{
					Name:     entry.name,
					Quantity: 1,
					Category: entry.category,
				})
				break
			}
		}
	}
	return items
}

// WantsClear reports whether the transcript asks to empty the list.
func WantsClear(transcript string) bool {
	lower := strings.ToLower(transcript)
	return strings.Contains(lower, "clear") || strings.Contains(lower, "start over")
}

// WantsList reports whether the transcript asks to hear the list.
func WantsList(transcript string) bool {
	lower := strings.ToLower(transcript)
	return strings.Contains(lower, "what's on") ||
		strings.Contains(lower, "whats on") ||
		strings.Contains(lower, "read my list") ||
		strings.Contains(lower, "show my list") ||
		strings.Contains(lower, "my list")
}

// joinNames renders item names as natural speech: "milk", "milk and bread",
// "milk, bread and cheese".
func joinNames(items []shopping.Item) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
