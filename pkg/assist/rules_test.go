package assist

import (
	"context"
	"strings"
	"testing"

	"github.com/shopeat/go-shopeat/pkg/shopping"
)

func TestExtractItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single item", "I need to buy milk", []string{"milk"}},
		{"multiple items", "add milk and bread please", []string{"milk", "bread"}},
		{"plural form", "get some apples", []string{"apples"}},
		{"canonical name", "we're out of oil", []string{"cooking oil"}},
		{"no items", "how are you today", nil},
		{"case insensitive", "MILK and CHEESE", []string{"milk", "cheese"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ExtractItems(tt.text)
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, item := range items {
				if item.Name != tt.want[i] {
					t.Errorf("item %d: got %q, want %q", i, item.Name, tt.want[i])
				}
				if item.Quantity != 1 {
					t.Errorf("item %d: quantity = %d, want 1", i, item.Quantity)
				}
			}
		})
	}
}

func TestExtractItemsCategories(t *testing.T) {
	items := ExtractItems("milk, chicken and bread")
	want := map[string]string{
		"milk":    "dairy",
		"chicken": "meat",
		"bread":   "bakery",
	}
	for _, item := range items {
		if got := want[item.Name]; got != item.Category {
			t.Errorf("%s: category = %q, want %q", item.Name, item.Category, got)
		}
	}
}

func TestRulesReply(t *testing.T) {
	r := NewRules()
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		contains string
	}{
		{"items", "add milk and bread", "milk and bread"},
		{"clear", "clear my list", "cleared"},
		{"readback", "what's on my list", "list"},
		{"fallback", "tell me a joke", "shopping list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := r.Reply(ctx, tt.text)
			if err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if !strings.Contains(reply, tt.contains) {
				t.Errorf("reply %q does not contain %q", reply, tt.contains)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(shopping.Snapshot{}); got != "Your shopping list is empty." {
		t.Errorf("empty list: got %q", got)
	}

	one := shopping.Snapshot{Items: []shopping.Item{shopping.NewItem("milk")}}
	if got := Describe(one); !strings.Contains(got, "one item") {
		t.Errorf("one item: got %q", got)
	}

	two := shopping.Snapshot{Items: []shopping.Item{
		shopping.NewItem("milk"),
		shopping.NewItem("bread"),
	}}
	got := Describe(two)
	if !strings.Contains(got, "2 items") || !strings.Contains(got, "milk and bread") {
		t.Errorf("two items: got %q", got)
	}
}
