// Package shopping defines the shopping-list data model shared by the
// client and the reference backend: items, authoritative snapshots, the
// view projector, and access to the list store.
package shopping

import "strings"

// DefaultCategory is used when an item has no category.
const DefaultCategory = "general"

// Categories lists the known shopping categories.
var Categories = []string{
	"dairy",
	"produce",
	"meat",
	"pantry",
	"frozen",
	"beverages",
	"snacks",
	"household",
	"personal_care",
	DefaultCategory,
}

// Item is a single shopping-list entry. Name is the unique key within a list.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Notes    string `json:"notes,omitempty"`
}

// NewItem creates an item with the given name and sensible defaults.
func NewItem(name string) Item {
	return Item{
		Name:     name,
		Quantity: 1,
		Category: DefaultCategory,
	}
}

// Normalize fills in defaults for zero-valued fields and lowercases the name.
func (i Item) Normalize() Item {
	i.Name = strings.ToLower(strings.TrimSpace(i.Name))
	if i.Quantity <= 0 {
		i.Quantity = 1
	}
	if i.Category == "" {
		i.Category = DefaultCategory
	}
	return i
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Snapshot is the complete, authoritative shopping-list state pushed by the
// server. Snapshots replace any prior local state wholesale and are never
// partially patched.
type Snapshot struct {
	Items []Item `json:"items"`
}

// Len returns the number of items in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Items)
}

// Equal reports whether two snapshots contain the same items in the same order.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Items) != len(other.Items) {
		return false
	}
	for i := range s.Items {
		if s.Items[i] != other.Items[i] {
			return false
		}
	}
	return true
}
