package shopping

import "sync"

// Store is the server-side in-memory shopping list.
// Item names are unique keys: adding an existing name replaces the previous
// entry (last writer wins), matching the protocol's idempotent list-sync.
type Store struct {
	mu    sync.RWMutex
	items []Item
	index map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// Add inserts or replaces an item by name and returns the normalized item.
func (s *Store) Add(item Item) Item {
	item = item.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[item.Name]; ok {
		s.items[i] = item
		return item
	}
	s.index[item.Name] = len(s.items)
	s.items = append(s.items, item)
	return item
}

// Remove deletes an item by name. It is a no-op for unknown names.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[name]
	if !ok {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].Name] = j
	}
}

// Clear removes all items.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[string]int)
}

// Snapshot returns a copy of the current list state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items}
}

// Len returns the number of items in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
