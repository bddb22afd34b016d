package shopping

import "sync"

// View receives the projected item list whenever it changes.
// Implementations render to a terminal, a DOM, a test buffer, etc.
type View interface {
	Render(items []Item)
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(items []Item)

// Render calls f.
func (f ViewFunc) Render(items []Item) { f(items) }

// Projector renders the latest authoritative Snapshot through a View.
// It is stateless beyond caching the last snapshot for re-render. Local
// removals are optimistic only: the next snapshot from the server always
// wins and is never merged with local edits.
type Projector struct {
	view View

	mu       sync.Mutex
	snapshot Snapshot
	removed  map[string]bool
}

// NewProjector creates a projector rendering through view.
func NewProjector(view View) *Projector {
	return &Projector{
		view:    view,
		removed: make(map[string]bool),
	}
}

// Apply replaces the cached snapshot wholesale and re-renders.
// Any pending optimistic removals are discarded: the server's state wins.
func (p *Projector) Apply(snapshot Snapshot) {
	p.mu.Lock()
	p.snapshot = snapshot
	p.removed = make(map[string]bool)
	items := p.projectLocked()
	p.mu.Unlock()

	p.view.Render(items)
}

// RemoveLocal hides an item from the projected view pending server
// confirmation. The cached snapshot itself is not mutated.
func (p *Projector) RemoveLocal(name string) {
	p.mu.Lock()
	p.removed[name] = true
	items := p.projectLocked()
	p.mu.Unlock()

	p.view.Render(items)
}

// Rerender renders the current projection again, e.g. after a UI reset.
func (p *Projector) Rerender() {
	p.mu.Lock()
	items := p.projectLocked()
	p.mu.Unlock()

	p.view.Render(items)
}

// Items returns the currently projected items.
func (p *Projector) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.projectLocked()
}

func (p *Projector) projectLocked() []Item {
	items := make([]Item, 0, len(p.snapshot.Items))
	for _, item := range p.snapshot.Items {
		if p.removed[item.Name] {
			continue
		}
		items = append(items, item)
	}
	return items
}
