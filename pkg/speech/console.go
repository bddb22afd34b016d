package speech

import (
	"fmt"
	"io"
	"sync"
)

// Console renders utterances as text instead of audio, for terminal
// sessions. Playback is instantaneous: the done callback fires as soon as
// the line is printed.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	onDone func()
}

// NewConsole creates a console speaker writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Speak prints the utterance and completes immediately.
func (c *Console) Speak(text string, _ Options) error {
	if text == "" {
		return ErrEmptyText
	}

	c.mu.Lock()
	w := c.w
	fn := c.onDone
	c.mu.Unlock()

	fmt.Fprintf(w, "🔊 %s\n", text)
	if fn != nil {
		fn()
	}
	return nil
}

// Cancel is a no-op; console playback never outlives Speak.
func (c *Console) Cancel() {}

// Speaking always reports false for the same reason.
func (c *Console) Speaking() bool {
	return false
}

// OnDone sets the completion callback.
func (c *Console) OnDone(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = fn
}

// Verify Console implements Speaker at compile time.
var _ Speaker = (*Console)(nil)
