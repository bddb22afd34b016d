package capture

import "sync"

// Console simulates speech capture from typed input. The owning loop routes
// lines to Submit; each accepted line becomes a final transcript, which is
// how terminal sessions exercise the full voice pipeline without audio.
type Console struct {
	mu       sync.Mutex
	armed    bool
	onStart  func()
	onResult func(text string, isFinal bool)
	onError  func(kind ErrorKind)
	onEnd    func()
}

// NewConsole creates a console recognizer.
func NewConsole() *Console {
	return &Console{}
}

// Start arms the recognizer.
func (c *Console) Start() error {
	c.mu.Lock()
	if c.armed {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.armed = true
	fn := c.onStart
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Stop disarms the recognizer. Lines submitted while disarmed are rejected.
func (c *Console) Stop() {
	c.mu.Lock()
	c.armed = false
	c.mu.Unlock()
}

// Submit offers a typed line as a finalized transcript. It reports whether
// the recognizer was armed to accept it.
func (c *Console) Submit(line string) bool {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return false
	}
	fn := c.onResult
	c.mu.Unlock()

	if fn != nil {
		fn(line, true)
	}
	return true
}

// Armed reports whether the recognizer accepts input.
func (c *Console) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// OnStart sets the start callback.
func (c *Console) OnStart(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStart = fn
}

// OnResult sets the result callback.
func (c *Console) OnResult(fn func(text string, isFinal bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResult = fn
}

// OnError sets the error callback.
func (c *Console) OnError(fn func(kind ErrorKind)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// OnEnd sets the end callback.
func (c *Console) OnEnd(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEnd = fn
}

// Verify Console implements Recognizer at compile time.
var _ Recognizer = (*Console)(nil)
