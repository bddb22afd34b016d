package capture

import "sync"

// Mock implements Recognizer for testing.
// Tests script device behavior by calling the Emit* methods; StartFunc can
// be customized to simulate devices that fail to acquire.
type Mock struct {
	// StartFunc is called when Start is invoked while idle.
	// If nil, the start succeeds and the start event fires synchronously.
	StartFunc func() error

	mu       sync.Mutex
	started  bool
	starts   int
	stops    int
	onStart  func()
	onResult func(text string, isFinal bool)
	onError  func(kind ErrorKind)
	onEnd    func()
}

// NewMock creates a mock recognizer whose starts always succeed.
func NewMock() *Mock {
	return &Mock{}
}

// Start arms the mock. The start event fires synchronously on success.
func (m *Mock) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	startFunc := m.StartFunc
	m.mu.Unlock()

	if startFunc != nil {
		if err := startFunc(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.started = true
	m.starts++
	fn := m.onStart
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Stop disarms the mock without firing the end event; real devices report
// owner-requested stops through their own end events, which tests script
// explicitly via EmitEnd.
func (m *Mock) Stop() {
	m.mu.Lock()
	m.started = false
	m.stops++
	m.mu.Unlock()
}

// OnStart sets the start callback.
func (m *Mock) OnStart(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStart = fn
}

// OnResult sets the result callback.
func (m *Mock) OnResult(fn func(text string, isFinal bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onResult = fn
}

// OnError sets the error callback.
func (m *Mock) OnError(fn func(kind ErrorKind)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// OnEnd sets the end callback.
func (m *Mock) OnEnd(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = fn
}

// EmitResult delivers a recognition result to the owner.
func (m *Mock) EmitResult(text string, isFinal bool) {
	m.mu.Lock()
	fn := m.onResult
	m.mu.Unlock()
	if fn != nil {
		fn(text, isFinal)
	}
}

// EmitError delivers a device error to the owner.
func (m *Mock) EmitError(kind ErrorKind) {
	m.mu.Lock()
	m.started = false
	fn := m.onError
	m.mu.Unlock()
	if fn != nil {
		fn(kind)
	}
}

// EmitEnd delivers a device-initiated end to the owner.
func (m *Mock) EmitEnd() {
	m.mu.Lock()
	m.started = false
	fn := m.onEnd
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Started reports whether the mock is currently armed.
func (m *Mock) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// StartCount returns how many successful starts occurred.
func (m *Mock) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// StopCount returns how many stops occurred.
func (m *Mock) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// Verify Mock implements Recognizer at compile time.
var _ Recognizer = (*Mock)(nil)
