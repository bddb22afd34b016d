package speech

import (
	"sync"
	"time"
)

// Mock implements Speaker for testing.
// Utterances are recorded and complete only when the test calls Finish,
// so tests control playback timing exactly.
type Mock struct {
	// SpeakFunc is called when Speak is invoked.
	// If nil, the utterance is recorded and left in progress.
	SpeakFunc func(text string, opts Options) error

	mu       sync.Mutex
	speaking bool
	onDone   func()
	calls    []MockCall
}

// MockCall records a Speak invocation for verification.
type MockCall struct {
	Text string
	Opts Options
	Time time.Time
}

// NewMock creates a new mock speaker.
func NewMock() *Mock {
	return &Mock{}
}

// Speak records the utterance. Any in-progress utterance is preempted
// without firing its done callback.
func (m *Mock) Speak(text string, opts Options) error {
	if text == "" {
		return ErrEmptyText
	}

	m.mu.Lock()
	fn := m.SpeakFunc
	m.calls = append(m.calls, MockCall{Text: text, Opts: opts, Time: time.Now()})
	m.speaking = true
	m.mu.Unlock()

	if fn != nil {
		return fn(text, opts)
	}
	return nil
}

// Cancel stops the in-progress utterance.
func (m *Mock) Cancel() {
	m.mu.Lock()
	m.speaking = false
	m.mu.Unlock()
}

// Speaking reports whether an utterance is in progress.
func (m *Mock) Speaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// OnDone sets the completion callback.
func (m *Mock) OnDone(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDone = fn
}

// Finish completes the in-progress utterance and fires the done callback.
func (m *Mock) Finish() {
	m.mu.Lock()
	wasSpeaking := m.speaking
	m.speaking = false
	fn := m.onDone
	m.mu.Unlock()

	if wasSpeaking && fn != nil {
		fn()
	}
}

// Calls returns all recorded utterances.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of Speak invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent utterance, or nil if none.
func (m *Mock) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Verify Mock implements Speaker at compile time.
var _ Speaker = (*Mock)(nil)
