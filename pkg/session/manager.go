// Package session owns the voice session state machine. It is the only
// component that starts or stops speech capture, speaks replies, and sends
// voice transcripts to the backend. Transport, capture and playback are
// injected as interfaces so the machine can be driven deterministically in
// tests.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopeat/go-shopeat/internal/log"
	"github.com/shopeat/go-shopeat/pkg/capture"
	"github.com/shopeat/go-shopeat/pkg/protocol"
	"github.com/shopeat/go-shopeat/pkg/shopping"
	"github.com/shopeat/go-shopeat/pkg/speech"
)

// Mode is the session's interaction phase. Exactly one mode is active at a
// time; all transitions go through the manager.
type Mode string

const (
	// ModeIdle means capture is off and nothing is in flight.
	ModeIdle Mode = "idle"

	// ModeListening means capture is armed and transcripts may arrive.
	ModeListening Mode = "listening"

	// ModeAwaitingResponse means a final transcript was sent and the
	// session is waiting for the assistant's answer.
	ModeAwaitingResponse Mode = "awaiting_response"

	// ModeSpeaking means a reply is being played back.
	ModeSpeaking Mode = "speaking"
)

// Sender delivers one encoded message to the backend. Satisfied by
// transport.Client.
type Sender interface {
	Send(data []byte) error
}

// Manager drives the session. All state is guarded by mu; callbacks into
// events, capture and playback run outside the lock.
type Manager struct {
	cfg        Config
	recognizer capture.Recognizer
	speaker    speech.Speaker
	sender     Sender
	projector  *shopping.Projector
	events     Events

	sessionID string

	mu                sync.Mutex
	mode              Mode
	continuous        bool
	restartAttempts   int
	pendingTranscript string
	greeted           bool
	closed            bool
	restartTimer      *time.Timer
	responseTimer     *time.Timer
	responseGen       int
}

// New creates a manager and wires itself into the recognizer and speaker
// callbacks. The projector may be nil when no list display exists.
func New(cfg Config, rec capture.Recognizer, spk speech.Speaker, sender Sender, projector *shopping.Projector, events Events) *Manager {
	if events == nil {
		events = NopEvents{}
	}
	if cfg.MaxRestartAttempts <= 0 {
		cfg.MaxRestartAttempts = DefaultMaxRestartAttempts
	}
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = DefaultResponseTimeout
	}

	m := &Manager{
		cfg:        cfg,
		recognizer: rec,
		speaker:    spk,
		sender:     sender,
		projector:  projector,
		events:     events,
		sessionID:  uuid.NewString(),
		mode:       ModeIdle,
	}

	rec.OnStart(m.onCaptureStart)
	rec.OnResult(m.onCaptureResult)
	rec.OnError(m.onCaptureError)
	rec.OnEnd(m.onCaptureEnd)
	spk.OnDone(m.onSpeechDone)
	return m
}

// SessionID returns the stable identifier for this session.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Mode returns the current interaction mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Continuous reports whether continuous listening is enabled.
func (m *Manager) Continuous() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.continuous
}

// PendingTranscript returns the transcript awaiting a response, or "".
func (m *Manager) PendingTranscript() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingTranscript
}

// RestartAttempts returns the consumed restart budget. The count resets
// when a final transcript is sent or when continuous mode is re-enabled,
// never on a bare capture start.
func (m *Manager) RestartAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restartAttempts
}

// EnableContinuous turns on hands-free listening. The first call per process
// speaks the greeting before capture is armed. Idempotent.
func (m *Manager) EnableContinuous() {
	m.mu.Lock()
	if m.closed || m.continuous {
		m.mu.Unlock()
		return
	}
	m.continuous = true
	m.restartAttempts = 0
	greet := !m.greeted && m.cfg.GreetingText != ""
	if greet {
		m.greeted = true
	}
	m.mu.Unlock()

	m.events.ContinuousChanged(true)
	if greet {
		if err := m.speaker.Speak(m.cfg.GreetingText, m.cfg.SpeakOptions); err != nil {
			log.Warn("greeting playback failed", "error", err)
		}
	}
	m.armCapture()
}

// DisableContinuous is a hard reset: capture stops, timers are cancelled,
// counters and the pending transcript are cleared, and the session lands in
// Idle. Safe to call from any mode.
func (m *Manager) DisableContinuous() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	changed := m.continuous
	m.continuous = false
	m.restartAttempts = 0
	m.pendingTranscript = ""
	m.stopTimersLocked()
	notify := m.setModeLocked(ModeIdle)
	m.mu.Unlock()

	m.recognizer.Stop()
	notify()
	if changed {
		m.events.ContinuousChanged(false)
	}
}

// Listen arms capture for a single utterance without enabling continuous
// mode. No-op while already listening or awaiting a response.
func (m *Manager) Listen() {
	m.mu.Lock()
	if m.closed || m.mode == ModeListening || m.mode == ModeAwaitingResponse {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.armCapture()
}

// Close shuts the manager down permanently.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopTimersLocked()
	m.mu.Unlock()

	m.recognizer.Stop()
	m.speaker.Cancel()
}

// armCapture starts the recognizer. An already armed recognizer is fine; a
// failed start consumes restart budget like any other capture fault.
func (m *Manager) armCapture() {
	err := m.recognizer.Start()
	if err == nil || errors.Is(err, capture.ErrAlreadyStarted) {
		return
	}
	log.Warn("capture start failed", "error", err)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	after := m.captureLostLocked("start failed")
	m.mu.Unlock()
	runAll(after)
}

// onCaptureStart fires when the device actually begins capturing.
func (m *Manager) onCaptureStart() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	// Listening never carries a pending transcript.
	m.pendingTranscript = ""
	notify := m.setModeLocked(ModeListening)
	m.mu.Unlock()
	notify()
}

// onCaptureResult handles interim and final transcripts. A final transcript
// while listening stops capture and goes to the backend; everything else is
// display-only.
func (m *Manager) onCaptureResult(text string, isFinal bool) {
	m.events.TranscriptReceived(text, isFinal)
	if !isFinal {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	if m.closed || m.mode != ModeListening {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.recognizer.Stop()

	data, err := protocol.Encode(protocol.NewVoiceInput(text))
	if err != nil {
		log.Error("encode voice input failed", "error", err)
		m.resumeOrIdle()
		return
	}
	if err := m.sender.Send(data); err != nil {
		log.Warn("voice input send failed", "error", err)
		m.events.Notice("Couldn't reach the assistant. Please try again.")
		m.resumeOrIdle()
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.pendingTranscript = text
	// A productive cycle restores the full restart budget.
	m.restartAttempts = 0
	m.responseGen++
	gen := m.responseGen
	m.responseTimer = time.AfterFunc(m.cfg.ResponseTimeout, func() {
		m.onResponseTimeout(gen)
	})
	notify := m.setModeLocked(ModeAwaitingResponse)
	m.mu.Unlock()
	notify()
}

// onCaptureError classifies device errors. Aborts are deliberate and land in
// Idle untouched; permission errors kill continuous mode outright; everything
// transient consumes restart budget.
func (m *Manager) onCaptureError(kind capture.ErrorKind) {
	m.mu.Lock()
	if m.closed || m.mode != ModeListening {
		m.mu.Unlock()
		return
	}

	var after []func()
	switch {
	case kind == capture.ErrAborted:
		after = append(after, m.setModeLocked(ModeIdle))
	case !kind.Transient():
		log.Warn("capture error, not restartable", "kind", kind)
		if m.continuous {
			m.continuous = false
			after = append(after, func() { m.events.ContinuousChanged(false) })
		}
		after = append(after, m.setModeLocked(ModeIdle))
		after = append(after, func() {
			m.events.Notice("Microphone access failed. Continuous listening is off.")
		})
	default:
		after = m.captureLostLocked(string(kind))
	}
	m.mu.Unlock()
	runAll(after)
}

// onCaptureEnd fires when the device stops on its own. Ends we requested
// arrive after the mode has already moved on and are ignored.
func (m *Manager) onCaptureEnd() {
	m.mu.Lock()
	if m.closed || m.mode != ModeListening {
		m.mu.Unlock()
		return
	}
	after := m.captureLostLocked("capture ended")
	m.mu.Unlock()
	runAll(after)
}

// captureLostLocked handles a transient loss of capture: schedule a delayed
// restart while budget remains, otherwise disable continuous mode so a broken
// microphone cannot loop forever. Caller holds m.mu.
func (m *Manager) captureLostLocked(cause string) []func() {
	var after []func()
	after = append(after, m.setModeLocked(ModeIdle))

	if !m.continuous {
		return after
	}

	m.restartAttempts++
	if m.restartAttempts >= m.cfg.MaxRestartAttempts {
		log.Warn("restart budget exhausted, disabling continuous mode", "cause", cause)
		m.continuous = false
		m.restartAttempts = 0
		after = append(after,
			func() { m.events.ContinuousChanged(false) },
			func() { m.events.Notice("I keep losing the microphone. Tap the mic to try again.") },
		)
		return after
	}

	log.Debug("capture restart scheduled", "cause", cause, "attempt", m.restartAttempts)
	if m.restartTimer != nil {
		m.restartTimer.Stop()
	}
	m.restartTimer = time.AfterFunc(m.cfg.RestartDelay, m.restartNow)
	return after
}

// restartNow re-arms capture if the session is still idle and continuous.
func (m *Manager) restartNow() {
	m.mu.Lock()
	if m.closed || !m.continuous || m.mode != ModeIdle {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.armCapture()
}

// onSpeechDone fires when playback finishes. In continuous mode capture was
// already re-armed at reply time; otherwise the session settles in Idle.
func (m *Manager) onSpeechDone() {
	m.mu.Lock()
	if m.closed || m.mode != ModeSpeaking {
		m.mu.Unlock()
		return
	}
	cont := m.continuous
	var notify func()
	if !cont {
		notify = m.setModeLocked(ModeIdle)
	}
	m.mu.Unlock()

	if notify != nil {
		notify()
		return
	}
	m.armCapture()
}

// onResponseTimeout abandons a response that never came. The transcript is
// dropped, never resent.
func (m *Manager) onResponseTimeout(gen int) {
	m.mu.Lock()
	if m.closed || gen != m.responseGen || m.mode != ModeAwaitingResponse {
		m.mu.Unlock()
		return
	}
	m.pendingTranscript = ""
	m.responseTimer = nil
	m.mu.Unlock()

	log.Warn("response timed out")
	m.events.Notice("The assistant didn't answer. Please try again.")
	m.resumeOrIdle()
}

// resumeOrIdle re-arms capture in continuous mode and goes to Idle otherwise.
func (m *Manager) resumeOrIdle() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	cont := m.continuous
	var notify func()
	if !cont {
		notify = m.setModeLocked(ModeIdle)
	}
	m.mu.Unlock()

	if notify != nil {
		notify()
		return
	}
	m.armCapture()
}

// stopTimersLocked cancels both timers and invalidates any in-flight
// response deadline. Caller holds m.mu.
func (m *Manager) stopTimersLocked() {
	if m.restartTimer != nil {
		m.restartTimer.Stop()
		m.restartTimer = nil
	}
	if m.responseTimer != nil {
		m.responseTimer.Stop()
		m.responseTimer = nil
	}
	m.responseGen++
}

// setModeLocked updates the mode and returns a notifier to run after m.mu is
// released. Caller holds m.mu.
func (m *Manager) setModeLocked(mode Mode) func() {
	if m.mode == mode {
		return func() {}
	}
	m.mode = mode
	log.Debug("mode changed", "mode", mode)
	return func() { m.events.ModeChanged(mode) }
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
