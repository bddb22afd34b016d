package session

import (
	"time"

	"github.com/shopeat/go-shopeat/pkg/speech"
)

// Default tuning for the session state machine.
const (
	// DefaultMaxRestartAttempts caps automatic listening restarts between
	// productive cycles. Beyond it, continuous mode is disabled and the
	// user must re-enable it explicitly.
	DefaultMaxRestartAttempts = 3

	// DefaultRestartDelay is the pause before re-arming capture after a
	// transient device error or spontaneous end.
	DefaultRestartDelay = time.Second

	// DefaultResponseTimeout bounds the wait for an answer to a sent
	// transcript. A lost response must not stall the session forever.
	DefaultResponseTimeout = 30 * time.Second
)

// Config holds all tunable parameters for a session manager.
type Config struct {
	// GreetingText, when non-empty, is spoken once per process lifetime
	// before capture is first armed, so the assistant talks first.
	GreetingText string

	// SpeakOptions is applied to every spoken reply.
	SpeakOptions speech.Options

	// MaxRestartAttempts caps automatic capture restarts. The counter is
	// restored only by a productive cycle, meaning a final transcript was
	// sent; a capture start that dies without producing one still burns
	// budget, so a flapping microphone cannot restart forever.
	MaxRestartAttempts int

	// RestartDelay is the pause before an automatic capture restart.
	RestartDelay time.Duration

	// ResponseTimeout bounds the AwaitingResponse phase.
	ResponseTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GreetingText:       "Hi! I'm your shopping assistant. What do you need?",
		SpeakOptions:       speech.DefaultOptions(),
		MaxRestartAttempts: DefaultMaxRestartAttempts,
		RestartDelay:       DefaultRestartDelay,
		ResponseTimeout:    DefaultResponseTimeout,
	}
}

// WithGreeting returns a copy with the greeting set. Empty disables it.
func (c Config) WithGreeting(text string) Config {
	c.GreetingText = text
	return c
}

// WithResponseTimeout returns a copy with the response timeout set.
func (c Config) WithResponseTimeout(d time.Duration) Config {
	c.ResponseTimeout = d
	return c
}
