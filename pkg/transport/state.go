// Package transport maintains a best-effort-always-reconnecting duplex
// WebSocket channel to the backend, decoupled from session semantics.
// Session state is never torn down by a disconnect; only outbound sends
// are blocked while the connection is not open.
package transport

import (
	"errors"
	"math/rand"
	"time"
)

// Common errors returned by the transport.
var (
	// ErrNotOpen is returned when sending while the connection is not open.
	// Sends are never queued; the caller must treat this as delivery failure.
	ErrNotOpen = errors.New("transport: connection not open")

	// ErrClosed is returned after Close has been called.
	ErrClosed = errors.New("transport: client closed")
)

// State represents the connection lifecycle state.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// BackoffPolicy decides how long to wait before reconnect attempt n.
// Attempt numbering starts at 0 and resets on every successful open.
type BackoffPolicy interface {
	Next(attempt int) time.Duration
}

// FixedDelay waits the same duration before every reconnect attempt.
type FixedDelay struct {
	Delay time.Duration
}

// Next returns the fixed delay.
func (f FixedDelay) Next(int) time.Duration {
	return f.Delay
}

// ExponentialBackoff doubles the delay per attempt up to Max, with
// proportional random jitter to avoid reconnect stampedes.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64 // 0.0-1.0 fraction of the delay
}

// Next returns the delay for the given attempt.
func (e ExponentialBackoff) Next(attempt int) time.Duration {
	delay := e.Base
	for i := 0; i < attempt && delay < e.Max; i++ {
		delay *= 2
	}
	if delay > e.Max {
		delay = e.Max
	}
	if e.Jitter > 0 {
		spread := float64(delay) * e.Jitter
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
		if delay < 0 {
			delay = 0
		}
	}
	return delay
}

// DefaultBackoff returns the reconnect policy used when none is configured:
// exponential from 1s to 30s with 20% jitter.
func DefaultBackoff() BackoffPolicy {
	return ExponentialBackoff{
		Base:   time.Second,
		Max:    30 * time.Second,
		Jitter: 0.2,
	}
}
