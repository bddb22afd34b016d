// Package speech defines the playback boundary of go-shopeat.
//
// Synthesis itself is an external capability (a browser speechSynthesis
// object, a TTS engine). This package only defines when text is spoken:
// Speak is fire-and-forget, a new utterance preempts any in-progress one,
// and completion is observable but never blocking.
package speech

import "errors"

// ErrEmptyText is returned when Speak is called with no text.
var ErrEmptyText = errors.New("speech: empty text")

// Options controls voice characteristics for a single utterance.
type Options struct {
	// Rate is the speech speed multiplier (default 1.0).
	Rate float64

	// Pitch adjusts the voice pitch (default 1.0).
	Pitch float64

	// Volume is the playback volume 0.0-1.0 (default 1.0).
	Volume float64

	// VoiceSelector picks a voice by name or pattern; empty means the
	// device default.
	VoiceSelector string
}

// DefaultOptions returns sensible defaults for spoken replies.
func DefaultOptions() Options {
	return Options{
		Rate:   1.0,
		Pitch:  1.0,
		Volume: 1.0,
	}
}

// Speaker renders text as spoken audio.
type Speaker interface {
	// Speak starts rendering text asynchronously. A new call cancels any
	// utterance still in progress.
	Speak(text string, opts Options) error

	// Cancel stops any in-progress utterance. Idempotent.
	Cancel()

	// Speaking reports whether an utterance is in progress.
	Speaking() bool

	// OnDone sets the callback fired when an utterance finishes playing.
	// A cancelled utterance does not fire it.
	OnDone(fn func())
}
