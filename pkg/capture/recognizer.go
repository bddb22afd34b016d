// Package capture defines the speech-capture boundary of go-shopeat.
//
// The actual capability to turn speech into text lives outside this
// repository (a browser SpeechRecognition object, a native STT engine, a
// streaming API). This package only defines the event contract the session
// manager orchestrates: start, interim/final results, errors, and
// device-initiated end.
package capture

import "errors"

// ErrAlreadyStarted is returned by Start on an armed recognizer.
var ErrAlreadyStarted = errors.New("capture: recognizer already started")

// ErrorKind classifies recognizer errors, mirroring the event vocabulary of
// speech-capture devices.
type ErrorKind string

const (
	// ErrNoSpeech fires when the device heard nothing before its silence
	// timeout. Transient; listening can be restarted.
	ErrNoSpeech ErrorKind = "no-speech"

	// ErrAborted fires when capture was stopped deliberately, by the user
	// or by the owning code. Not an error condition; never restarted.
	ErrAborted ErrorKind = "aborted"

	// ErrAudioCapture fires when the input device failed or disappeared.
	ErrAudioCapture ErrorKind = "audio-capture"

	// ErrNotAllowed fires when capture permission was denied or revoked.
	ErrNotAllowed ErrorKind = "not-allowed"

	// ErrNetwork fires when a network-backed recognizer lost connectivity.
	ErrNetwork ErrorKind = "network"
)

// Transient reports whether the error class is worth an automatic restart.
// Permission errors and deliberate aborts are not.
func (k ErrorKind) Transient() bool {
	switch k {
	case ErrNoSpeech, ErrAudioCapture, ErrNetwork:
		return true
	default:
		return false
	}
}

// Recognizer produces a lazy, possibly-infinite sequence of speech
// recognition events. Implementations are owned exclusively by the session
// manager; no other component may start or stop one.
type Recognizer interface {
	// Start arms the device. Starting an already armed recognizer returns
	// ErrAlreadyStarted, which callers treat as a no-op.
	Start() error

	// Stop disarms the device. Stopping an idle recognizer is a no-op.
	Stop()

	// OnStart sets the callback fired when the device begins capturing.
	OnStart(fn func())

	// OnResult sets the callback for recognition results. isFinal marks a
	// stable transcript; interim results may be revised.
	OnResult(fn func(text string, isFinal bool))

	// OnError sets the callback for device errors.
	OnError(fn func(kind ErrorKind))

	// OnEnd sets the callback fired when capture ends for any reason,
	// including device-initiated stops the owner never requested.
	OnEnd(fn func())
}
