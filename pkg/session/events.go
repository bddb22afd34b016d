package session

import (
	"github.com/shopeat/go-shopeat/pkg/protocol"
	"github.com/shopeat/go-shopeat/pkg/shopping"
	"github.com/shopeat/go-shopeat/pkg/transport"
)

// Events receives session observations for display. The manager never knows
// what renders them; UI layers implement this interface.
type Events interface {
	// ModeChanged fires on every mode transition.
	ModeChanged(mode Mode)

	// ContinuousChanged fires when continuous mode is enabled or disabled.
	ContinuousChanged(enabled bool)

	// TranscriptReceived fires for every recognition result, interim and
	// final, so the UI can show live captions.
	TranscriptReceived(text string, isFinal bool)

	// AssistantReplied fires when a voice_response arrives.
	AssistantReplied(reply, transcribed string)

	// ListChanged fires when the server reports a list mutation.
	ListChanged(action protocol.Action, item *shopping.Item, totalItems int)

	// ConnectionChanged fires on transport state transitions.
	ConnectionChanged(state transport.State)

	// Notice fires for user-visible notices: recoverable errors, stalls,
	// and degraded states the user can act on.
	Notice(text string)
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) ModeChanged(Mode)                                 {}
func (NopEvents) ContinuousChanged(bool)                           {}
func (NopEvents) TranscriptReceived(string, bool)                  {}
func (NopEvents) AssistantReplied(string, string)                  {}
func (NopEvents) ListChanged(protocol.Action, *shopping.Item, int) {}
func (NopEvents) ConnectionChanged(transport.State)                {}
func (NopEvents) Notice(string)                                    {}

// Verify NopEvents implements Events at compile time.
var _ Events = NopEvents{}
