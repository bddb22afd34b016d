package session

import (
	"github.com/shopeat/go-shopeat/internal/log"
	"github.com/shopeat/go-shopeat/pkg/protocol"
	"github.com/shopeat/go-shopeat/pkg/shopping"
	"github.com/shopeat/go-shopeat/pkg/transport"
)

// HandleMessage processes one inbound backend message. Undecodable payloads
// and unknown types are logged and dropped; they never fault the session.
// Wire it to transport.Client.OnMessage.
func (m *Manager) HandleMessage(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn("dropping undecodable message", "error", err)
		return
	}

	switch msg := msg.(type) {
	case *protocol.VoiceResponse:
		m.handleVoiceResponse(msg)
	case *protocol.ShoppingList:
		if m.projector != nil {
			m.projector.Apply(msg.Snapshot())
		}
	case *protocol.ShoppingUpdate:
		m.events.ListChanged(msg.Action, msg.Item, msg.TotalItems)
	case *protocol.ErrorMessage:
		m.handleServerError(msg)
	case *protocol.Ping:
		if data, err := protocol.Encode(protocol.NewPong(msg)); err == nil {
			if err := m.sender.Send(data); err != nil {
				log.Debug("pong send failed", "error", err)
			}
		}
	case *protocol.Unknown:
		log.Debug("ignoring unknown message type", "type", msg.Kind())
	default:
		log.Debug("ignoring message", "type", msg.Kind())
	}
}

// HandleTransportState reacts to connection transitions. On every open the
// client asks for a fresh list snapshot. The pending transcript, if any, is
// never resent after a reconnect; the response deadline decides its fate.
// Wire it to transport.Client.OnStatus.
func (m *Manager) HandleTransportState(state transport.State) {
	m.events.ConnectionChanged(state)
	if state != transport.StateOpen {
		return
	}
	if err := m.RequestList(); err != nil {
		log.Debug("list request on open failed", "error", err)
	}
}

// handleVoiceResponse consumes the assistant's answer. Outside
// AwaitingResponse the reply is displayed but never spoken, so playback
// cannot feed back into an armed microphone.
func (m *Manager) handleVoiceResponse(msg *protocol.VoiceResponse) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.mode != ModeAwaitingResponse {
		m.mu.Unlock()
		log.Debug("voice response outside awaiting, display only")
		m.events.AssistantReplied(msg.AIResponse, msg.TranscribedText)
		return
	}

	m.pendingTranscript = ""
	m.stopTimersLocked()
	cont := m.continuous
	spoken := msg.AIResponse != ""
	var notify func()
	if spoken {
		notify = m.setModeLocked(ModeSpeaking)
	}
	m.mu.Unlock()

	m.events.AssistantReplied(msg.AIResponse, msg.TranscribedText)
	if spoken {
		notify()
		if err := m.speaker.Speak(msg.AIResponse, m.cfg.SpeakOptions); err != nil {
			log.Warn("reply playback failed", "error", err)
		}
	}

	switch {
	case cont:
		// Fire-and-forget playback; capture re-arms immediately.
		m.armCapture()
	case !spoken:
		m.mu.Lock()
		idle := m.setModeLocked(ModeIdle)
		m.mu.Unlock()
		idle()
	}
	// Not continuous and speaking: onSpeechDone settles the session in Idle.
}

// handleServerError surfaces the failure and, when an answer was pending,
// resolves the wait the same way a reply would.
func (m *Manager) handleServerError(msg *protocol.ErrorMessage) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	awaiting := m.mode == ModeAwaitingResponse
	if awaiting {
		m.pendingTranscript = ""
		m.stopTimersLocked()
	}
	m.mu.Unlock()

	log.Warn("server error", "message", msg.Message)
	m.events.Notice("Assistant error: " + msg.Message)
	if awaiting {
		m.resumeOrIdle()
	}
}

// AddItem sends an explicit add_item action.
func (m *Manager) AddItem(item shopping.Item) error {
	return m.send(protocol.NewAddItem(item))
}

// RequestList asks for the authoritative list snapshot.
func (m *Manager) RequestList() error {
	return m.send(protocol.NewGetList())
}

// ClearList sends a clear_list action.
func (m *Manager) ClearList() error {
	return m.send(protocol.NewClearList())
}

func (m *Manager) send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return m.sender.Send(data)
}
