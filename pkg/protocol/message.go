// Package protocol defines the WebSocket message types for client-backend
// communication. Every message is independently decodable JSON carrying a
// "type" discriminator; unknown types are surfaced as Unknown so callers can
// ignore them without breaking against newer servers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopeat/go-shopeat/pkg/shopping"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client → Server messages
	TypeVoiceInput     MessageType = "voice_input"     // Finalized transcript
	TypeShoppingAction MessageType = "shopping_action" // Explicit list mutation

	// Server → Client messages
	TypeVoiceResponse  MessageType = "voice_response"  // Assistant reply text
	TypeShoppingUpdate MessageType = "shopping_update" // List change notification
	TypeShoppingList   MessageType = "shopping_list"   // Authoritative snapshot
	TypeError          MessageType = "error"           // Recoverable failure notice
	TypeEcho           MessageType = "echo"            // Unrecognized input echoed back

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Action identifies a shopping list operation or change notification.
type Action string

const (
	// Client-requested actions
	ActionAddItem   Action = "add_item"
	ActionGetList   Action = "get_list"
	ActionClearList Action = "clear_list"

	// Server-reported changes
	ActionItemAdded   Action = "item_added"
	ActionListCleared Action = "list_cleared"
)

// Message is implemented by every wire message.
type Message interface {
	// Kind returns the message's type discriminator.
	Kind() MessageType
}

// VoiceInput submits a finalized transcript for interpretation.
type VoiceInput struct {
	Type      MessageType `json:"type"`
	Text      string      `json:"text"`
	Timestamp int64       `json:"timestamp,omitempty"` // Unix milliseconds
}

// ShoppingAction requests an explicit list mutation or a snapshot.
type ShoppingAction struct {
	Type   MessageType    `json:"type"`
	Action Action         `json:"action"`
	Item   *shopping.Item `json:"item,omitempty"`
}

// VoiceResponse carries the assistant's reply, to be spoken and displayed.
type VoiceResponse struct {
	Type            MessageType `json:"type"`
	AIResponse      string      `json:"ai_response"`
	TranscribedText string      `json:"transcribed_text,omitempty"`
	Timestamp       int64       `json:"timestamp,omitempty"`
}

// ShoppingUpdate notifies that the list changed. It is always followed by,
// or accompanied with, a fresh ShoppingList snapshot.
type ShoppingUpdate struct {
	Type       MessageType    `json:"type"`
	Action     Action         `json:"action"`
	Item       *shopping.Item `json:"item,omitempty"`
	TotalItems int            `json:"total_items"`
}

// ShoppingList is the full authoritative snapshot. It is the only way list
// state is established on the client.
type ShoppingList struct {
	Type       MessageType     `json:"type"`
	Items      []shopping.Item `json:"items"`
	TotalItems int             `json:"total_items"`
}

// ErrorMessage reports a recoverable failure. It never terminates a session.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// Echo wraps input the server did not recognize.
type Echo struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Ping is a health check probe.
type Ping struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id"`
	Timestamp int64       `json:"ts"`
}

// Pong answers a Ping.
type Pong struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id"`
	PingTS    int64       `json:"ping_ts"`
	PongTS    int64       `json:"pong_ts"`
	LatencyMs int64       `json:"latency_ms"`
}

// Unknown preserves a message whose type is not part of this vocabulary.
// Receivers ignore it; forward-compatible servers may send new types.
type Unknown struct {
	Type MessageType
	Raw  json.RawMessage
}

func (m *VoiceInput) Kind() MessageType     { return TypeVoiceInput }
func (m *ShoppingAction) Kind() MessageType { return TypeShoppingAction }
func (m *VoiceResponse) Kind() MessageType  { return TypeVoiceResponse }
func (m *ShoppingUpdate) Kind() MessageType { return TypeShoppingUpdate }
func (m *ShoppingList) Kind() MessageType   { return TypeShoppingList }
func (m *ErrorMessage) Kind() MessageType   { return TypeError }
func (m *Echo) Kind() MessageType           { return TypeEcho }
func (m *Ping) Kind() MessageType           { return TypePing }
func (m *Pong) Kind() MessageType           { return TypePong }
func (m *Unknown) Kind() MessageType        { return m.Type }

// Encode returns the JSON encoding of a message.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to encode %s message: %w", m.Kind(), err)
	}
	return data, nil
}

// envelope is used to peek at the type discriminator before full decoding.
type envelope struct {
	Type MessageType `json:"type"`
}

// Decode parses a JSON message from bytes into its typed form.
// Messages with an unrecognized type decode to *Unknown, not an error.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: failed to parse message: %w", err)
	}

	var msg Message
	switch env.Type {
	case TypeVoiceInput:
		msg = &VoiceInput{}
	case TypeShoppingAction:
		msg = &ShoppingAction{}
	case TypeVoiceResponse:
		msg = &VoiceResponse{}
	case TypeShoppingUpdate:
		msg = &ShoppingUpdate{}
	case TypeShoppingList:
		msg = &ShoppingList{}
	case TypeError:
		msg = &ErrorMessage{}
	case TypeEcho:
		msg = &Echo{}
	case TypePing:
		msg = &Ping{}
	case TypePong:
		msg = &Pong{}
	default:
		return &Unknown{Type: env.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("protocol: failed to parse %s message: %w", env.Type, err)
	}
	return msg, nil
}

// now returns the current time in Unix milliseconds.
func now() int64 {
	return time.Now().UnixMilli()
}
