package protocol

import "github.com/shopeat/go-shopeat/pkg/shopping"

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewVoiceInput creates a voice_input message with the current timestamp.
func NewVoiceInput(text string) *VoiceInput {
	return &VoiceInput{
		Type:      TypeVoiceInput,
		Text:      text,
		Timestamp: now(),
	}
}

// NewAddItem creates a shopping_action message adding an item.
func NewAddItem(item shopping.Item) *ShoppingAction {
	normalized := item.Normalize()
	return &ShoppingAction{
		Type:   TypeShoppingAction,
		Action: ActionAddItem,
		Item:   &normalized,
	}
}

// NewGetList creates a shopping_action message requesting a snapshot.
func NewGetList() *ShoppingAction {
	return &ShoppingAction{
		Type:   TypeShoppingAction,
		Action: ActionGetList,
	}
}

// NewClearList creates a shopping_action message clearing the list.
func NewClearList() *ShoppingAction {
	return &ShoppingAction{
		Type:   TypeShoppingAction,
		Action: ActionClearList,
	}
}

// NewVoiceResponse creates a voice_response message.
func NewVoiceResponse(aiResponse, transcribedText string) *VoiceResponse {
	return &VoiceResponse{
		Type:            TypeVoiceResponse,
		AIResponse:      aiResponse,
		TranscribedText: transcribedText,
		Timestamp:       now(),
	}
}

// NewItemAdded creates a shopping_update message for an added item.
func NewItemAdded(item shopping.Item, totalItems int) *ShoppingUpdate {
	return &ShoppingUpdate{
		Type:       TypeShoppingUpdate,
		Action:     ActionItemAdded,
		Item:       &item,
		TotalItems: totalItems,
	}
}

// NewListCleared creates a shopping_update message for a cleared list.
func NewListCleared() *ShoppingUpdate {
	return &ShoppingUpdate{
		Type:       TypeShoppingUpdate,
		Action:     ActionListCleared,
		TotalItems: 0,
	}
}

// NewShoppingList creates a shopping_list snapshot message.
func NewShoppingList(snapshot shopping.Snapshot) *ShoppingList {
	return &ShoppingList{
		Type:       TypeShoppingList,
		Items:      snapshot.Items,
		TotalItems: len(snapshot.Items),
	}
}

// NewError creates an error message.
func NewError(message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    TypeError,
		Message: message,
	}
}

// NewPing creates a ping message with the current timestamp.
func NewPing(id string) *Ping {
	return &Ping{
		Type:      TypePing,
		ID:        id,
		Timestamp: now(),
	}
}

// NewPong creates a pong response to a ping.
func NewPong(ping *Ping) *Pong {
	pongTS := now()
	return &Pong{
		Type:      TypePong,
		ID:        ping.ID,
		PingTS:    ping.Timestamp,
		PongTS:    pongTS,
		LatencyMs: pongTS - ping.Timestamp,
	}
}

// Snapshot converts a shopping_list message into a model snapshot.
func (m *ShoppingList) Snapshot() shopping.Snapshot {
	return shopping.Snapshot{Items: m.Items}
}
