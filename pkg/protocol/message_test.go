package protocol

import (
	"encoding/json"
	"testing"

	"github.com/shopeat/go-shopeat/pkg/shopping"
)

func TestDecodeTypedMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind MessageType
	}{
		{
			name: "voice input",
			raw:  `{"type":"voice_input","text":"add milk","timestamp":1700000000000}`,
			kind: TypeVoiceInput,
		},
		{
			name: "shopping action",
			raw:  `{"type":"shopping_action","action":"add_item","item":{"name":"milk","quantity":1,"category":"dairy"}}`,
			kind: TypeShoppingAction,
		},
		{
			name: "voice response",
			raw:  `{"type":"voice_response","ai_response":"Added milk","transcribed_text":"add milk"}`,
			kind: TypeVoiceResponse,
		},
		{
			name: "shopping update",
			raw:  `{"type":"shopping_update","action":"item_added","item":{"name":"milk","quantity":1,"category":"dairy"},"total_items":1}`,
			kind: TypeShoppingUpdate,
		},
		{
			name: "shopping list",
			raw:  `{"type":"shopping_list","items":[],"total_items":0}`,
			kind: TypeShoppingList,
		},
		{
			name: "error",
			raw:  `{"type":"error","message":"boom"}`,
			kind: TypeError,
		},
		{
			name: "echo",
			raw:  `{"type":"echo","data":{"anything":true}}`,
			kind: TypeEcho,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if msg.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", msg.Kind(), tt.kind)
			}
			if _, unknown := msg.(*Unknown); unknown {
				t.Error("Decode() returned Unknown for a known type")
			}
		})
	}
}

func TestDecodeVoiceInputFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"voice_input","text":"add milk","timestamp":42}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	input, ok := msg.(*VoiceInput)
	if !ok {
		t.Fatalf("Decode() = %T, want *VoiceInput", msg)
	}
	if input.Text != "add milk" {
		t.Errorf("Text = %q, want %q", input.Text, "add milk")
	}
	if input.Timestamp != 42 {
		t.Errorf("Timestamp = %d, want 42", input.Timestamp)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	raw := `{"type":"hologram","payload":123}`
	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v, unknown types must not fail", err)
	}
	unknown, ok := msg.(*Unknown)
	if !ok {
		t.Fatalf("Decode() = %T, want *Unknown", msg)
	}
	if unknown.Kind() != "hologram" {
		t.Errorf("Kind() = %v, want hologram", unknown.Kind())
	}
	if string(unknown.Raw) != raw {
		t.Errorf("Raw = %s, want original payload", unknown.Raw)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not json"},
		{"wrong field type", `{"type":"voice_input","text":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.raw)); err == nil {
				t.Error("Decode() error = nil, want parse error")
			}
		})
	}
}

func TestVoiceInputRoundTrip(t *testing.T) {
	original := NewVoiceInput("add milk and bread")
	if original.Timestamp == 0 {
		t.Error("NewVoiceInput() timestamp should be set")
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	input, ok := decoded.(*VoiceInput)
	if !ok {
		t.Fatalf("Decode() = %T, want *VoiceInput", decoded)
	}
	if input.Text != original.Text || input.Timestamp != original.Timestamp {
		t.Errorf("round trip mismatch: %+v != %+v", input, original)
	}
}

func TestShoppingListSnapshot(t *testing.T) {
	snapshot := shopping.Snapshot{Items: []shopping.Item{
		{Name: "milk", Quantity: 2, Category: "dairy"},
		{Name: "bread", Quantity: 1, Category: "bakery"},
	}}

	msg := NewShoppingList(snapshot)
	if msg.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", msg.TotalItems)
	}

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	list := decoded.(*ShoppingList)
	if !list.Snapshot().Equal(snapshot) {
		t.Errorf("Snapshot() = %+v, want %+v", list.Snapshot(), snapshot)
	}
}

func TestNewAddItemNormalizes(t *testing.T) {
	msg := NewAddItem(shopping.Item{Name: " Milk "})
	if msg.Action != ActionAddItem {
		t.Errorf("Action = %v, want %v", msg.Action, ActionAddItem)
	}
	if msg.Item.Name != "milk" {
		t.Errorf("Name = %q, want milk", msg.Item.Name)
	}
	if msg.Item.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", msg.Item.Quantity)
	}
	if msg.Item.Category != shopping.DefaultCategory {
		t.Errorf("Category = %q, want %q", msg.Item.Category, shopping.DefaultCategory)
	}
}

func TestPongLatency(t *testing.T) {
	ping := NewPing("p1")
	pong := NewPong(ping)
	if pong.ID != "p1" {
		t.Errorf("ID = %q, want p1", pong.ID)
	}
	if pong.PingTS != ping.Timestamp {
		t.Errorf("PingTS = %d, want %d", pong.PingTS, ping.Timestamp)
	}
	if pong.LatencyMs != pong.PongTS-pong.PingTS {
		t.Errorf("LatencyMs = %d, want %d", pong.LatencyMs, pong.PongTS-pong.PingTS)
	}
}

func TestOmittedOptionalFields(t *testing.T) {
	data, err := Encode(NewGetList())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["item"]; present {
		t.Error("get_list must not carry an item field")
	}
}
