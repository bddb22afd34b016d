package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopeat/go-shopeat/pkg/protocol"
	"github.com/shopeat/go-shopeat/pkg/shopping"
)

// replyRecorder captures messages sent back to one client.
type replyRecorder struct {
	sent [][]byte
}

func (r *replyRecorder) Send(data []byte) {
	r.sent = append(r.sent, append([]byte(nil), data...))
}

func (r *replyRecorder) messages(t *testing.T) []protocol.Message {
	t.Helper()
	msgs := make([]protocol.Message, 0, len(r.sent))
	for _, data := range r.sent {
		msg, err := protocol.Decode(data)
		if err != nil {
			t.Fatalf("decode response: %v", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func (r *replyRecorder) last(t *testing.T) protocol.Message {
	t.Helper()
	msgs := r.messages(t)
	if len(msgs) == 0 {
		t.Fatal("no messages sent to client")
	}
	return msgs[len(msgs)-1]
}

func dispatch(t *testing.T, s *Server, r *replyRecorder, msg protocol.Message) {
	t.Helper()
	data, err := protocol.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s.handleInbound("test-client", r, data)
}

type failingAssistant struct{}

func (failingAssistant) Reply(context.Context, string) (string, error) {
	return "", errors.New("interpreter offline")
}

func TestVoiceInputAddsItems(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewVoiceInput("I need milk and bread please"))

	if s.Store().Len() != 2 {
		t.Fatalf("store length = %d, want 2", s.Store().Len())
	}
	names := map[string]bool{}
	for _, item := range s.Store().Snapshot().Items {
		names[item.Name] = true
	}
	if !names["milk"] || !names["bread"] {
		t.Errorf("store items = %v, want milk and bread", names)
	}

	resp, ok := r.last(t).(*protocol.VoiceResponse)
	if !ok {
		t.Fatalf("last message = %T, want *VoiceResponse", r.last(t))
	}
	if resp.TranscribedText != "I need milk and bread please" {
		t.Errorf("transcribed_text = %q, want the original input", resp.TranscribedText)
	}
	if !strings.Contains(resp.AIResponse, "milk and bread") {
		t.Errorf("ai_response = %q, want item names mentioned", resp.AIResponse)
	}
}

func TestVoiceInputClearIntent(t *testing.T) {
	s := newTestServer(t)
	s.Store().Add(shopping.NewItem("milk"))
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewVoiceInput("clear the list"))

	if s.Store().Len() != 0 {
		t.Fatalf("store length = %d, want 0 after clear", s.Store().Len())
	}
	resp, ok := r.last(t).(*protocol.VoiceResponse)
	if !ok {
		t.Fatalf("last message = %T, want *VoiceResponse", r.last(t))
	}
	if !strings.Contains(resp.AIResponse, "cleared") {
		t.Errorf("ai_response = %q, want clear confirmation", resp.AIResponse)
	}
}

func TestVoiceInputListReadback(t *testing.T) {
	s := newTestServer(t)
	s.Store().Add(shopping.NewItem("milk"))
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewVoiceInput("what's on the list"))

	msgs := r.messages(t)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want snapshot plus spoken readback", len(msgs))
	}
	list, ok := msgs[0].(*protocol.ShoppingList)
	if !ok {
		t.Fatalf("first message = %T, want *ShoppingList", msgs[0])
	}
	if list.TotalItems != 1 {
		t.Errorf("total_items = %d, want 1", list.TotalItems)
	}
	resp, ok := msgs[1].(*protocol.VoiceResponse)
	if !ok {
		t.Fatalf("second message = %T, want *VoiceResponse", msgs[1])
	}
	if !strings.Contains(resp.AIResponse, "milk") {
		t.Errorf("ai_response = %q, want the item read back", resp.AIResponse)
	}
	if s.Store().Len() != 1 {
		t.Errorf("store length = %d, readback must not mutate", s.Store().Len())
	}
}

func TestVoiceInputFallbackOnAssistantError(t *testing.T) {
	s := New(Config{Addr: ":0", Assistant: failingAssistant{}})
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewVoiceInput("I need milk"))

	// Extraction still happens; only the spoken reply degrades.
	if s.Store().Len() != 1 {
		t.Fatalf("store length = %d, want 1", s.Store().Len())
	}
	resp, ok := r.last(t).(*protocol.VoiceResponse)
	if !ok {
		t.Fatalf("last message = %T, want *VoiceResponse", r.last(t))
	}
	if resp.AIResponse != fallbackReply {
		t.Errorf("ai_response = %q, want fallback reply", resp.AIResponse)
	}
}

func TestShoppingActionAddItem(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewAddItem(shopping.NewItem("Eggs ")))

	if s.Store().Len() != 1 {
		t.Fatalf("store length = %d, want 1", s.Store().Len())
	}
	if got := s.Store().Snapshot().Items[0].Name; got != "eggs" {
		t.Errorf("name = %q, want normalized eggs", got)
	}
	if len(r.sent) != 0 {
		t.Errorf("got %d personal messages, add_item answers via broadcast only", len(r.sent))
	}
}

func TestShoppingActionAddItemRequiresItem(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	dispatch(t, s, r, &protocol.ShoppingAction{
		Type:   protocol.TypeShoppingAction,
		Action: protocol.ActionAddItem,
	})

	errMsg, ok := r.last(t).(*protocol.ErrorMessage)
	if !ok {
		t.Fatalf("last message = %T, want *ErrorMessage", r.last(t))
	}
	if errMsg.Message != "add_item requires an item" {
		t.Errorf("message = %q", errMsg.Message)
	}
	if s.Store().Len() != 0 {
		t.Errorf("store length = %d, want 0", s.Store().Len())
	}
}

func TestShoppingActionGetList(t *testing.T) {
	s := newTestServer(t)
	s.Store().Add(shopping.NewItem("milk"))
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewGetList())

	list, ok := r.last(t).(*protocol.ShoppingList)
	if !ok {
		t.Fatalf("last message = %T, want *ShoppingList", r.last(t))
	}
	if list.TotalItems != 1 || list.Items[0].Name != "milk" {
		t.Errorf("snapshot = %+v, want the stored item", list)
	}
}

func TestShoppingActionClearList(t *testing.T) {
	s := newTestServer(t)
	s.Store().Add(shopping.NewItem("milk"))
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewClearList())

	if s.Store().Len() != 0 {
		t.Errorf("store length = %d, want 0", s.Store().Len())
	}
}

func TestShoppingActionUnknown(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	dispatch(t, s, r, &protocol.ShoppingAction{
		Type:   protocol.TypeShoppingAction,
		Action: "teleport",
	})

	errMsg, ok := r.last(t).(*protocol.ErrorMessage)
	if !ok {
		t.Fatalf("last message = %T, want *ErrorMessage", r.last(t))
	}
	if errMsg.Message != "Unknown action: teleport" {
		t.Errorf("message = %q", errMsg.Message)
	}
}

func TestPingAnswered(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	dispatch(t, s, r, protocol.NewPing("p1"))

	pong, ok := r.last(t).(*protocol.Pong)
	if !ok {
		t.Fatalf("last message = %T, want *Pong", r.last(t))
	}
	if pong.ID != "p1" {
		t.Errorf("pong id = %q, want p1", pong.ID)
	}
}

func TestUnrecognizedTypeEchoed(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	raw := []byte(`{"type":"hologram","x":1}`)
	s.handleInbound("test-client", r, raw)

	echo, ok := r.last(t).(*protocol.Echo)
	if !ok {
		t.Fatalf("last message = %T, want *Echo", r.last(t))
	}
	if string(echo.Data) != string(raw) {
		t.Errorf("echo data = %s, want the original payload", echo.Data)
	}
}

func TestUndecodableInputGetsError(t *testing.T) {
	s := newTestServer(t)
	r := &replyRecorder{}

	s.handleInbound("test-client", r, []byte("not json"))

	errMsg, ok := r.last(t).(*protocol.ErrorMessage)
	if !ok {
		t.Fatalf("last message = %T, want *ErrorMessage", r.last(t))
	}
	if errMsg.Message != "invalid message" {
		t.Errorf("message = %q, want invalid message", errMsg.Message)
	}
}
