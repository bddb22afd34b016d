package server

import (
	"context"
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/shopeat/go-shopeat/internal/log"
	"github.com/shopeat/go-shopeat/pkg/assist"
	"github.com/shopeat/go-shopeat/pkg/hub"
	"github.com/shopeat/go-shopeat/pkg/protocol"
)

// fallbackReply is spoken when the interpreter is unreachable.
const fallbackReply = "I'm having trouble understanding right now. Please try again."

// responder receives messages addressed to one session client. Satisfied by
// hub.Client; tests drive the dispatcher with a recorder.
type responder interface {
	Send(data []byte)
}

// handleSession owns one websocket session from upgrade to disconnect.
func (s *Server) handleSession(conn *websocket.Conn) {
	clientID := conn.Params("client_id")

	var client *hub.Client
	client = hub.NewClient(s.sessions, conn, clientID, func(data []byte) {
		s.handleInbound(clientID, client, data)
	})
	client.Run()
}

// handleInbound processes one message from a session client. Responses go to
// the sender; list changes are broadcast to everyone.
func (s *Server) handleInbound(id string, r responder, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn("undecodable message", "client", id, "error", err)
		s.sendTo(r, protocol.NewError("invalid message"))
		return
	}

	log.Debug("received", "client", id, "type", msg.Kind())

	switch msg := msg.(type) {
	case *protocol.VoiceInput:
		s.handleVoiceInput(id, r, msg)
	case *protocol.ShoppingAction:
		s.handleShoppingAction(r, msg)
	case *protocol.Ping:
		s.sendTo(r, protocol.NewPong(msg))
	default:
		// Echo back for testing, matching the original backend behavior.
		s.sendTo(r, &protocol.Echo{Type: protocol.TypeEcho, Data: data})
	}
}

// handleVoiceInput interprets a transcript: list intents mutate the store,
// and the assistant's reply goes back to the speaker.
func (s *Server) handleVoiceInput(id string, r responder, msg *protocol.VoiceInput) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReplyTimeout)
	defer cancel()

	switch {
	case assist.WantsClear(msg.Text):
		s.store.Clear()
		s.broadcast(protocol.NewListCleared())
		s.broadcastListState()

	case assist.WantsList(msg.Text):
		s.sendTo(r, protocol.NewShoppingList(s.store.Snapshot()))
		s.sendTo(r, protocol.NewVoiceResponse(assist.Describe(s.store.Snapshot()), msg.Text))
		return

	default:
		items := assist.ExtractItems(msg.Text)
		for _, item := range items {
			added := s.store.Add(item)
			s.broadcast(protocol.NewItemAdded(added, s.store.Len()))
		}
		if len(items) > 0 {
			s.broadcastListState()
		}
	}

	reply, err := s.assistant.Reply(ctx, msg.Text)
	if err != nil {
		log.Warn("assistant reply failed", "client", id, "error", err)
		reply = fallbackReply
	}
	s.sendTo(r, protocol.NewVoiceResponse(reply, msg.Text))
}

// handleShoppingAction applies an explicit list operation.
func (s *Server) handleShoppingAction(r responder, msg *protocol.ShoppingAction) {
	switch msg.Action {
	case protocol.ActionAddItem:
		if msg.Item == nil || msg.Item.Name == "" {
			s.sendTo(r, protocol.NewError("add_item requires an item"))
			return
		}
		added := s.store.Add(*msg.Item)
		s.broadcast(protocol.NewItemAdded(added, s.store.Len()))
		s.broadcastListState()

	case protocol.ActionGetList:
		s.sendTo(r, protocol.NewShoppingList(s.store.Snapshot()))

	case protocol.ActionClearList:
		s.store.Clear()
		s.broadcast(protocol.NewListCleared())
		s.broadcastListState()

	default:
		s.sendTo(r, protocol.NewError(fmt.Sprintf("Unknown action: %s", msg.Action)))
	}
}

// sendTo delivers one message to a single client.
func (s *Server) sendTo(r responder, msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		log.Error("encode failed", "type", msg.Kind(), "error", err)
		return
	}
	r.Send(data)
}

// broadcast delivers one message to every connected client.
func (s *Server) broadcast(msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		log.Error("encode failed", "type", msg.Kind(), "error", err)
		return
	}
	s.sessions.Broadcast(data)
}

// broadcastListState pushes the authoritative snapshot to all clients so
// every device converges after a mutation.
func (s *Server) broadcastListState() {
	s.broadcast(protocol.NewShoppingList(s.store.Snapshot()))
}
