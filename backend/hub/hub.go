// Copyright (C) 2025 efchat.net <tj@efchat.net>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package hub

import (
	"log"
	"strings"
	"sync"

	"github.com/efchatnet/relay/backend/models"
	"github.com/efchatnet/relay/backend/storage"
)

type inbound struct {
	client *Client
	event  ClientEvent
}

// Hub routes message lifecycle events to the connections subscribed to each
// conversation. Room state lives in memory and is scoped to this process;
// membership is validated against the participants table at join time, not
// per broadcast.
type Hub struct {
	store    storage.Store
	presence storage.PresenceStore // optional fast mirror, may be nil

	clients map[*Client]bool
	rooms   map[int64]map[*Client]bool

	// Connections per user. The durable online flag flips only on the
	// 0->1 and 1->0 transitions, so a second tab closing does not mark a
	// still-connected user offline.
	connCounts map[int64]int

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound

	mu sync.RWMutex
}

func New(store storage.Store, presence storage.PresenceStore) *Hub {
	return &Hub{
		store:      store,
		presence:   presence,
		clients:    make(map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		connCounts: make(map[int64]int),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 256),
	}
}

// Run is the hub's event loop. All room mutations happen here, on a single
// goroutine. Start it once, as `go hub.Run()`.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case in := <-h.inbound:
			h.handleEvent(in.client, in.event)
		}
	}
}

// Register hands a freshly upgraded connection to the event loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.connCounts[client.userID]++
	first := h.connCounts[client.userID] == 1
	h.mu.Unlock()

	if first {
		h.setPresence(client.userID, true)
	}
	log.Printf("hub: user %d connected (%s)", client.userID, client.connID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)

	// Drop the connection from every room it joined. Peers are not
	// notified; they infer absence.
	for conversationID := range client.rooms {
		h.removeFromRoom(client, conversationID)
	}

	h.connCounts[client.userID]--
	last := h.connCounts[client.userID] == 0
	if last {
		delete(h.connCounts, client.userID)
	}
	h.mu.Unlock()

	if last {
		h.setPresence(client.userID, false)
	}
	log.Printf("hub: user %d disconnected (%s)", client.userID, client.connID)
}

func (h *Hub) handleEvent(client *Client, ev ClientEvent) {
	switch ev.Type {
	case EventJoin:
		h.handleJoin(client, ev.ConversationID)
	case EventLeave:
		h.handleLeave(client, ev.ConversationID)
	case EventSendMessage:
		h.handleSend(client, ev.ConversationID, ev.Message)
	case EventEditMessage:
		h.handleEdit(client, ev.MessageID, ev.NewContent)
	case EventDeleteMessage:
		h.handleDelete(client, ev.MessageID)
	default:
		log.Printf("hub: user %d sent unknown event type %q", client.userID, ev.Type)
	}
}

// handleJoin subscribes the connection to a conversation's room, but only
// if a participant row authorizes the user. A denial changes nothing and
// is not reported to the caller.
func (h *Hub) handleJoin(client *Client, conversationID int64) {
	ok, err := h.store.IsParticipant(client.userID, conversationID)
	if err != nil {
		log.Printf("hub: membership check failed for user %d, conversation %d: %v", client.userID, conversationID, err)
		return
	}
	if !ok {
		log.Printf("hub: access denied for user %d to conversation %d", client.userID, conversationID)
		return
	}

	h.mu.Lock()
	if _, exists := h.rooms[conversationID]; !exists {
		h.rooms[conversationID] = make(map[*Client]bool)
	}
	h.rooms[conversationID][client] = true
	client.rooms[conversationID] = true
	h.mu.Unlock()

	log.Printf("hub: user %d joined room %d", client.userID, conversationID)
}

// handleLeave removes the connection from a room unconditionally. Leaving
// a room you are not in is a no-op.
func (h *Hub) handleLeave(client *Client, conversationID int64) {
	h.mu.Lock()
	h.removeFromRoom(client, conversationID)
	h.mu.Unlock()
}

// removeFromRoom must be called with h.mu held.
func (h *Hub) removeFromRoom(client *Client, conversationID int64) {
	if room, exists := h.rooms[conversationID]; exists {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, conversationID)
		}
	}
	delete(client.rooms, conversationID)
}

// handleSend persists a message and, once it is durable, fans it out to
// the conversation's current subscribers. A sender without a participant
// row is dropped silently.
func (h *Hub) handleSend(client *Client, conversationID int64, content string) {
	ok, err := h.store.IsParticipant(client.userID, conversationID)
	if err != nil {
		log.Printf("hub: membership check failed for user %d, conversation %d: %v", client.userID, conversationID, err)
		return
	}
	if !ok {
		log.Printf("hub: send denied for user %d to conversation %d", client.userID, conversationID)
		return
	}

	msg, err := h.store.SaveMessage(conversationID, client.userID, content)
	if err != nil {
		log.Printf("hub: failed to save message from user %d in conversation %d: %v", client.userID, conversationID, err)
		return
	}

	h.broadcast(conversationID, &ServerEvent{
		Type:           EventNewMessage,
		MessageID:      msg.MessageID,
		ConversationID: conversationID,
		SenderID:       client.userID,
		SenderName:     client.username,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt.Format(models.TimeFormat),
	})
}

// handleEdit mutates a message in place. Only the original sender may
// edit, regardless of current room membership, and the replacement content
// must be non-empty after trimming. Every failure is a silent no-op.
func (h *Hub) handleEdit(client *Client, messageID int64, newContent string) {
	if strings.TrimSpace(newContent) == "" {
		return
	}

	msg, err := h.store.GetMessage(messageID)
	if err != nil {
		log.Printf("hub: failed to load message %d: %v", messageID, err)
		return
	}
	if msg == nil {
		return
	}
	if msg.SenderID == nil || *msg.SenderID != client.userID {
		log.Printf("hub: user %d tried to edit foreign message %d", client.userID, messageID)
		return
	}

	if err := h.store.UpdateMessageContent(messageID, newContent); err != nil {
		log.Printf("hub: failed to update message %d: %v", messageID, err)
		return
	}

	h.broadcast(msg.ConversationID, &ServerEvent{
		Type:           EventMessageUpdated,
		MessageID:      messageID,
		ConversationID: msg.ConversationID,
		Content:        newContent,
		IsEdited:       true,
	})
}

// handleDelete removes a message permanently. Only the original sender may
// delete. Same silent no-op policy as edit.
func (h *Hub) handleDelete(client *Client, messageID int64) {
	msg, err := h.store.GetMessage(messageID)
	if err != nil {
		log.Printf("hub: failed to load message %d: %v", messageID, err)
		return
	}
	if msg == nil {
		return
	}
	if msg.SenderID == nil || *msg.SenderID != client.userID {
		log.Printf("hub: user %d tried to delete foreign message %d", client.userID, messageID)
		return
	}

	if err := h.store.DeleteMessage(messageID); err != nil {
		log.Printf("hub: failed to delete message %d: %v", messageID, err)
		return
	}

	h.broadcast(msg.ConversationID, &ServerEvent{
		Type:           EventMessageDeleted,
		MessageID:      messageID,
		ConversationID: msg.ConversationID,
	})
}

// broadcast delivers an event to every connection subscribed to the room
// at call time. The subscriber list is snapshotted under the read lock so
// slow sends never hold it. A client whose send buffer is full is assumed
// dead and scheduled for unregistration; it must not stall the others.
func (h *Hub) broadcast(conversationID int64, ev *ServerEvent) {
	h.mu.RLock()
	room := h.rooms[conversationID]
	targets := make([]*Client, 0, len(room))
	for c := range room {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- ev:
		default:
			log.Printf("hub: send buffer full for user %d (%s), dropping connection", c.userID, c.connID)
			go func(cl *Client) { h.unregister <- cl }(c)
		}
	}
}

// setPresence records an online transition in Postgres and, when
// configured, the Redis mirror. Presence failures are logged, never fatal.
func (h *Hub) setPresence(userID int64, online bool) {
	if err := h.store.SetUserOnline(userID, online); err != nil {
		log.Printf("hub: failed to persist presence for user %d: %v", userID, err)
	}
	if h.presence != nil {
		if err := h.presence.SetOnline(userID, online); err != nil {
			log.Printf("hub: failed to mirror presence for user %d: %v", userID, err)
		}
	}
}
