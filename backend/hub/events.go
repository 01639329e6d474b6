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

// Client-to-server event types
const (
	EventJoin          = "join"
	EventLeave         = "leave"
	EventSendMessage   = "send_message"
	EventEditMessage   = "edit_message"
	EventDeleteMessage = "delete_message"
)

// Server-to-room event types
const (
	EventNewMessage     = "new_message"
	EventMessageUpdated = "message_updated"
	EventMessageDeleted = "message_deleted"
)

// ClientEvent is the envelope for everything a connection sends after the
// websocket handshake. Which fields matter depends on Type.
type ClientEvent struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversation_id"`
	MessageID      int64  `json:"message_id,omitempty"`
	Message        string `json:"message,omitempty"`
	NewContent     string `json:"new_content,omitempty"`
}

// ServerEvent is the envelope broadcast to a room. CreatedAt is wall-clock
// display precision only (HH:MM); clients order by message id.
type ServerEvent struct {
	Type           string `json:"type"`
	MessageID      int64  `json:"message_id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	Content        string `json:"content,omitempty"`
	IsEdited       bool   `json:"is_edited,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}
