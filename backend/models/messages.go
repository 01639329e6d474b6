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

package models

import "time"

// Message is a persisted chat message. SenderID is nil once the sender
// account has been deleted; the message itself survives. Deletion of a
// message is destructive, there is no soft-delete.
type Message struct {
	MessageID      int64     `json:"message_id" db:"message_id"`
	ConversationID int64     `json:"conversation_id" db:"conversation_id"`
	SenderID       *int64    `json:"sender_id" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	IsEdited       bool      `json:"is_edited" db:"is_edited"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// MessageView is a message joined with its sender's display name, shaped
// for the history endpoint. CreatedAt carries display precision only
// (HH:MM); ordering relies on database insertion order.
type MessageView struct {
	MessageID  int64  `json:"message_id"`
	SenderID   *int64 `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	IsEdited   bool   `json:"is_edited"`
	CreatedAt  string `json:"created_at"`
}

// DeletedSenderName is shown in place of a username when the sender
// account no longer exists.
const DeletedSenderName = "Deleted user"

// TimeFormat is the wall-clock display format used on the wire.
const TimeFormat = "15:04"
