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

// ConversationType distinguishes 1:1 chats from group chats
type ConversationType string

const (
	ConversationPrivate ConversationType = "private"
	ConversationGroup   ConversationType = "group"
)

// Conversation is a chat between two users ("private") or more ("group").
// UpdatedAt is bumped on every accepted message and orders a user's
// conversation list.
type Conversation struct {
	ConversationID int64            `json:"conversation_id" db:"conversation_id"`
	Type           ConversationType `json:"type" db:"type"`
	Name           string           `json:"name,omitempty" db:"name"`
	AvatarURL      string           `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// Participant authorizes a user to act within a conversation. The
// participants table is the sole source of truth for membership checks.
type Participant struct {
	ParticipantID  int64     `json:"participant_id" db:"participant_id"`
	ConversationID int64     `json:"conversation_id" db:"conversation_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	IsAdmin        bool      `json:"is_admin" db:"is_admin"`
	JoinedAt       time.Time `json:"joined_at" db:"joined_at"`
}
