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

package storage

import (
	"github.com/efchatnet/relay/backend/models"
)

type UserStore interface {
	CreateUser(username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(userID int64) (*models.User, error)
	// SearchUsers matches usernames by case-insensitive substring,
	// excluding the searching user, capped at limit results.
	SearchUsers(query string, excludeUserID int64, limit int) ([]models.UserResult, error)
	// SetUserOnline flips the durable online flag and refreshes last_seen.
	SetUserOnline(userID int64, online bool) error
}

type ConversationStore interface {
	// CreateConversation inserts the conversation and all participant rows
	// in one transaction. For group conversations the creator is admin.
	CreateConversation(convType models.ConversationType, name string, createdBy int64, participantIDs []int64) (*models.Conversation, error)
	// GetUserConversations lists the conversations the user participates
	// in, most recently active first.
	GetUserConversations(userID int64) ([]models.Conversation, error)
	// IsParticipant is the membership check gating every realtime
	// operation. Absence of a row is a denial, never an error.
	IsParticipant(userID, conversationID int64) (bool, error)
}

type MessageStore interface {
	// SaveMessage inserts the message and bumps the conversation's
	// updated_at marker in one transaction. The id and timestamp are
	// server-assigned.
	SaveMessage(conversationID, senderID int64, content string) (*models.Message, error)
	// GetMessage returns nil, nil when the message does not exist.
	GetMessage(messageID int64) (*models.Message, error)
	// UpdateMessageContent replaces the content in place and sets is_edited.
	UpdateMessageContent(messageID int64, content string) error
	// DeleteMessage removes the row permanently.
	DeleteMessage(messageID int64) error
	// GetRecentMessages returns the newest limit messages of a
	// conversation, oldest first, with sender names resolved.
	GetRecentMessages(conversationID int64, limit int) ([]models.MessageView, error)
}

// PresenceStore mirrors the set of online users in a fast store so other
// services can read it without touching Postgres.
type PresenceStore interface {
	SetOnline(userID int64, online bool) error
	OnlineUserIDs() ([]int64, error)
}

type Store interface {
	UserStore
	ConversationStore
	MessageStore
}
