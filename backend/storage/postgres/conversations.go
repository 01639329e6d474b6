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

package postgres

import (
	"github.com/efchatnet/relay/backend/models"
)

// CreateConversation inserts the conversation and all participant rows in a
// single transaction. For group conversations the creator becomes admin.
func (s *Store) CreateConversation(convType models.ConversationType, name string, createdBy int64, participantIDs []int64) (*models.Conversation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var convo models.Conversation
	err = tx.QueryRow(`
		INSERT INTO conversations (type, name)
		VALUES ($1, $2)
		RETURNING conversation_id, type, name, avatar_url, created_at, updated_at`,
		convType, name).Scan(
		&convo.ConversationID, &convo.Type, &convo.Name, &convo.AvatarURL,
		&convo.CreatedAt, &convo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, userID := range participantIDs {
		isAdmin := convType == models.ConversationGroup && userID == createdBy
		_, err = tx.Exec(`
			INSERT INTO participants (conversation_id, user_id, is_admin)
			VALUES ($1, $2, $3)
			ON CONFLICT (conversation_id, user_id) DO NOTHING`,
			convo.ConversationID, userID, isAdmin)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &convo, nil
}

// GetUserConversations lists the conversations a user participates in,
// most recently active first
func (s *Store) GetUserConversations(userID int64) ([]models.Conversation, error) {
	rows, err := s.db.Query(`
		SELECT c.conversation_id, c.type, c.name, c.avatar_url,
		       c.created_at, c.updated_at
		FROM conversations c
		JOIN participants p ON p.conversation_id = c.conversation_id
		WHERE p.user_id = $1
		ORDER BY c.updated_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convos []models.Conversation
	for rows.Next() {
		var c models.Conversation
		err := rows.Scan(&c.ConversationID, &c.Type, &c.Name, &c.AvatarURL,
			&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		convos = append(convos, c)
	}

	return convos, rows.Err()
}

// IsParticipant checks whether a user may observe and act in a
// conversation. A missing row, user, or conversation is a plain denial.
func (s *Store) IsParticipant(userID, conversationID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM participants
			WHERE user_id = $1 AND conversation_id = $2
		)`,
		userID, conversationID).Scan(&exists)
	return exists, err
}
