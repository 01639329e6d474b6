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
	"database/sql"

	"github.com/efchatnet/relay/backend/models"
)

// SaveMessage inserts the message and bumps the conversation's updated_at
// marker in one transaction, so the broadcast that follows always reports a
// durable fact.
func (s *Store) SaveMessage(conversationID, senderID int64, content string) (*models.Message, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       &senderID,
		Content:        content,
	}
	err = tx.QueryRow(`
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING message_id, created_at`,
		conversationID, senderID, content).Scan(&msg.MessageID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE conversations
		SET updated_at = CURRENT_TIMESTAMP
		WHERE conversation_id = $1`,
		conversationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Store) GetMessage(messageID int64) (*models.Message, error) {
	var msg models.Message
	var senderID sql.NullInt64

	err := s.db.QueryRow(`
		SELECT message_id, conversation_id, sender_id, content,
		       is_read, is_edited, created_at
		FROM messages WHERE message_id = $1`,
		messageID).Scan(
		&msg.MessageID, &msg.ConversationID, &senderID, &msg.Content,
		&msg.IsRead, &msg.IsEdited, &msg.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if senderID.Valid {
		msg.SenderID = &senderID.Int64
	}

	return &msg, nil
}

func (s *Store) UpdateMessageContent(messageID int64, content string) error {
	_, err := s.db.Exec(`
		UPDATE messages
		SET content = $2, is_edited = TRUE
		WHERE message_id = $1`,
		messageID, content)
	return err
}

func (s *Store) DeleteMessage(messageID int64) error {
	_, err := s.db.Exec(`
		DELETE FROM messages WHERE message_id = $1`,
		messageID)
	return err
}

// GetRecentMessages returns the newest limit messages of a conversation,
// oldest first. The sender is resolved with a LEFT JOIN so messages from
// deleted accounts still come back, with a placeholder name.
func (s *Store) GetRecentMessages(conversationID int64, limit int) ([]models.MessageView, error) {
	rows, err := s.db.Query(`
		SELECT m.message_id, m.sender_id, u.username, m.content,
		       m.is_edited, m.created_at
		FROM messages m
		LEFT JOIN users u ON u.user_id = m.sender_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at DESC, m.message_id DESC
		LIMIT $2`,
		conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.MessageView
	for rows.Next() {
		var v models.MessageView
		var senderID sql.NullInt64
		var senderName sql.NullString
		var createdAt sql.NullTime

		err := rows.Scan(&v.MessageID, &senderID, &senderName, &v.Content,
			&v.IsEdited, &createdAt)
		if err != nil {
			return nil, err
		}

		if senderID.Valid {
			v.SenderID = &senderID.Int64
		}
		if senderName.Valid {
			v.SenderName = senderName.String
		} else {
			v.SenderName = models.DeletedSenderName
		}
		if createdAt.Valid {
			v.CreatedAt = createdAt.Time.Format(models.TimeFormat)
		}

		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returns newest first; the API serves oldest first.
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}

	return views, nil
}
