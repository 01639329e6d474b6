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

func (s *Store) Migrate() error {
	migrations := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			avatar_url VARCHAR(255) NOT NULL DEFAULT '',
			status_message VARCHAR(150) NOT NULL DEFAULT '',
			is_online BOOLEAN NOT NULL DEFAULT FALSE,
			last_seen TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Conversations table
		`CREATE TABLE IF NOT EXISTS conversations (
			conversation_id BIGSERIAL PRIMARY KEY,
			type VARCHAR(10) NOT NULL DEFAULT 'private' CHECK (type IN ('private', 'group')),
			name VARCHAR(100) NOT NULL DEFAULT '',
			avatar_url VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Participants table: the sole source of truth for membership.
		// A user appears at most once per conversation.
		`CREATE TABLE IF NOT EXISTS participants (
			participant_id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT uq_participants_conversation_user UNIQUE (conversation_id, user_id),
			FOREIGN KEY (conversation_id) REFERENCES conversations(conversation_id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
		)`,

		// Index for the membership check
		`CREATE INDEX IF NOT EXISTS idx_participants_user
		ON participants(user_id, conversation_id)`,

		// Messages table. Deleting a sender keeps their messages with a
		// NULL sender; deleting a conversation removes its messages.
		`CREATE TABLE IF NOT EXISTS messages (
			message_id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL,
			sender_id BIGINT,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			is_edited BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(conversation_id) ON DELETE CASCADE,
			FOREIGN KEY (sender_id) REFERENCES users(user_id) ON DELETE SET NULL
		)`,

		// Index for history retrieval
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages(conversation_id, created_at DESC)`,

		// Index for ordering a user's conversation list
		`CREATE INDEX IF NOT EXISTS idx_conversations_updated
		ON conversations(updated_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
