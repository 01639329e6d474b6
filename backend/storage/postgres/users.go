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

func (s *Store) CreateUser(username, email, passwordHash string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id, username, email, password_hash, avatar_url,
		          status_message, is_online, last_seen, created_at`,
		username, email, passwordHash).Scan(
		&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
		&user.AvatarURL, &user.StatusMessage, &user.IsOnline,
		&user.LastSeen, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	return s.getUser(`
		SELECT user_id, username, email, password_hash, avatar_url,
		       status_message, is_online, last_seen, created_at
		FROM users WHERE email = $1`, email)
}

func (s *Store) GetUserByID(userID int64) (*models.User, error) {
	return s.getUser(`
		SELECT user_id, username, email, password_hash, avatar_url,
		       status_message, is_online, last_seen, created_at
		FROM users WHERE user_id = $1`, userID)
}

func (s *Store) getUser(query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(query, arg).Scan(
		&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
		&user.AvatarURL, &user.StatusMessage, &user.IsOnline,
		&user.LastSeen, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers matches usernames by case-insensitive substring, excluding
// the searching user
func (s *Store) SearchUsers(query string, excludeUserID int64, limit int) ([]models.UserResult, error) {
	rows, err := s.db.Query(`
		SELECT user_id, username, email
		FROM users
		WHERE username ILIKE '%' || $1 || '%' AND user_id != $2
		ORDER BY username
		LIMIT $3`,
		query, excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.UserResult
	for rows.Next() {
		var u models.UserResult
		if err := rows.Scan(&u.UserID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		results = append(results, u)
	}

	return results, rows.Err()
}

// SetUserOnline flips the durable presence flag. last_seen is refreshed on
// every transition so "last seen" stays meaningful after disconnect.
func (s *Store) SetUserOnline(userID int64, online bool) error {
	_, err := s.db.Exec(`
		UPDATE users
		SET is_online = $2, last_seen = CURRENT_TIMESTAMP
		WHERE user_id = $1`,
		userID, online)
	return err
}
