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

package handlers

import (
	"context"
	"net/http"

	"github.com/efchatnet/relay/backend/models"
)

// fakeStore is an in-memory storage.Store recording the arguments handlers
// pass down. Fields are zero-valued unless a test sets them.
type fakeStore struct {
	users        map[string]*models.User // keyed by email
	participants map[int64]map[int64]bool

	createdType     models.ConversationType
	createdName     string
	createdBy       int64
	createdMembers  []int64
	conversations   []models.Conversation
	recentMessages  []models.MessageView
	historyConvID   int64
	historyLimitArg int

	searchQuery   string
	searchExclude int64
	searchLimit   int
	searchResults []models.UserResult
	searchCalled  bool
}

func newHandlerFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]*models.User),
		participants: make(map[int64]map[int64]bool),
	}
}

func (s *fakeStore) addParticipant(userID, conversationID int64) {
	if s.participants[userID] == nil {
		s.participants[userID] = make(map[int64]bool)
	}
	s.participants[userID][conversationID] = true
}

func (s *fakeStore) CreateUser(username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		UserID:       int64(len(s.users) + 1),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.users[email] = user
	return user, nil
}

func (s *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	return s.users[email], nil
}

func (s *fakeStore) GetUserByID(userID int64) (*models.User, error) {
	for _, u := range s.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SearchUsers(query string, excludeUserID int64, limit int) ([]models.UserResult, error) {
	s.searchCalled = true
	s.searchQuery = query
	s.searchExclude = excludeUserID
	s.searchLimit = limit
	return s.searchResults, nil
}

func (s *fakeStore) SetUserOnline(userID int64, online bool) error { return nil }

func (s *fakeStore) CreateConversation(convType models.ConversationType, name string, createdBy int64, participantIDs []int64) (*models.Conversation, error) {
	s.createdType = convType
	s.createdName = name
	s.createdBy = createdBy
	s.createdMembers = participantIDs
	return &models.Conversation{ConversationID: 42, Type: convType, Name: name}, nil
}

func (s *fakeStore) GetUserConversations(userID int64) ([]models.Conversation, error) {
	return s.conversations, nil
}

func (s *fakeStore) IsParticipant(userID, conversationID int64) (bool, error) {
	return s.participants[userID][conversationID], nil
}

func (s *fakeStore) SaveMessage(conversationID, senderID int64, content string) (*models.Message, error) {
	return nil, nil
}
func (s *fakeStore) GetMessage(messageID int64) (*models.Message, error)    { return nil, nil }
func (s *fakeStore) UpdateMessageContent(messageID int64, c string) error   { return nil }
func (s *fakeStore) DeleteMessage(messageID int64) error                    { return nil }
func (s *fakeStore) GetRecentMessages(conversationID int64, limit int) ([]models.MessageView, error) {
	s.historyConvID = conversationID
	s.historyLimitArg = limit
	return s.recentMessages, nil
}

type fakePresence struct {
	online []int64
}

func (p *fakePresence) SetOnline(userID int64, online bool) error { return nil }
func (p *fakePresence) OnlineUserIDs() ([]int64, error)           { return p.online, nil }

// asUser stamps the request with an authenticated principal, the same way
// the auth middleware does.
func asUser(r *http.Request, userID int64, username string) *http.Request {
	user := models.User{UserID: userID, Username: username}
	return r.WithContext(context.WithValue(r.Context(), "user", user))
}
