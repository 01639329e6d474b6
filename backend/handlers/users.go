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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/efchatnet/relay/backend/middleware"
	"github.com/efchatnet/relay/backend/models"
	"github.com/efchatnet/relay/backend/storage"
)

const (
	// Minimum query length for user search
	searchMinChars = 2
	// Maximum number of search results
	searchLimit = 10
)

type UserHandler struct {
	store    storage.UserStore
	presence storage.PresenceStore
}

func NewUserHandler(store storage.UserStore, presence storage.PresenceStore) *UserHandler {
	return &UserHandler{store: store, presence: presence}
}

// SearchUsers finds users by username substring, excluding the caller.
// Queries shorter than two characters return an empty list.
// GET /api/users/search?q=...
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(query)) < searchMinChars {
		json.NewEncoder(w).Encode([]models.UserResult{})
		return
	}

	results, err := h.store.SearchUsers(query, user.UserID, searchLimit)
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []models.UserResult{}
	}

	json.NewEncoder(w).Encode(results)
}

// OnlineUsers returns the ids of currently online users from the presence
// mirror
// GET /api/users/online
func (h *UserHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.presence.OnlineUserIDs()
	if err != nil {
		http.Error(w, "Failed to read presence", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_ids": ids,
		"count":    len(ids),
	})
}
