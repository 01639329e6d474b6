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
	"strconv"

	"github.com/gorilla/mux"

	"github.com/efchatnet/relay/backend/middleware"
	"github.com/efchatnet/relay/backend/models"
	"github.com/efchatnet/relay/backend/storage"
)

// historyLimit is how many messages the history endpoint returns
const historyLimit = 50

type MessageHandler struct {
	store storage.Store
}

func NewMessageHandler(store storage.Store) *MessageHandler {
	return &MessageHandler{store: store}
}

// GetMessages returns the newest messages of a conversation, oldest first.
// Only participants may read history.
// GET /api/messages/{conversationId}
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	conversationID, err := strconv.ParseInt(vars["conversationId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation id", http.StatusBadRequest)
		return
	}

	isParticipant, err := h.store.IsParticipant(user.UserID, conversationID)
	if err != nil {
		http.Error(w, "Failed to check membership", http.StatusInternalServerError)
		return
	}
	if !isParticipant {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	messages, err := h.store.GetRecentMessages(conversationID, historyLimit)
	if err != nil {
		http.Error(w, "Failed to retrieve messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []models.MessageView{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
