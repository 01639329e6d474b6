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

	"github.com/efchatnet/relay/backend/middleware"
	"github.com/efchatnet/relay/backend/models"
	"github.com/efchatnet/relay/backend/storage"
)

type ConversationHandler struct {
	store storage.ConversationStore
}

func NewConversationHandler(store storage.ConversationStore) *ConversationHandler {
	return &ConversationHandler{store: store}
}

// ListConversations returns the caller's conversations, most recently
// active first
// GET /api/conversations
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	convos, err := h.store.GetUserConversations(user.UserID)
	if err != nil {
		http.Error(w, "Failed to list conversations", http.StatusInternalServerError)
		return
	}
	if convos == nil {
		convos = []models.Conversation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversations": convos,
		"count":         len(convos),
	})
}

// CreateConversation starts a new conversation. The creator is always a
// participant; with exactly two distinct participants the conversation is
// private, otherwise it is a group with the creator as admin.
// POST /api/conversations
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ParticipantIDs []int64 `json:"participant_ids"`
		Name           string  `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.ParticipantIDs) == 0 {
		http.Error(w, "Participants are required", http.StatusBadRequest)
		return
	}

	participantIDs := dedupeWith(req.ParticipantIDs, user.UserID)

	convType := models.ConversationGroup
	name := req.Name
	if len(participantIDs) == 2 {
		convType = models.ConversationPrivate
		name = "" // private conversations are unnamed
	}

	convo, err := h.store.CreateConversation(convType, name, user.UserID, participantIDs)
	if err != nil {
		http.Error(w, "Failed to create conversation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversation_id": convo.ConversationID,
		"type":            convo.Type,
	})
}

// dedupeWith returns the distinct ids with required always included,
// preserving first-seen order.
func dedupeWith(ids []int64, required int64) []int64 {
	seen := make(map[int64]bool, len(ids)+1)
	out := make([]int64, 0, len(ids)+1)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if !seen[required] {
		out = append(out, required)
	}
	return out
}
