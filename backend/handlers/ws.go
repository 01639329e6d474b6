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
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/efchatnet/relay/backend/hub"
	"github.com/efchatnet/relay/backend/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		switch r.Header.Get("Origin") {
		case "", "https://efchat.net", "https://app.efchat.net", "http://localhost:3000":
			return true
		}
		return false
	},
}

type WSHandler struct {
	hub *hub.Hub
}

func NewWSHandler(h *hub.Hub) *WSHandler {
	return &WSHandler{hub: h}
}

// ServeWS upgrades an authenticated request to a websocket connection and
// registers it with the hub. A request without a resolved identity never
// reaches the upgrade: the connection is refused at the HTTP layer.
// GET /ws
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		log.Printf("ws: upgrade failed for user %d: %v", user.UserID, err)
		return
	}

	client := hub.NewClient(h.hub, conn, user.UserID, user.Username)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
