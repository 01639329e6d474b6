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

package hub

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write an event to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second
	// Ping period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// Maximum inbound message size
	maxMessageSize = 4096
	// Outbound buffer per connection
	sendBufferSize = 256
)

// Client is one authenticated websocket connection. The identity is
// resolved before the upgrade and fixed for the connection's lifetime.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan *ServerEvent
	connID   string
	userID   int64
	username string

	// Conversations this connection has joined. Owned by the hub; only
	// touched with hub.mu held.
	rooms map[int64]bool
}

func NewClient(h *Hub, conn *websocket.Conn, userID int64, username string) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan *ServerEvent, sendBufferSize),
		connID:   uuid.New().String(),
		userID:   userID,
		username: username,
		rooms:    make(map[int64]bool),
	}
}

// ReadPump pumps events from the websocket to the hub. It is the only
// reader on the connection and must run in its own goroutine. Exiting
// unregisters the client, which implicitly drops all room subscriptions.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("hub: read error for user %d: %v", c.userID, err)
			}
			return
		}

		var ev ClientEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.Printf("hub: user %d sent invalid JSON: %v", c.userID, err)
			continue
		}

		c.hub.inbound <- inbound{client: c, event: ev}
	}
}

// WritePump pumps events from the hub to the websocket and keeps the
// connection alive with pings. It is the only writer on the connection and
// must run in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel on unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
