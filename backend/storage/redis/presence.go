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

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis keys
	onlineUsersKey  = "presence:online" // set of online user IDs
	presenceChannel = "presence:events" // pub/sub channel for presence changes
)

// PresenceCache mirrors the online-user set in Redis and publishes a
// notification on every transition, so other services can react to
// presence changes without polling Postgres.
type PresenceCache struct {
	rdb *redis.Client
	ctx context.Context
}

func NewPresenceCache(rdb *redis.Client) *PresenceCache {
	return &PresenceCache{
		rdb: rdb,
		ctx: context.Background(),
	}
}

func (c *PresenceCache) SetOnline(userID int64, online bool) error {
	member := strconv.FormatInt(userID, 10)

	var err error
	if online {
		err = c.rdb.SAdd(c.ctx, onlineUsersKey, member).Err()
	} else {
		err = c.rdb.SRem(c.ctx, onlineUsersKey, member).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to update online set: %w", err)
	}

	// Publish notification for interested subscribers
	event, _ := json.Marshal(map[string]interface{}{
		"user_id": userID,
		"online":  online,
	})
	c.rdb.Publish(c.ctx, presenceChannel, event)

	return nil
}

func (c *PresenceCache) OnlineUserIDs() ([]int64, error) {
	members, err := c.rdb.SMembers(c.ctx, onlineUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read online set: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			// Skip corrupted members rather than failing the whole read
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
