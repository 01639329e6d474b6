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
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/efchatnet/relay/backend/models"
)

func TestSearchShortQueryReturnsEmptyList(t *testing.T) {
	store := newHandlerFakeStore()
	h := NewUserHandler(store, &fakePresence{})

	for _, q := range []string{"", "a", "  a  "} {
		target := "/api/users/search?q=" + url.QueryEscape(q)
		req := asUser(httptest.NewRequest("GET", target, nil), 7, "ana")
		rec := httptest.NewRecorder()

		h.SearchUsers(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("q=%q: expected 200, got %d", q, rec.Code)
		}
		var results []models.UserResult
		if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
			t.Fatalf("q=%q: invalid response: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("q=%q: expected empty list, got %d results", q, len(results))
		}
	}
	if store.searchCalled {
		t.Error("short query hit the store")
	}
}

func TestSearchExcludesCallerAndCapsResults(t *testing.T) {
	store := newHandlerFakeStore()
	store.searchResults = []models.UserResult{
		{UserID: 2, Username: "anabel", Email: "anabel@example.com"},
	}
	h := NewUserHandler(store, &fakePresence{})

	req := asUser(httptest.NewRequest("GET", "/api/users/search?q=ana", nil), 7, "ana")
	rec := httptest.NewRecorder()

	h.SearchUsers(rec, req)

	if !store.searchCalled {
		t.Fatal("store was not queried")
	}
	if store.searchQuery != "ana" {
		t.Errorf("query not trimmed/forwarded: %q", store.searchQuery)
	}
	if store.searchExclude != 7 {
		t.Errorf("caller not excluded: %d", store.searchExclude)
	}
	if store.searchLimit != 10 {
		t.Errorf("expected limit 10, got %d", store.searchLimit)
	}

	var results []models.UserResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(results) != 1 || results[0].Username != "anabel" {
		t.Errorf("wrong results: %+v", results)
	}
}

func TestOnlineUsers(t *testing.T) {
	store := newHandlerFakeStore()
	h := NewUserHandler(store, &fakePresence{online: []int64{3, 9}})

	req := asUser(httptest.NewRequest("GET", "/api/users/online", nil), 7, "ana")
	rec := httptest.NewRecorder()

	h.OnlineUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		UserIDs []int64 `json:"user_ids"`
		Count   int     `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Count != 2 || len(resp.UserIDs) != 2 {
		t.Errorf("wrong presence response: %+v", resp)
	}
}
