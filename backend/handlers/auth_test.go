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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/efchatnet/relay/backend/middleware"
)

func testCookies() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret"))
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newHandlerFakeStore()
	h := NewAuthHandler(store, testCookies())

	req := httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username": "ana", "email": "ana@example.com", "password": "hunter22"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	user := store.users["ana@example.com"]
	if user == nil {
		t.Fatal("user not stored")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if strings.Contains(rec.Body.String(), "hunter22") || strings.Contains(rec.Body.String(), user.PasswordHash) {
		t.Error("response leaks password material")
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	store := newHandlerFakeStore()
	h := NewAuthHandler(store, testCookies())

	req := httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username": "  ", "email": "ana@example.com", "password": "x"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestLoginWrongCredentialsAreIndistinguishable(t *testing.T) {
	store := newHandlerFakeStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	store.CreateUser("ana", "ana@example.com", string(hash))

	h := NewAuthHandler(store, testCookies())

	bodies := []string{
		`{"email": "ana@example.com", "password": "wrong"}`,
		`{"email": "nobody@example.com", "password": "whatever"}`,
	}
	var responses []string
	for _, body := range bodies {
		req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		responses = append(responses, rec.Body.String())
	}
	if responses[0] != responses[1] {
		t.Errorf("wrong password and unknown email give different responses: %q vs %q", responses[0], responses[1])
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	store := newHandlerFakeStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	store.CreateUser("ana", "ana@example.com", string(hash))

	cookies := testCookies()
	h := NewAuthHandler(store, cookies)

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"email": "ana@example.com", "password": "correct"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The returned cookie must authenticate a follow-up request.
	probe := httptest.NewRequest("GET", "/api/conversations", nil)
	for _, c := range rec.Result().Cookies() {
		probe.AddCookie(c)
	}

	var resolvedID int64
	protected := middleware.NewAuthMiddleware(cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.CurrentUser(r)
		if !ok {
			t.Error("principal missing from context")
		}
		resolvedID = user.UserID
	}))
	probeRec := httptest.NewRecorder()
	protected.ServeHTTP(probeRec, probe)

	if probeRec.Code != http.StatusOK {
		t.Fatalf("session cookie rejected: %d", probeRec.Code)
	}
	if resolvedID != 1 {
		t.Errorf("wrong principal: %d", resolvedID)
	}
}

func TestLogoutExpiresSession(t *testing.T) {
	store := newHandlerFakeStore()
	cookies := testCookies()
	h := NewAuthHandler(store, cookies)

	req := httptest.NewRequest("POST", "/api/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	expired := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionName && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("session cookie was not expired")
	}
}
