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

package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/efchatnet/relay/backend/handlers"
	"github.com/efchatnet/relay/backend/hub"
	"github.com/efchatnet/relay/backend/middleware"
	"github.com/efchatnet/relay/backend/storage/postgres"
	"github.com/efchatnet/relay/backend/storage/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Database connection
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost/relay?sslmode=disable"
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis connection
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr: redisAddr,
	})

	// Initialize storage
	store := postgres.NewStore(db)
	presence := redis.NewPresenceCache(rdb)

	// Run migrations
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Session cookies
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}
	cookies := sessions.NewCookieStore([]byte(sessionSecret))
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode

	// Fan-out hub
	h := hub.New(store, presence)
	go h.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cookies)
	convHandler := handlers.NewConversationHandler(store)
	msgHandler := handlers.NewMessageHandler(store)
	userHandler := handlers.NewUserHandler(store, presence)
	wsHandler := handlers.NewWSHandler(h)

	authMiddleware := middleware.NewAuthMiddleware(cookies)

	// Setup router
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(middleware.CORS)

	// Public endpoints
	r.HandleFunc("/api/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	// Authenticated API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Conversation endpoints
	api.HandleFunc("/conversations", convHandler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations", convHandler.CreateConversation).Methods("POST")

	// Message history
	api.HandleFunc("/messages/{conversationId}", msgHandler.GetMessages).Methods("GET")

	// User endpoints
	api.HandleFunc("/users/search", userHandler.SearchUsers).Methods("GET")
	api.HandleFunc("/users/online", userHandler.OnlineUsers).Methods("GET")

	// Realtime endpoint (session-authenticated before upgrade)
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authMiddleware)
	ws.HandleFunc("", wsHandler.ServeWS).Methods("GET")

	// Health check (no auth required)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		// Check database connection
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Relay server starting on port %s", port)

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
