package api

import (
	"net/http"
	"store-route-assistant/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(session *handlers.SessionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/layout", session.Layout)
	mux.HandleFunc("/state", session.State)
	mux.HandleFunc("/reload", session.Reload)
	mux.HandleFunc("/items", session.Items)
	mux.HandleFunc("/items/suggest", session.Suggest)
	mux.HandleFunc("/trip", session.Submit)
	mux.HandleFunc("/trip/cursor", session.Cursor)
	mux.HandleFunc("/notice/dismiss", session.DismissNotice)
	mux.HandleFunc("/map.png", session.Map)

	return loggingMiddleware(mux)
}
