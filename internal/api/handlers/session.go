package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"store-route-assistant/internal/api/dto"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/obs"
	"store-route-assistant/internal/ports"
	"store-route-assistant/internal/render"
	"store-route-assistant/internal/services"
	"strings"
	"sync"
	"time"
)

// Shown when the registry could not be loaded at startup.
const loadFailureMessage = "Could not load store layout. Please check backend connection or console for details."

// SessionHandler exposes one TripSession to the rendering surface.
//
// The session is not synchronized, so every state transition runs under mu.
// The planner call in Submit runs outside the lock; the session's submitting
// state is what rejects intents that arrive meanwhile.
type SessionHandler struct {
	Registry      ports.SectionRegistry
	Planner       ports.TripPlanner
	Options       services.SessionOptions
	Floorplan     domain.Layout
	FrameInterval time.Duration

	mu        sync.Mutex
	session   *services.TripSession
	loadErr   error
	streaming bool
}

// Load fetches the registry and builds the session. On failure the handler
// stays up and reports the load failure until a reload succeeds.
func (h *SessionHandler) Load(ctx context.Context) (err error) {
	defer obs.Time(ctx, "session.Load")(&err)

	reg, err := h.Registry.FetchSections(ctx)
	if err == nil && len(reg.SupportedItems) == 0 {
		err = services.ErrRegistryEmpty
	}

	var session *services.TripSession
	if err == nil {
		session, err = services.NewTripSession(reg, h.Options)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		h.loadErr = err
		return fmt.Errorf("load session: %w", err)
	}

	if h.session != nil {
		h.session.Engine().Stop()
	}
	h.session = session
	h.loadErr = nil

	if dups := session.Resolver().Duplicates(); len(dups) > 0 {
		obs.Logger(ctx).WithField("items", dups).Warn("items claimed by several sections; first section wins")
	}
	return nil
}

// current returns the loaded session; the caller holds mu.
func (h *SessionHandler) current(w http.ResponseWriter, r *http.Request) (*services.TripSession, bool) {
	if h.session == nil {
		if h.loadErr != nil {
			obs.Logger(r.Context()).WithError(h.loadErr).Debug("session requested before a successful load")
		}
		writeError(w, r, http.StatusServiceUnavailable, loadFailureMessage)
		return nil, false
	}
	return h.session, true
}

func (h *SessionHandler) Layout(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, toLayout(h.Floorplan))
}

func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toState(s.View()))
}

// Reload retries the registry fetch after a failed startup.
func (h *SessionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	if err := h.Load(r.Context()); err != nil {
		obs.Logger(r.Context()).WithError(err).Warn("reload failed")
		writeError(w, r, http.StatusServiceUnavailable, loadFailureMessage)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, r, http.StatusOK, toState(h.session.View()))
}

// Items adds (POST {"item": ...}) or removes (DELETE ?item=...) a trip item.
func (h *SessionHandler) Items(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost, http.MethodDelete) {
		return
	}

	var req dto.SelectRequest
	if r.Method == http.MethodPost {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.current(w, r)
	if !ok {
		return
	}

	var err error
	if r.Method == http.MethodPost {
		_, err = s.Select(req.Item)
	} else {
		err = s.Deselect(r.URL.Query().Get("item"))
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toState(s.View()))
}

// Suggest lists available items matching ?q=.
func (h *SessionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.current(w, r)
	if !ok {
		return
	}

	items := s.Partition().Suggest(r.URL.Query().Get("q"))
	if items == nil {
		items = []string{}
	}
	writeJSON(w, r, http.StatusOK, dto.SuggestResponse{Items: items})
}

// Submit sends the selection to the planner and returns the planned trip.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	h.mu.Lock()
	s, ok := h.current(w, r)
	if !ok {
		h.mu.Unlock()
		return
	}
	items, err := s.BeginSubmit()
	h.mu.Unlock()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, planErr := h.Planner.Optimize(r.Context(), items, h.layoutName())

	h.mu.Lock()
	trip, err := s.CompleteSubmit(r.Context(), items, res, planErr)
	h.mu.Unlock()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTrip(trip))
}

func (h *SessionHandler) layoutName() string {
	if h.Options.StoreLayout != "" {
		return h.Options.StoreLayout
	}
	return domain.DefaultStoreLayout
}

// DismissNotice clears the visible message.
func (h *SessionHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.current(w, r)
	if !ok {
		return
	}
	s.Notices().Dismiss()
	writeJSON(w, r, http.StatusOK, toState(s.View()))
}

// Cursor streams the active trip's cursor as Server-Sent Events, one
// position per frame, then a final "done" event. One stream at a time.
func (h *SessionHandler) Cursor(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	h.mu.Lock()
	s, ok := h.current(w, r)
	if !ok {
		h.mu.Unlock()
		return
	}
	pb := s.Engine().Active()
	switch {
	case pb == nil || pb.Stopped():
		h.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "No active route.")
		return
	case h.streaming:
		h.mu.Unlock()
		writeError(w, r, http.StatusConflict, "Cursor is already streaming.")
		return
	}
	h.streaming = true
	pb.Reset()
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.streaming = false
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	interval := h.FrameInterval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frame := 0
	var buf bytes.Buffer
	err := services.Drive(r.Context(), pb, ticker.C, func(p domain.Point) {
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(dto.CursorEvent{Frame: frame, X: p.X, Y: p.Y})
		fmt.Fprintf(w, "event: position\ndata: %s\n\n", strings.TrimSpace(buf.String()))
		flusher.Flush()
		frame++
	})
	if err != nil {
		obs.Logger(r.Context()).WithField("frames", frame).Debug("cursor stream closed by client")
		return
	}

	reason := "done"
	if pb.Stopped() {
		reason = "stopped"
	}
	fmt.Fprintf(w, "event: %s\ndata: {\"frames\":%d}\n\n", reason, frame)
	flusher.Flush()
}

// Map renders the current state as a PNG.
func (h *SessionHandler) Map(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	h.mu.Lock()
	s, ok := h.current(w, r)
	if !ok {
		h.mu.Unlock()
		return
	}
	v := s.View()
	h.mu.Unlock()

	scene := render.Scene{Layout: h.Floorplan, Pins: v.Pins, Title: "Store map"}
	if v.LastTrip != nil && len(v.Selected) == 0 {
		scene.Pins = v.LastTrip.Pins
		scene.Path = v.LastTrip.Path
	}

	var buf bytes.Buffer
	if err := render.WritePNG(scene, &buf); err != nil {
		obs.Logger(r.Context()).WithError(err).Error("render map failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
