// Package handler contains the HTTP handlers: the card API consumed by the
// page script, and the server-rendered wall page itself.
//
// Handlers are glue only. They parse the request, hand primitives to the
// feed service, and translate the result (or the typed error) back to HTTP.
// Each handler receives the card it acts on through the request — path
// parameter plus body — never through anything captured at wiring time.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rkovalev/cardwall/internal/apperror"
	"github.com/rkovalev/cardwall/internal/repository"
)

// CardHandler serves the JSON card API.
type CardHandler struct {
	feed     Feed
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(feed Feed, sessions repository.SessionRepository, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		feed:     feed,
		sessions: sessions,
		logger:   logger,
	}
}

// cardRequest is the body of create and update calls. The author is never
// part of it — creation attributes to the session's acting user, update
// reuses the card's stored author.
type cardRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HandleList returns the current card set in display order.
//
// HTTP: GET /api/cards
func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.feed.Cards())
}

// HandleCreate stores a new post and returns the resulting card.
//
// HTTP: POST /api/cards
func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be JSON with title and body"))
		return
	}

	author, err := resolveUser(w, r, h.feed, h.sessions, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}

	card, err := h.feed.CreatePost(r.Context(), author.ID, req.Title, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// HandleUpdate replaces a card's title/body and returns the updated card.
//
// HTTP: PUT /api/cards/{id}
func (h *CardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, err := cardID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be JSON with title and body"))
		return
	}

	card, err := h.feed.UpdatePost(r.Context(), postID, req.Title, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleDelete removes a card.
//
// HTTP: DELETE /api/cards/{id}
func (h *CardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := cardID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.feed.DeletePost(r.Context(), postID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// cardID extracts the numeric card identifier from the URL.
func cardID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, apperror.ValidationFailed("id", "card id is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "card id must be numeric")
	}
	return id, nil
}
