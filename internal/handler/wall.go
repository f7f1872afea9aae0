package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/rkovalev/cardwall/internal/repository"
)

// WallHandler serves the card wall page.
//
// Templates are parsed once at construction. The page itself is the
// post-load render: by the time HTML reaches the browser the feed has
// loaded, so there is no client-side loading state to manage beyond the
// trivial one in the template.
type WallHandler struct {
	templates *template.Template
	feed      Feed
	sessions  repository.SessionRepository
	logger    *slog.Logger
}

// NewWallHandler creates a WallHandler and parses the HTML templates.
// base.html defines the page frame; wall.html fills its "content" block.
func NewWallHandler(templateDir string, feed Feed, sessions repository.SessionRepository, logger *slog.Logger) (*WallHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "wall.html"),
	)
	if err != nil {
		return nil, err
	}

	return &WallHandler{
		templates: tmpl,
		feed:      feed,
		sessions:  sessions,
		logger:    logger,
	}, nil
}

// HandleWall renders the wall.
//
// HTTP: GET /
//
// The first request triggers the one-time upstream load; later requests
// reuse the in-memory state. A failed load renders an error page but leaves
// the process healthy — the next visit simply tries the load again.
func (h *WallHandler) HandleWall(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.Load(r.Context()); err != nil {
		h.renderError(w, "The post feed is unavailable right now. Try again shortly.")
		return
	}

	user, err := resolveUser(w, r, h.feed, h.sessions, h.logger)
	if err != nil {
		h.renderError(w, "The post feed is unavailable right now. Try again shortly.")
		return
	}

	data := map[string]interface{}{
		"Title":       "Cardwall",
		"Cards":       h.feed.Cards(),
		"CurrentUser": user,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render wall",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *WallHandler) renderError(w http.ResponseWriter, message string) {
	data := map[string]interface{}{
		"Title": "Cardwall",
		"Error": message,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render error page",
			slog.String("error", err.Error()),
		)
	}
}
