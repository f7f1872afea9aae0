package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rkovalev/cardwall/internal/model"
	"github.com/rkovalev/cardwall/internal/repository"
)

// SessionCookie names the cookie carrying the session token. The cookie has
// no Max-Age, so the browser drops it when the session ends — that, plus the
// in-memory store, is the whole lifetime story of the acting user.
const SessionCookie = "cardwall_session"

// Feed is the slice of the feed service the handlers need.
// *service.FeedService satisfies it; tests substitute a mock.
type Feed interface {
	Load(ctx context.Context) error
	Cards() []model.Card
	RandomUser() (model.User, error)
	CreatePost(ctx context.Context, authorID int, title, body string) (*model.Card, error)
	UpdatePost(ctx context.Context, postID int, title, body string) (*model.Card, error)
	DeletePost(ctx context.Context, postID int) error
}

// resolveUser returns the acting user for this request.
//
// A valid session cookie resolves through the session store. Anything else —
// no cookie, unknown token, store failure — falls back to picking a random
// user from the fetched set, persisting it as a fresh session and setting
// the cookie. The fallback means a lost session is invisible to the visitor
// apart from posting under a different name.
func resolveUser(w http.ResponseWriter, r *http.Request, feed Feed, sessions repository.SessionRepository, logger *slog.Logger) (model.User, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if session, err := sessions.Get(r.Context(), cookie.Value); err == nil {
			return session.User(), nil
		}
	}

	user, err := feed.RandomUser()
	if err != nil {
		return model.User{}, err
	}

	session := &model.Session{UserID: user.ID, Name: user.Name, Email: user.Email}
	if err := sessions.Save(r.Context(), session); err != nil {
		// The visitor can still act as the picked user for this request;
		// only the persistence is lost.
		logger.Warn("failed to persist session", slog.String("error", err.Error()))
		return user, nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return user, nil
}
