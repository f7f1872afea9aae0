package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkovalev/cardwall/internal/apperror"
	"github.com/rkovalev/cardwall/internal/handler"
	"github.com/rkovalev/cardwall/internal/model"
)

// mockFeed implements handler.Feed with canned results.
type mockFeed struct {
	cards []model.Card
	user  model.User

	loadErr   error
	createErr error
	updateErr error
	deleteErr error

	createdWith  [3]any // authorID, title, body
	updatedWith  [3]any // postID, title, body
	deletedID    int
	deleteCalled bool
}

func (m *mockFeed) Load(_ context.Context) error { return m.loadErr }
func (m *mockFeed) Cards() []model.Card          { return m.cards }

func (m *mockFeed) RandomUser() (model.User, error) {
	if m.user == (model.User{}) {
		return model.User{}, apperror.NotFound("user", 0)
	}
	return m.user, nil
}

func (m *mockFeed) CreatePost(_ context.Context, authorID int, title, body string) (*model.Card, error) {
	m.createdWith = [3]any{authorID, title, body}
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &model.Card{
		UserID: authorID,
		Name:   m.user.Name,
		Email:  m.user.Email,
		PostID: 101,
		Title:  title,
		Body:   body,
	}, nil
}

func (m *mockFeed) UpdatePost(_ context.Context, postID int, title, body string) (*model.Card, error) {
	m.updatedWith = [3]any{postID, title, body}
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &model.Card{PostID: postID, Title: title, Body: body, UserID: 1}, nil
}

func (m *mockFeed) DeletePost(_ context.Context, postID int) error {
	m.deleteCalled = true
	m.deletedID = postID
	return m.deleteErr
}

// mockSessions is an in-memory SessionRepository.
type mockSessions struct {
	byToken map[string]*model.Session
	saveErr error
}

func newMockSessions() *mockSessions {
	return &mockSessions{byToken: map[string]*model.Session{}}
}

func (m *mockSessions) Save(_ context.Context, s *model.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if s.Token == "" {
		s.Token = "tok-1"
	}
	stored := *s
	m.byToken[s.Token] = &stored
	return nil
}

func (m *mockSessions) Get(_ context.Context, token string) (*model.Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "session not found"}
	}
	result := *s
	return &result, nil
}

func (m *mockSessions) Delete(_ context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandleList(t *testing.T) {
	feed := &mockFeed{cards: []model.Card{
		{PostID: 10, UserID: 1, Name: "Ann", Email: "a@x.com", Title: "T", Body: "B"},
	}}
	h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	rr := httptest.NewRecorder()
	h.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got []model.Card
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, feed.cards[0], got[0])
}

func TestHandleCreate(t *testing.T) {
	t.Run("attributes to the session user", func(t *testing.T) {
		feed := &mockFeed{user: model.User{ID: 2, Name: "Ben", Email: "b@x.com"}}
		sessions := newMockSessions()
		sessions.byToken["tok-9"] = &model.Session{Token: "tok-9", UserID: 7, Name: "Sam", Email: "s@x.com"}
		h := handler.NewCardHandler(feed, sessions, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/cards",
			bytes.NewBufferString(`{"title":"T","body":"B"}`))
		req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: "tok-9"})
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, [3]any{7, "T", "B"}, feed.createdWith)
	})

	t.Run("no cookie picks a random user and sets one", func(t *testing.T) {
		feed := &mockFeed{user: model.User{ID: 2, Name: "Ben", Email: "b@x.com"}}
		h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/cards",
			bytes.NewBufferString(`{"title":"T","body":"B"}`))
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, [3]any{2, "T", "B"}, feed.createdWith)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, handler.SessionCookie, cookies[0].Name)
		assert.Zero(t, cookies[0].MaxAge, "session cookie must have no Max-Age")

		var card model.Card
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&card))
		assert.Equal(t, 101, card.PostID)
		assert.Equal(t, "Ben", card.Name)
	})

	t.Run("invalid body", func(t *testing.T) {
		h := handler.NewCardHandler(&mockFeed{}, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/cards",
			bytes.NewBufferString(`{"title":`))
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assertErrorBody(t, rr, "validation_error")
	})

	t.Run("upstream rejection maps to 502", func(t *testing.T) {
		feed := &mockFeed{
			user:      model.User{ID: 2, Name: "Ben"},
			createErr: apperror.Rejected("create post", 500),
		}
		h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/cards",
			bytes.NewBufferString(`{"title":"T","body":"B"}`))
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assertErrorBody(t, rr, "upstream_rejected")
	})
}

func TestHandleUpdate(t *testing.T) {
	t.Run("valid update", func(t *testing.T) {
		feed := &mockFeed{}
		h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodPut, "/api/cards/10",
			bytes.NewBufferString(`{"title":"new","body":"text"}`))
		req.SetPathValue("id", "10")
		rr := httptest.NewRecorder()
		h.HandleUpdate(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, [3]any{10, "new", "text"}, feed.updatedWith)

		var card model.Card
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&card))
		assert.Equal(t, "new", card.Title)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		h := handler.NewCardHandler(&mockFeed{}, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodPut, "/api/cards/abc",
			bytes.NewBufferString(`{"title":"T","body":"B"}`))
		req.SetPathValue("id", "abc")
		rr := httptest.NewRecorder()
		h.HandleUpdate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown card", func(t *testing.T) {
		feed := &mockFeed{updateErr: apperror.NotFound("card", 999)}
		h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodPut, "/api/cards/999",
			bytes.NewBufferString(`{"title":"T","body":"B"}`))
		req.SetPathValue("id", "999")
		rr := httptest.NewRecorder()
		h.HandleUpdate(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assertErrorBody(t, rr, "not_found")
	})
}

func TestHandleDelete(t *testing.T) {
	t.Run("valid delete", func(t *testing.T) {
		feed := &mockFeed{}
		h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodDelete, "/api/cards/10", nil)
		req.SetPathValue("id", "10")
		rr := httptest.NewRecorder()
		h.HandleDelete(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, 10, feed.deletedID)
	})

	t.Run("upstream failure maps to 502 and reaches no further", func(t *testing.T) {
		feed := &mockFeed{deleteErr: apperror.Transport("delete post", assert.AnError)}
		h := handler.NewCardHandler(feed, newMockSessions(), testLogger())

		req := httptest.NewRequest(http.MethodDelete, "/api/cards/10", nil)
		req.SetPathValue("id", "10")
		rr := httptest.NewRecorder()
		h.HandleDelete(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assertErrorBody(t, rr, "upstream_unreachable")
	})
}

func assertErrorBody(t *testing.T, rr *httptest.ResponseRecorder, wantError string) {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, wantError, body.Error)
	assert.NotEmpty(t, body.Message)
}
