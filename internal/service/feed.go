// Package service contains the application's business logic.
//
// The one interesting piece of logic in this application lives here: keeping
// the in-memory card set consistent with the upstream resource. The upstream
// is fetched exactly once and never pushes changes, so after the initial
// load the card set is maintained purely by mirroring each successful local
// mutation — create prepends, update swaps fields in place, delete removes.
// A mutation the upstream refused must leave the local set untouched,
// otherwise the wall shows state the server never accepted.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rkovalev/cardwall/internal/apperror"
	"github.com/rkovalev/cardwall/internal/cards"
	"github.com/rkovalev/cardwall/internal/model"
)

// ResourceClient is the slice of the remote API the feed needs.
// *remote.Client satisfies it; tests substitute a mock.
type ResourceClient interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, userID int, title, body string) (*model.Post, error)
	UpdatePost(ctx context.Context, postID, userID int, title, body string) (*model.Post, error)
	DeletePost(ctx context.Context, postID int) error
}

// FeedService owns the loaded user set and the live card list.
//
// All state sits behind one mutex. The browser side is a single event loop,
// but the server side handles concurrent requests, so the guard is real:
// two tabs deleting cards at the same time must not corrupt the slice.
type FeedService struct {
	client ResourceClient
	logger *slog.Logger

	loadGroup singleflight.Group

	mu     sync.Mutex
	users  []model.User
	byID   map[int]model.User
	cards  []model.Card
	loaded bool
}

// NewFeedService creates a FeedService. State is empty until Load succeeds.
func NewFeedService(client ResourceClient, logger *slog.Logger) *FeedService {
	return &FeedService{
		client: client,
		logger: logger,
		byID:   make(map[int]model.User),
	}
}

// Load fetches users and posts concurrently, joins them, and stores the
// shuffled result as the wall's display order.
//
// The two fetches run in an errgroup: the first failure cancels the sibling
// and aborts the load with no state change — assembling a wall from half the
// data would hide the failure instead of surfacing it. Load is idempotent;
// once it has succeeded, later calls return immediately and the upstream is
// never contacted again. Concurrent first callers collapse onto a single
// fetch through the singleflight group and share its outcome; a failed load
// is not latched, so the next caller gets a fresh attempt.
func (s *FeedService) Load(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}

	_, err, _ := s.loadGroup.Do("load", func() (interface{}, error) {
		return nil, s.load(ctx)
	})
	return err
}

func (s *FeedService) load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	var (
		users []model.User
		posts []model.Post
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.client.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.client.ListPosts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("initial load failed", slog.String("error", err.Error()))
		return fmt.Errorf("loading feed: %w", err)
	}

	assembled, err := cards.Assemble(users, posts)
	if err != nil {
		s.logger.Error("card assembly failed", slog.String("error", err.Error()))
		return fmt.Errorf("loading feed: %w", err)
	}
	cards.ShuffleDisplayOrder(assembled)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		// A concurrent Load won the race; keep its state.
		return nil
	}
	s.users = users
	s.byID = make(map[int]model.User, len(users))
	for _, u := range users {
		s.byID[u.ID] = u
	}
	s.cards = assembled
	s.loaded = true

	s.logger.Info("feed loaded",
		slog.Int("users", len(users)),
		slog.Int("cards", len(assembled)),
	)
	return nil
}

// Loaded reports whether the initial load has completed.
func (s *FeedService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Cards returns a snapshot of the card list in display order.
// Callers get a copy; mutating it cannot corrupt the live state.
func (s *FeedService) Cards() []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]model.Card, len(s.cards))
	copy(snapshot, s.cards)
	return snapshot
}

// RandomUser picks a uniformly random user from the fetched set, used to
// attribute a browser session that has no acting user yet.
func (s *FeedService) RandomUser() (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.users) == 0 {
		return model.User{}, apperror.NotFound("user", 0)
	}
	return s.users[rand.IntN(len(s.users))], nil
}

// UserByID resolves a user from the fetched set.
func (s *FeedService) UserByID(id int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, apperror.NotFound("user", id)
	}
	return u, nil
}

// CreatePost stores a new post upstream and, on success, prepends the
// resulting card so the wall shows it most-recent-first.
//
// Empty title or body is padded to a single space — the upstream rejects
// truly empty fields and a space renders as an intentionally blank card.
func (s *FeedService) CreatePost(ctx context.Context, authorID int, title, body string) (*model.Card, error) {
	author, err := s.UserByID(authorID)
	if err != nil {
		return nil, apperror.UnknownAuthor(authorID)
	}

	title = padBlank(title)
	body = padBlank(body)

	created, err := s.client.CreatePost(ctx, author.ID, title, body)
	if err != nil {
		s.logger.Error("create post failed",
			slog.Int("authorId", authorID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	card := model.NewCard(author, *created)

	s.mu.Lock()
	s.cards = append([]model.Card{card}, s.cards...)
	s.mu.Unlock()

	s.logger.Info("post created",
		slog.Int("postId", card.PostID),
		slog.Int("authorId", card.UserID),
	)
	return &card, nil
}

// UpdatePost replaces the stored title/body of an existing card's post and,
// on success, swaps the echoed fields into the card in place. On any failure
// the card keeps its previous content.
func (s *FeedService) UpdatePost(ctx context.Context, postID int, title, body string) (*model.Card, error) {
	card, err := s.cardByPostID(postID)
	if err != nil {
		return nil, err
	}

	updated, err := s.client.UpdatePost(ctx, card.PostID, card.UserID, title, body)
	if err != nil {
		s.logger.Error("update post failed",
			slog.Int("postId", postID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].PostID == postID {
			s.cards[i].Title = updated.Title
			s.cards[i].Body = updated.Body
			result := s.cards[i]
			s.logger.Info("post updated", slog.Int("postId", postID))
			return &result, nil
		}
	}
	// The card vanished between the remote call and the swap (a concurrent
	// delete won). The upstream accepted the update, so report the echo.
	result := model.NewCard(model.User{ID: card.UserID, Name: card.Name, Email: card.Email}, *updated)
	return &result, nil
}

// DeletePost removes the post upstream and, on success, drops exactly that
// card. A refused delete leaves the wall untouched.
func (s *FeedService) DeletePost(ctx context.Context, postID int) error {
	if _, err := s.cardByPostID(postID); err != nil {
		return err
	}

	if err := s.client.DeletePost(ctx, postID); err != nil {
		s.logger.Error("delete post failed",
			slog.Int("postId", postID),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].PostID == postID {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			break
		}
	}

	s.logger.Info("post deleted", slog.Int("postId", postID))
	return nil
}

func (s *FeedService) cardByPostID(postID int) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.PostID == postID {
			return c, nil
		}
	}
	return model.Card{}, apperror.NotFound("card", postID)
}

// padBlank keeps a field non-empty for the upstream's validation.
func padBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return " "
	}
	return s
}
