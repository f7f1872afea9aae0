// Package cards joins the two upstream resources into renderable cards.
//
// The join is a plain in-memory merge: posts carry a userId, users carry the
// display fields, a card carries both. The package also owns the wall's
// display-order shuffle, kept separate from the join so that assembly stays
// deterministic and testable.
package cards

import (
	"github.com/rkovalev/cardwall/internal/apperror"
	"github.com/rkovalev/cardwall/internal/model"
)

// Assemble produces one Card per post, in post input order, by looking up
// each post's author in the user set.
//
// The lookup map is built in one O(n) pass; duplicate user IDs keep the last
// occurrence. A post whose UserID matches no user fails the whole batch with
// apperror.ErrJoin — a partial card set would render a wall that silently
// drops posts, which is worse than an explicit error.
func Assemble(users []model.User, posts []model.Post) ([]model.Card, error) {
	byID := make(map[int]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	result := make([]model.Card, 0, len(posts))
	for _, p := range posts {
		author, ok := byID[p.UserID]
		if !ok {
			return nil, apperror.Join(p.ID, p.UserID)
		}
		result = append(result, model.NewCard(author, p))
	}
	return result, nil
}
