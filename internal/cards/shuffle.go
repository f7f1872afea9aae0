package cards

import (
	"math/rand/v2"

	"github.com/rkovalev/cardwall/internal/model"
)

// ShuffleDisplayOrder randomizes the wall's card order in place.
//
// This is visual variety only — nothing downstream depends on the order
// beyond "new cards are prepended afterwards". rand.Shuffle is a uniform
// Fisher-Yates permutation.
func ShuffleDisplayOrder(cards []model.Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
