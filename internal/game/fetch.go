package game

import (
	"context"

	"github.com/vovakirdan/memory-match/internal/levels"
)

// Dealer produces the hand for a difficulty. Implementations may fail;
// the game treats any error as an empty hand.
type Dealer interface {
	Deal(ctx context.Context, d levels.Difficulty) ([]Card, error)
}

// Ticket identifies one requested deal. Deliveries carrying an outdated
// ticket are dropped.
type Ticket struct {
	Difficulty levels.Difficulty
	seq        uint64
}

// Delivery is the outcome of a deal, ready to be handed back to the game
// on its own event loop.
type Delivery struct {
	Ticket Ticket
	Cards  []Card
	Err    error
}

// Fetch runs the dealer for a ticket. It is safe to call off the game's
// event loop; the result must be passed to Game.Deliver on the loop.
func Fetch(ctx context.Context, dealer Dealer, t Ticket) Delivery {
	cards, err := dealer.Deal(ctx, t.Difficulty)
	return Delivery{Ticket: t, Cards: cards, Err: err}
}
