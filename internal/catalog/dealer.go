package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/shuffle"
)

const (
	DefaultPageSize = 50
	DefaultMaxPage  = 50
)

// ErrNoDifficulty is returned when a deal is requested from the menu.
var ErrNoDifficulty = errors.New("catalog: no difficulty chosen")

// Pager is the part of Client the dealer needs.
type Pager interface {
	Characters(ctx context.Context, page, pageSize int) ([]Character, error)
}

// Dealer turns a random catalog page into a hand of cards.
// It is safe for concurrent use.
type Dealer struct {
	pager    Pager
	pageSize int
	maxPage  int
	logger   *log.Logger

	mu  sync.Mutex
	rng shuffle.Source
}

// DealerOption configures a Dealer.
type DealerOption func(*Dealer)

// WithPageSize sets how many records are requested per deal.
func WithPageSize(n int) DealerOption {
	return func(d *Dealer) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

// WithMaxPage sets the highest page number drawn from.
func WithMaxPage(n int) DealerOption {
	return func(d *Dealer) {
		if n > 0 {
			d.maxPage = n
		}
	}
}

// WithSource sets the random source for page choice and shuffling.
func WithSource(src shuffle.Source) DealerOption {
	return func(d *Dealer) {
		if src != nil {
			d.rng = src
		}
	}
}

// WithDealerLogger sets the logger.
func WithDealerLogger(l *log.Logger) DealerOption {
	return func(d *Dealer) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDealer creates a dealer reading from p.
func NewDealer(p Pager, opts ...DealerOption) *Dealer {
	d := &Dealer{
		pager:    p,
		pageSize: DefaultPageSize,
		maxPage:  DefaultMaxPage,
		logger:   log.Default().WithPrefix("catalog"),
		rng:      shuffle.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deal fetches a random page and returns up to levels.HandSize shuffled,
// unclicked cards. The difficulty only has to be chosen; every
// difficulty draws from the same catalog.
func (d *Dealer) Deal(ctx context.Context, diff levels.Difficulty) ([]game.Card, error) {
	if diff == levels.None {
		return nil, ErrNoDifficulty
	}

	d.mu.Lock()
	page := 1 + d.rng.Intn(d.maxPage)
	d.mu.Unlock()

	chars, err := d.pager.Characters(ctx, page, d.pageSize)
	if err != nil {
		return nil, fmt.Errorf("catalog: deal %s: %w", diff, err)
	}

	cards := make([]game.Card, len(chars))
	for i, ch := range chars {
		cards[i] = game.Card{
			ID:       string(ch.ID),
			Name:     ch.Name,
			ImageURL: ch.ImageURL,
		}
	}

	d.mu.Lock()
	cards = shuffle.Shuffle(cards, d.rng)
	d.mu.Unlock()

	if len(cards) > levels.HandSize {
		cards = cards[:levels.HandSize]
	}

	d.logger.Debug("dealt", "difficulty", diff, "page", page, "cards", len(cards))
	return cards, nil
}
