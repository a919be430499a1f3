package offer

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Prize is one outcome on a promotional mechanic's weight table.
// A zero DiscountPercent prize is a miss: nothing is granted.
type Prize struct {
	Label           string
	DiscountPercent int
	Weight          int
	TTL             time.Duration
}

// Producer draws a prize for a promotional mechanic
type Producer interface {
	Draw() Prize
	Source() Source
}

var ErrUnknownSource = errors.New("unknown offer source")

// weightTables defines the fixed outcome distribution per mechanic
var weightTables = map[Source][]Prize{
	SourceSpin: {
		{Label: "Better luck next time", DiscountPercent: 0, Weight: 40},
		{Label: "5% off your order", DiscountPercent: 5, Weight: 30, TTL: 24 * time.Hour},
		{Label: "10% off your order", DiscountPercent: 10, Weight: 20, TTL: 24 * time.Hour},
		{Label: "20% off your order", DiscountPercent: 20, Weight: 10, TTL: 12 * time.Hour},
	},
	SourceScratch: {
		{Label: "Nothing this time", DiscountPercent: 0, Weight: 50},
		{Label: "Scratch win: 5% off", DiscountPercent: 5, Weight: 25, TTL: 48 * time.Hour},
		{Label: "Scratch win: 15% off", DiscountPercent: 15, Weight: 20, TTL: 48 * time.Hour},
		{Label: "Jackpot: 25% off", DiscountPercent: 25, Weight: 5, TTL: 24 * time.Hour},
	},
	SourceTreasure: {
		{Label: "Empty chest", DiscountPercent: 0, Weight: 60},
		{Label: "Treasure: 10% off", DiscountPercent: 10, Weight: 30, TTL: 72 * time.Hour},
		{Label: "Treasure: 30% off", DiscountPercent: 30, Weight: 10, TTL: 24 * time.Hour},
	},
}

// tableProducer draws from a fixed weight table: a uniform value in
// [0, totalWeight) walks the cumulative weights.
type tableProducer struct {
	source Source
	prizes []Prize
	rng    *rand.Rand
}

func (t *tableProducer) Source() Source { return t.source }

func (t *tableProducer) Draw() Prize {
	total := 0
	for _, p := range t.prizes {
		total += p.Weight
	}
	n := t.rng.Intn(total)
	for _, p := range t.prizes {
		n -= p.Weight
		if n < 0 {
			return p
		}
	}
	return t.prizes[len(t.prizes)-1]
}

// NewProducer returns the weighted producer for a gamified source
func NewProducer(source Source, rng *rand.Rand) (Producer, error) {
	prizes, ok := weightTables[source]
	if !ok {
		return nil, ErrUnknownSource
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &tableProducer{source: source, prizes: prizes, rng: rng}, nil
}

// DrawResult is the outcome of playing a promotional mechanic
type DrawResult struct {
	Won   bool   `json:"won"`
	Label string `json:"label"`
	Offer *Offer `json:"offer,omitempty"`
}

// Play draws from the mechanic's weight table and, on a win, grants the
// prize as a single-use offer in the user's pool.
func (s *Service) Play(ctx context.Context, userID string, producer Producer) (*DrawResult, error) {
	prize := producer.Draw()
	if prize.DiscountPercent == 0 {
		return &DrawResult{Won: false, Label: prize.Label}, nil
	}

	o, err := s.Grant(ctx, userID, producer.Source(), prize.Label, prize.DiscountPercent, time.Now().Add(prize.TTL), "")
	if err != nil {
		return nil, err
	}
	return &DrawResult{Won: true, Label: prize.Label, Offer: o}, nil
}
