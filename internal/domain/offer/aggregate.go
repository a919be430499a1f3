package offer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/sticker-shop/internal/domain/aggregate"
	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "OfferPool"

// RewardOfferTTL is the validity window for offers granted by redeeming
// a discount-type loyalty reward
const RewardOfferTTL = 7 * 24 * time.Hour

// Source tags where a promotional offer was won
type Source string

const (
	SourceSpin     Source = "spin"
	SourceScratch  Source = "scratch"
	SourceTreasure Source = "treasure"
	SourceReward   Source = "reward"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrExpiredOffer  = errors.New("offer has expired")
)

// Offer is a single-use percentage discount won through a promotional mechanic
type Offer struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Source          Source    `json:"source"`
	Label           string    `json:"label"`
	DiscountPercent int       `json:"discount_percent"`
	ExpiresAt       time.Time `json:"expires_at"`
	RedemptionID    string    `json:"redemption_id,omitempty"`
	GrantedAt       time.Time `json:"granted_at"`
}

// Expired reports whether the offer is past its expiry at the given instant
func (o Offer) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Pool holds a user's unconsumed offers
type Pool struct {
	ID      string           `json:"id"`
	UserID  string           `json:"user_id"`
	Offers  map[string]Offer `json:"offers"` // offerID -> offer
	Version int              `json:"version"`
}

// Aggregate interface implementation
func (p *Pool) GetID() string    { return p.ID }
func (p *Pool) GetVersion() int  { return p.Version }
func (p *Pool) SetVersion(v int) { p.Version = v }

// GetPoolID returns the offer pool ID for a user
func GetPoolID(userID string) string {
	return "offers-" + userID
}

// Active returns the offers not yet expired at the given instant
func (p *Pool) Active(now time.Time) []Offer {
	var active []Offer
	for _, o := range p.Offers {
		if !o.Expired(now) {
			active = append(active, o)
		}
	}
	return active
}

// ApplyEvent applies a single event to the pool state (implements aggregate.Aggregate)
func (p *Pool) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOfferGranted:
		var data OfferGranted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if p.Offers == nil {
			p.Offers = make(map[string]Offer)
		}
		p.ID = data.PoolID
		p.UserID = data.UserID
		p.Offers[data.OfferID] = Offer{
			ID:              data.OfferID,
			UserID:          data.UserID,
			Source:          data.Source,
			Label:           data.Label,
			DiscountPercent: data.DiscountPercent,
			ExpiresAt:       data.ExpiresAt,
			RedemptionID:    data.RedemptionID,
			GrantedAt:       data.GrantedAt,
		}
	case EventOfferConsumed:
		var data OfferConsumed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		delete(p.Offers, data.OfferID)
	}
	p.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// GetPool loads the current offer pool for a user, empty if none exists
func (s *Service) GetPool(ctx context.Context, userID string) (*Pool, error) {
	poolID := GetPoolID(userID)
	p, found, err := aggregate.LoadAggregate(ctx, s.eventStore, poolID, func() *Pool {
		return &Pool{Offers: make(map[string]Offer)}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &Pool{ID: poolID, UserID: userID, Offers: make(map[string]Offer)}, nil
	}
	if p.Offers == nil {
		p.Offers = make(map[string]Offer)
	}
	return p, nil
}

// GetOffer returns an unexpired offer from the user's pool.
// Expiry is checked freshly here, not from any cached listing.
func (s *Service) GetOffer(ctx context.Context, userID, offerID string) (*Offer, error) {
	pool, err := s.GetPool(ctx, userID)
	if err != nil {
		return nil, err
	}
	o, ok := pool.Offers[offerID]
	if !ok {
		return nil, ErrOfferNotFound
	}
	if o.Expired(time.Now()) {
		return nil, ErrExpiredOffer
	}
	return &o, nil
}

// Grant appends a new offer to the user's pool and returns it
func (s *Service) Grant(ctx context.Context, userID string, source Source, label string, discountPercent int, expiresAt time.Time, redemptionID string) (*Offer, error) {
	poolID := GetPoolID(userID)
	offerID := uuid.New().String()
	now := time.Now()

	event := OfferGranted{
		PoolID:          poolID,
		UserID:          userID,
		OfferID:         offerID,
		Source:          source,
		Label:           label,
		DiscountPercent: discountPercent,
		ExpiresAt:       expiresAt,
		RedemptionID:    redemptionID,
		GrantedAt:       now,
	}

	if _, err := s.eventStore.Append(ctx, poolID, AggregateType, EventOfferGranted, event); err != nil {
		return nil, err
	}

	s.maybeSnapshot(ctx, userID)

	return &Offer{
		ID:              offerID,
		UserID:          userID,
		Source:          source,
		Label:           label,
		DiscountPercent: discountPercent,
		ExpiresAt:       expiresAt,
		RedemptionID:    redemptionID,
		GrantedAt:       now,
	}, nil
}

// Consume permanently removes an offer from the pool after use in an order.
// An expired offer cannot be consumed even if still present in the pool.
func (s *Service) Consume(ctx context.Context, userID, offerID, orderID string) error {
	pool, err := s.GetPool(ctx, userID)
	if err != nil {
		return err
	}
	o, ok := pool.Offers[offerID]
	if !ok {
		return ErrOfferNotFound
	}
	if o.Expired(time.Now()) {
		return ErrExpiredOffer
	}

	event := OfferConsumed{
		PoolID:       pool.ID,
		UserID:       userID,
		OfferID:      offerID,
		OrderID:      orderID,
		RedemptionID: o.RedemptionID,
		ConsumedAt:   time.Now(),
	}

	if _, err := s.eventStore.Append(ctx, pool.ID, AggregateType, EventOfferConsumed, event); err != nil {
		return err
	}

	s.maybeSnapshot(ctx, userID)
	return nil
}

func (s *Service) maybeSnapshot(ctx context.Context, userID string) {
	pool, err := s.GetPool(ctx, userID)
	if err != nil {
		return
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, pool, AggregateType); err != nil {
		log.Printf("[Offer] Failed to create snapshot for pool %s: %v", pool.ID, err)
	}
}
