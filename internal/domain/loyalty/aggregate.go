package loyalty

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/sticker-shop/internal/domain/aggregate"
	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Loyalty"

var (
	ErrInsufficientPoints = errors.New("not enough points for this reward")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
)

// Account is a user's loyalty points balance
type Account struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Points  int    `json:"points"`
	Version int    `json:"version"`
}

// Aggregate interface implementation
func (a *Account) GetID() string    { return a.ID }
func (a *Account) GetVersion() int  { return a.Version }
func (a *Account) SetVersion(v int) { a.Version = v }

// Tier returns the tier the current balance earns
func (a *Account) Tier() Tier {
	return TierForPoints(a.Points)
}

// GetAccountID returns the loyalty account ID for a user
func GetAccountID(userID string) string {
	return "loyalty-" + userID
}

// ApplyEvent applies a single event to the account state (implements aggregate.Aggregate)
func (a *Account) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventPointsAccrued:
		var data PointsAccrued
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		a.ID = data.AccountID
		a.UserID = data.UserID
		a.Points += data.Points
	case EventPointsRedeemed:
		var data PointsRedeemed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		a.ID = data.AccountID
		a.UserID = data.UserID
		a.Points -= data.PointsCost
	}
	a.Version = event.Version
	return nil
}

// Redemption records a reward bought with points
type Redemption struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RewardID   string    `json:"reward_id"`
	PointsCost int       `json:"points_cost"`
	Used       bool      `json:"used"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// Service handles loyalty account operations. Redemption is serialized so
// a balance can never be spent twice by overlapping calls.
type Service struct {
	eventStore store.EventStoreInterface
	mu         sync.Mutex
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// GetAccount loads the current account state for a user, zero-balance if none exists
func (s *Service) GetAccount(ctx context.Context, userID string) (*Account, error) {
	accountID := GetAccountID(userID)
	a, found, err := aggregate.LoadAggregate(ctx, s.eventStore, accountID, func() *Account {
		return &Account{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &Account{ID: accountID, UserID: userID}, nil
	}
	return a, nil
}

// Accrue credits floor(amountSpent * PointsPerUnit) points for a completed
// order. The checkout flow calls this exactly once per order.
func (s *Service) Accrue(ctx context.Context, userID, orderID string, amountSpent int) (int, error) {
	if amountSpent <= 0 {
		return 0, ErrInvalidAmount
	}

	points := PointsForAmount(amountSpent)
	if points == 0 {
		return 0, nil
	}

	accountID := GetAccountID(userID)
	event := PointsAccrued{
		AccountID:   accountID,
		UserID:      userID,
		OrderID:     orderID,
		AmountSpent: amountSpent,
		Points:      points,
		AccruedAt:   time.Now(),
	}

	if _, err := s.eventStore.Append(ctx, accountID, AggregateType, EventPointsAccrued, event); err != nil {
		return 0, err
	}

	s.maybeSnapshot(ctx, userID)
	return points, nil
}

// Redeem spends points on a catalog reward. The balance check and deduction
// happen under one lock; an insufficient balance leaves the account unchanged.
func (s *Service) Redeem(ctx context.Context, userID, rewardID string) (*Redemption, error) {
	reward, ok := RewardByID(rewardID)
	if !ok {
		return nil, ErrRewardNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.Points < reward.PointsCost {
		return nil, ErrInsufficientPoints
	}

	redemptionID := uuid.New().String()
	now := time.Now()
	event := PointsRedeemed{
		AccountID:    account.ID,
		UserID:       userID,
		RedemptionID: redemptionID,
		RewardID:     reward.ID,
		PointsCost:   reward.PointsCost,
		RedeemedAt:   now,
	}

	if _, err := s.eventStore.Append(ctx, account.ID, AggregateType, EventPointsRedeemed, event); err != nil {
		return nil, err
	}

	s.maybeSnapshot(ctx, userID)

	return &Redemption{
		ID:         redemptionID,
		UserID:     userID,
		RewardID:   reward.ID,
		PointsCost: reward.PointsCost,
		RedeemedAt: now,
	}, nil
}

func (s *Service) maybeSnapshot(ctx context.Context, userID string) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, account, AggregateType); err != nil {
		log.Printf("[Loyalty] Failed to create snapshot for account %s: %v", account.ID, err)
	}
}
