package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/sticker-shop/internal/domain/aggregate"
	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Order"

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyOrder     = errors.New("order must have at least one line")
	ErrInvalidStatus  = errors.New("invalid order status transition")
	ErrOrderShipped   = errors.New("cannot cancel an order already shipped")
	ErrOrderCancelled = errors.New("order is already cancelled")
	ErrOrderDelivered = errors.New("order is already delivered")
)

// validTransitions defines allowed state transitions. Fulfillment only
// moves forward; cancellation is possible until the order ships.
var validTransitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {}, // terminal state
	StatusCancelled:      {}, // terminal state
}

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition
func (o *Order) transitionError(target Status) error {
	switch {
	case o.Status == StatusCancelled:
		return ErrOrderCancelled
	case o.Status == StatusDelivered:
		return ErrOrderDelivered
	case target == StatusCancelled:
		return ErrOrderShipped
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
	}
}

type Order struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Lines        []Line    `json:"lines"`
	Pricing      Pricing   `json:"pricing"`
	PointsEarned int       `json:"points_earned"`
	Shipping     Shipping  `json:"shipping"`
	GiftWrap     bool      `json:"gift_wrap"`
	OfferID      string    `json:"offer_id,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// Aggregate interface implementation
func (o *Order) GetID() string    { return o.ID }
func (o *Order) GetVersion() int  { return o.Version }
func (o *Order) SetVersion(v int) { o.Version = v }

// ApplyEvent applies a single event to the order state (implements aggregate.Aggregate)
func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.UserID = data.UserID
		o.Lines = data.Lines
		o.Pricing = data.Pricing
		o.PointsEarned = data.PointsEarned
		o.Shipping = data.Shipping
		o.GiftWrap = data.GiftWrap
		o.OfferID = data.OfferID
		o.Status = StatusPending
		o.CreatedAt = data.PlacedAt
		o.UpdatedAt = data.PlacedAt
	case EventOrderConfirmed:
		var data OrderConfirmed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusConfirmed
		o.UpdatedAt = data.ConfirmedAt
	case EventOrderShipped:
		var data OrderShipped
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusShipped
		o.UpdatedAt = data.ShippedAt
	case EventOrderOutForDelivery:
		var data OrderOutForDelivery
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusOutForDelivery
		o.UpdatedAt = data.OutAt
	case EventOrderDelivered:
		var data OrderDelivered
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusDelivered
		o.UpdatedAt = data.DeliveredAt
	case EventOrderCancelled:
		var data OrderCancelled
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusCancelled
		o.UpdatedAt = data.CancelledAt
	}
	o.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// loadOrder loads an order by replaying events, using snapshot if available
func (s *Service) loadOrder(ctx context.Context, orderID string) (*Order, error) {
	order, found, err := aggregate.LoadAggregate(ctx, s.eventStore, orderID, func() *Order {
		return &Order{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Place mints an immutable order snapshot from the checkout computation
func (s *Service) Place(ctx context.Context, userID string, lines []Line, pricing Pricing, pointsEarned int, shipping Shipping, giftWrap bool, offerID string) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	orderID := uuid.New().String()
	now := time.Now()

	event := OrderPlaced{
		OrderID:      orderID,
		UserID:       userID,
		Lines:        lines,
		Pricing:      pricing,
		PointsEarned: pointsEarned,
		Shipping:     shipping,
		GiftWrap:     giftWrap,
		OfferID:      offerID,
		PlacedAt:     now,
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event)
	if err != nil {
		return nil, err
	}

	version := 0
	if storedEvent != nil {
		version = storedEvent.Version
	}

	order := &Order{
		ID:           orderID,
		UserID:       userID,
		Lines:        lines,
		Pricing:      pricing,
		PointsEarned: pointsEarned,
		Shipping:     shipping,
		GiftWrap:     giftWrap,
		OfferID:      offerID,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      version,
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return order, nil
}

// Confirm advances a pending order to confirmed
func (s *Service) Confirm(ctx context.Context, orderID string) error {
	return s.advance(ctx, orderID, StatusConfirmed, EventOrderConfirmed, OrderConfirmed{
		OrderID:     orderID,
		ConfirmedAt: time.Now(),
	})
}

// Ship advances a confirmed order to shipped
func (s *Service) Ship(ctx context.Context, orderID string) error {
	return s.advance(ctx, orderID, StatusShipped, EventOrderShipped, OrderShipped{
		OrderID:   orderID,
		ShippedAt: time.Now(),
	})
}

// MarkOutForDelivery advances a shipped order to out for delivery
func (s *Service) MarkOutForDelivery(ctx context.Context, orderID string) error {
	return s.advance(ctx, orderID, StatusOutForDelivery, EventOrderOutForDelivery, OrderOutForDelivery{
		OrderID: orderID,
		OutAt:   time.Now(),
	})
}

// MarkDelivered advances an out-for-delivery order to delivered
func (s *Service) MarkDelivered(ctx context.Context, orderID string) error {
	return s.advance(ctx, orderID, StatusDelivered, EventOrderDelivered, OrderDelivered{
		OrderID:     orderID,
		DeliveredAt: time.Now(),
	})
}

// Cancel cancels an order that has not shipped yet
func (s *Service) Cancel(ctx context.Context, orderID, reason string) error {
	return s.advance(ctx, orderID, StatusCancelled, EventOrderCancelled, OrderCancelled{
		OrderID:     orderID,
		Reason:      reason,
		CancelledAt: time.Now(),
	})
}

func (s *Service) advance(ctx context.Context, orderID string, target Status, eventType string, data any) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanTransitionTo(target) {
		return order.transitionError(target)
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	order.Status = target
	if storedEvent != nil {
		order.Version = storedEvent.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return nil
}
