package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/sticker-shop/internal/domain/aggregate"
	"github.com/example/sticker-shop/internal/domain/product"
	"github.com/example/sticker-shop/internal/infrastructure/store"
)

const AggregateType = "Cart"

// Bundle offer: 2 keychain units in the cart earn 5 free stickers
const (
	BundleKeychainThreshold = 2
	BundleFreeStickers      = 5
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
)

// Line is one (product, case option) pairing with a quantity
type Line struct {
	ProductID     string       `json:"product_id"`
	CaseOptionID  string       `json:"case_option_id,omitempty"`
	Name          string       `json:"name"`
	Kind          product.Kind `json:"kind"`
	UnitPrice     int          `json:"unit_price"`
	Quantity      int          `json:"quantity"`
	Customization string       `json:"customization,omitempty"`
}

type Cart struct {
	ID      string          `json:"id"`
	UserID  string          `json:"user_id"`
	Lines   map[string]Line `json:"lines"` // lineKey -> line
	Version int             `json:"version"`
}

// Aggregate interface implementation
func (c *Cart) GetID() string    { return c.ID }
func (c *Cart) GetVersion() int  { return c.Version }
func (c *Cart) SetVersion(v int) { c.Version = v }

// GetCartID returns the cart ID for a user (using userID as cartID for simplicity)
func GetCartID(userID string) string {
	return "cart-" + userID
}

// LineKey identifies a cart line by its (product, case option) pair
func LineKey(productID, caseOptionID string) string {
	if caseOptionID == "" {
		return productID
	}
	return productID + ":" + caseOptionID
}

// Subtotal is the sum of unit price times quantity over all lines
func (c *Cart) Subtotal() int {
	total := 0
	for _, line := range c.Lines {
		total += line.UnitPrice * line.Quantity
	}
	return total
}

// KeychainUnits counts keychain units across all lines
func (c *Cart) KeychainUnits() int {
	units := 0
	for _, line := range c.Lines {
		if line.Kind == product.KindKeychain {
			units += line.Quantity
		}
	}
	return units
}

// BundleEligible reports whether the cart has earned the free-sticker bundle
func (c *Cart) BundleEligible() bool {
	return c.KeychainUnits() >= BundleKeychainThreshold
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ApplyEvent applies a single event to the cart state (implements aggregate.Aggregate)
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventItemAdded:
		var data ItemAddedToCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if c.Lines == nil {
			c.Lines = make(map[string]Line)
		}
		c.ID = data.CartID
		c.UserID = data.UserID
		key := LineKey(data.ProductID, data.CaseOptionID)
		if existing, ok := c.Lines[key]; ok {
			// Re-adding the same pair merges into the existing line
			existing.Quantity += data.Quantity
			existing.UnitPrice = data.UnitPrice
			if data.Customization != "" {
				existing.Customization = data.Customization
			}
			c.Lines[key] = existing
		} else {
			c.Lines[key] = Line{
				ProductID:     data.ProductID,
				CaseOptionID:  data.CaseOptionID,
				Name:          data.Name,
				Kind:          data.Kind,
				UnitPrice:     data.UnitPrice,
				Quantity:      data.Quantity,
				Customization: data.Customization,
			}
		}
	case EventQuantitySet:
		var data CartQuantitySet
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		key := LineKey(data.ProductID, data.CaseOptionID)
		if existing, ok := c.Lines[key]; ok {
			if data.Quantity <= 0 {
				delete(c.Lines, key)
			} else {
				existing.Quantity = data.Quantity
				c.Lines[key] = existing
			}
		}
	case EventItemRemoved:
		var data ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		delete(c.Lines, LineKey(data.ProductID, data.CaseOptionID))
	case EventCartCleared:
		var data CartCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines = make(map[string]Line)
	}
	c.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Get loads the current cart state for a user, empty if none exists
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	cartID := GetCartID(userID)
	c, found, err := aggregate.LoadAggregate(ctx, s.eventStore, cartID, func() *Cart {
		return &Cart{Lines: make(map[string]Line)}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &Cart{ID: cartID, UserID: userID, Lines: make(map[string]Line)}, nil
	}
	if c.Lines == nil {
		c.Lines = make(map[string]Line)
	}
	return c, nil
}

// AddItem adds quantity units of a (product, case option) pair to the cart.
// An already-present pair is merged into its existing line at apply time.
func (s *Service) AddItem(ctx context.Context, userID string, p *product.Product, caseOptionID string, quantity int, customization string) error {
	if p == nil || p.ID == "" {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	unitPrice, err := p.UnitPrice(caseOptionID)
	if err != nil {
		return err
	}

	cartID := GetCartID(userID)
	event := ItemAddedToCart{
		CartID:        cartID,
		UserID:        userID,
		ProductID:     p.ID,
		CaseOptionID:  caseOptionID,
		Name:          p.Name,
		Kind:          p.Kind,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		Customization: customization,
		AddedAt:       time.Now(),
	}

	return s.append(ctx, userID, cartID, EventItemAdded, event)
}

// SetQuantity overwrites a line's quantity. Zero or negative behaves as removal.
// Setting quantity on an absent line is a no-op, not an error.
func (s *Service) SetQuantity(ctx context.Context, userID, productID, caseOptionID string, quantity int) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := c.Lines[LineKey(productID, caseOptionID)]; !ok {
		return nil
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID, caseOptionID)
	}

	cartID := GetCartID(userID)
	event := CartQuantitySet{
		CartID:       cartID,
		UserID:       userID,
		ProductID:    productID,
		CaseOptionID: caseOptionID,
		Quantity:     quantity,
		SetAt:        time.Now(),
	}

	return s.append(ctx, userID, cartID, EventQuantitySet, event)
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID, caseOptionID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := c.Lines[LineKey(productID, caseOptionID)]; !ok {
		return nil
	}

	cartID := GetCartID(userID)
	event := ItemRemovedFromCart{
		CartID:       cartID,
		UserID:       userID,
		ProductID:    productID,
		CaseOptionID: caseOptionID,
		RemovedAt:    time.Now(),
	}

	return s.append(ctx, userID, cartID, EventItemRemoved, event)
}

// Clear empties all lines. Called once after a successful checkout.
func (s *Service) Clear(ctx context.Context, userID string) error {
	cartID := GetCartID(userID)
	event := CartCleared{
		CartID:    cartID,
		UserID:    userID,
		ClearedAt: time.Now(),
	}

	return s.append(ctx, userID, cartID, EventCartCleared, event)
}

func (s *Service) append(ctx context.Context, userID, cartID, eventType string, data any) error {
	_, err := s.eventStore.Append(ctx, cartID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, c, AggregateType); err != nil {
		log.Printf("[Cart] Failed to create snapshot for cart %s: %v", cartID, err)
	}
	return nil
}
