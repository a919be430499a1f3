package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/sticker-shop/internal/domain/cart"
	"github.com/example/sticker-shop/internal/domain/loyalty"
	"github.com/example/sticker-shop/internal/domain/offer"
	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/pricing"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCheckoutInFlight     = errors.New("a checkout is already in progress for this user")
	ErrMissingShippingField = errors.New("missing required shipping field")
)

// Request carries everything the user chose on the checkout page
type Request struct {
	Shipping order.Shipping `json:"shipping"`
	GiftWrap bool           `json:"gift_wrap"`
	OfferID  string         `json:"offer_id,omitempty"`
}

// Result is the outcome of a submitted checkout
type Result struct {
	Order        *order.Order `json:"order"`
	PointsEarned int          `json:"points_earned"`
	Warnings     []string     `json:"warnings,omitempty"`
}

// Quote is a non-binding price preview for the current cart
type Quote struct {
	Breakdown      pricing.Breakdown `json:"breakdown"`
	TierName       string            `json:"tier_name"`
	LoyaltyPercent int               `json:"loyalty_percent"`
	OfferPercent   int               `json:"offer_percent"`
	BundleEligible bool              `json:"bundle_eligible"`
	PointsEarned   int               `json:"points_earned"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// Service orchestrates the checkout flow across cart, loyalty, offers
// and orders. At most one checkout per user runs at a time.
type Service struct {
	carts   *cart.Service
	orders  *order.Service
	loyalty *loyalty.Service
	offers  *offer.Service
	cfg     pricing.Config

	mu       sync.Mutex
	inflight map[string]bool
}

func NewService(carts *cart.Service, orders *order.Service, loyaltySvc *loyalty.Service, offers *offer.Service, cfg pricing.Config) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		loyalty:  loyaltySvc,
		offers:   offers,
		cfg:      cfg,
		inflight: make(map[string]bool),
	}
}

func (s *Service) begin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[userID] {
		return false
	}
	s.inflight[userID] = true
	return true
}

func (s *Service) end(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}

func validateShipping(sh order.Shipping) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", sh.Name},
		{"address", sh.Address},
		{"pincode", sh.Pincode},
		{"phone", sh.Phone},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingShippingField, f.name)
		}
	}
	return nil
}

// resolveOffer looks up the selected offer's discount. An expired or vanished
// offer degrades to no discount with a warning instead of failing the checkout.
func (s *Service) resolveOffer(ctx context.Context, userID, offerID string) (percent int, usableID string, warnings []string) {
	if offerID == "" {
		return 0, "", nil
	}
	o, err := s.offers.GetOffer(ctx, userID, offerID)
	if err != nil {
		log.Printf("[Checkout] Offer %s unusable for user %s: %v", offerID, userID, err)
		return 0, "", []string{fmt.Sprintf("offer no longer valid: %v", err)}
	}
	return o.DiscountPercent, o.ID, nil
}

// Preview computes the price breakdown for the user's current cart
// without placing an order or consuming anything.
func (s *Service) Preview(ctx context.Context, userID string, giftWrap bool, offerID, pincode string) (*Quote, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	account, err := s.loyalty.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	tier := account.Tier()

	offerPercent, _, warnings := s.resolveOffer(ctx, userID, offerID)

	breakdown := s.cfg.Compute(c.Subtotal(), giftWrap, offerPercent, tier.DiscountPercent, pincode)

	return &Quote{
		Breakdown:      breakdown,
		TierName:       tier.Name,
		LoyaltyPercent: tier.DiscountPercent,
		OfferPercent:   offerPercent,
		BundleEligible: c.BundleEligible(),
		PointsEarned:   loyalty.PointsForAmount(breakdown.FinalTotal),
		Warnings:       warnings,
	}, nil
}

// Submit runs the full checkout: validate, price, mint the order, then
// accrue points, consume the offer and clear the cart. The order is the
// source of truth once placed; follow-up failures are logged, not rolled back.
func (s *Service) Submit(ctx context.Context, userID string, req Request) (*Result, error) {
	if !s.begin(userID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.end(userID)

	if err := validateShipping(req.Shipping); err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	account, err := s.loyalty.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	tier := account.Tier()

	offerPercent, usableOfferID, warnings := s.resolveOffer(ctx, userID, req.OfferID)

	breakdown := s.cfg.Compute(c.Subtotal(), req.GiftWrap, offerPercent, tier.DiscountPercent, req.Shipping.Pincode)
	pointsEarned := loyalty.PointsForAmount(breakdown.FinalTotal)

	lines := make([]order.Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, order.Line{
			ProductID:     l.ProductID,
			CaseOptionID:  l.CaseOptionID,
			Name:          l.Name,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Customization: l.Customization,
		})
	}

	placed, err := s.orders.Place(ctx, userID, lines, order.Pricing{
		Subtotal:        breakdown.Subtotal,
		GiftWrapFee:     breakdown.GiftWrapFee,
		OfferDiscount:   breakdown.OfferDiscount,
		LoyaltyDiscount: breakdown.LoyaltyDiscount,
		DeliveryFee:     breakdown.DeliveryFee,
		FinalTotal:      breakdown.FinalTotal,
	}, pointsEarned, req.Shipping, req.GiftWrap, usableOfferID)
	if err != nil {
		return nil, err
	}

	if breakdown.FinalTotal > 0 {
		if _, err := s.loyalty.Accrue(ctx, userID, placed.ID, breakdown.FinalTotal); err != nil {
			log.Printf("[Checkout] Failed to accrue points for order %s: %v", placed.ID, err)
			warnings = append(warnings, "loyalty points could not be credited")
		}
	}

	if usableOfferID != "" {
		if err := s.offers.Consume(ctx, userID, usableOfferID, placed.ID); err != nil {
			log.Printf("[Checkout] Failed to consume offer %s for order %s: %v", usableOfferID, placed.ID, err)
			warnings = append(warnings, "offer could not be marked as used")
		}
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("[Checkout] Failed to clear cart for user %s after order %s: %v", userID, placed.ID, err)
		warnings = append(warnings, "cart could not be cleared")
	}

	return &Result{
		Order:        placed,
		PointsEarned: pointsEarned,
		Warnings:     warnings,
	}, nil
}
