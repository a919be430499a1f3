package command

import (
	"context"
	"fmt"
	"time"

	"github.com/example/sticker-shop/internal/checkout"
	"github.com/example/sticker-shop/internal/domain/cart"
	"github.com/example/sticker-shop/internal/domain/loyalty"
	"github.com/example/sticker-shop/internal/domain/offer"
	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/domain/product"
	"github.com/example/sticker-shop/internal/domain/user"
	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/example/sticker-shop/internal/query"
)

type Handler struct {
	productSvc  *product.Service
	cartSvc     *cart.Service
	orderSvc    *order.Service
	loyaltySvc  *loyalty.Service
	offerSvc    *offer.Service
	userSvc     *user.Service
	checkoutSvc *checkout.Service
	readStore   store.ReadStoreInterface
}

func NewHandler(
	productSvc *product.Service,
	cartSvc *cart.Service,
	orderSvc *order.Service,
	loyaltySvc *loyalty.Service,
	offerSvc *offer.Service,
	userSvc *user.Service,
	checkoutSvc *checkout.Service,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		productSvc:  productSvc,
		cartSvc:     cartSvc,
		orderSvc:    orderSvc,
		loyaltySvc:  loyaltySvc,
		offerSvc:    offerSvc,
		userSvc:     userSvc,
		checkoutSvc: checkoutSvc,
		readStore:   readStore,
	}
}

// CreateProduct creates a new product (async projection - updates via Kafka)
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	return h.productSvc.Create(ctx, cmd.Name, product.Kind(cmd.Kind), cmd.Category, cmd.Description, cmd.Price, cmd.ImageURL, cmd.CaseOptions)
}

// UpdateProduct updates a product
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) error {
	return h.productSvc.Update(ctx, cmd.ProductID, cmd.Name, cmd.Category, cmd.Description, cmd.Price)
}

// DeleteProduct deletes a product
func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

// UpdateProductImage sets a new image URL on a product
func (h *Handler) UpdateProductImage(ctx context.Context, cmd UpdateProductImage) error {
	return h.productSvc.UpdateImage(ctx, cmd.ProductID, cmd.ImageURL)
}

// AddCaseOption adds a case variant to a keychain product
func (h *Handler) AddCaseOption(ctx context.Context, cmd AddCaseOption) error {
	return h.productSvc.AddCaseOption(ctx, cmd.ProductID, cmd.CaseOption)
}

// productFromReadModel rebuilds the domain view of a product the cart needs
// for pricing. The read store is the catalog's source for lookups.
func (h *Handler) productFromReadModel(productID string) (*product.Product, error) {
	data, ok := h.readStore.Get("products", productID)
	if !ok {
		return nil, product.ErrProductNotFound
	}
	rm := data.(*query.ProductReadModel)

	caseOptions := make([]product.CaseOption, len(rm.CaseOptions))
	for i, c := range rm.CaseOptions {
		caseOptions[i] = product.CaseOption{
			ID:            c.ID,
			Name:          c.Name,
			Color:         c.Color,
			PriceModifier: c.PriceModifier,
		}
	}

	return &product.Product{
		ID:          rm.ID,
		Name:        rm.Name,
		Kind:        product.Kind(rm.Kind),
		Category:    rm.Category,
		Price:       rm.Price,
		CaseOptions: caseOptions,
	}, nil
}

// AddToCart adds a (product, case option) line to the cart
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	p, err := h.productFromReadModel(cmd.ProductID)
	if err != nil {
		return err
	}
	return h.cartSvc.AddItem(ctx, cmd.UserID, p, cmd.CaseOptionID, cmd.Quantity, cmd.Customization)
}

// SetCartQuantity overwrites a line's quantity; zero or less removes the line
func (h *Handler) SetCartQuantity(ctx context.Context, cmd SetCartQuantity) error {
	return h.cartSvc.SetQuantity(ctx, cmd.UserID, cmd.ProductID, cmd.CaseOptionID, cmd.Quantity)
}

// RemoveFromCart removes a line from cart
func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	return h.cartSvc.RemoveItem(ctx, cmd.UserID, cmd.ProductID, cmd.CaseOptionID)
}

// ClearCart clears all lines from cart
func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	return h.cartSvc.Clear(ctx, cmd.UserID)
}

// DrawOffer plays a gamified mechanic and, on a win, grants the prize
// as a single-use offer in the user's pool
func (h *Handler) DrawOffer(ctx context.Context, cmd DrawOffer) (*offer.DrawResult, error) {
	producer, err := offer.NewProducer(offer.Source(cmd.Source), nil)
	if err != nil {
		return nil, err
	}
	return h.offerSvc.Play(ctx, cmd.UserID, producer)
}

// RedeemReward spends points on a catalog reward. Discount rewards become
// a reward-sourced offer in the user's pool, linked back to the redemption.
func (h *Handler) RedeemReward(ctx context.Context, cmd RedeemReward) (*loyalty.Redemption, error) {
	redemption, err := h.loyaltySvc.Redeem(ctx, cmd.UserID, cmd.RewardID)
	if err != nil {
		return nil, err
	}

	reward, _ := loyalty.RewardByID(cmd.RewardID)
	if reward.Effect == loyalty.EffectDiscount {
		label := fmt.Sprintf("Reward: %s", reward.Name)
		expiresAt := time.Now().Add(offer.RewardOfferTTL)
		if _, err := h.offerSvc.Grant(ctx, cmd.UserID, offer.SourceReward, label, reward.Value, expiresAt, redemption.ID); err != nil {
			return nil, err
		}
	}

	return redemption, nil
}

// Checkout runs the full checkout flow for the user's cart
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (*checkout.Result, error) {
	return h.checkoutSvc.Submit(ctx, cmd.UserID, checkout.Request{
		Shipping: cmd.Shipping,
		GiftWrap: cmd.GiftWrap,
		OfferID:  cmd.OfferID,
	})
}

// QuoteCheckout prices the current cart without placing an order
func (h *Handler) QuoteCheckout(ctx context.Context, cmd QuoteCheckout) (*checkout.Quote, error) {
	return h.checkoutSvc.Preview(ctx, cmd.UserID, cmd.GiftWrap, cmd.OfferID, cmd.Pincode)
}

// CancelOrder cancels an order that has not shipped
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) error {
	return h.orderSvc.Cancel(ctx, cmd.OrderID, cmd.Reason)
}

// AdvanceOrder moves an order forward through the fulfillment lifecycle
func (h *Handler) AdvanceOrder(ctx context.Context, cmd AdvanceOrder) error {
	switch order.Status(cmd.Status) {
	case order.StatusConfirmed:
		return h.orderSvc.Confirm(ctx, cmd.OrderID)
	case order.StatusShipped:
		return h.orderSvc.Ship(ctx, cmd.OrderID)
	case order.StatusOutForDelivery:
		return h.orderSvc.MarkOutForDelivery(ctx, cmd.OrderID)
	case order.StatusDelivered:
		return h.orderSvc.MarkDelivered(ctx, cmd.OrderID)
	default:
		return fmt.Errorf("%w: cannot advance to %s", order.ErrInvalidStatus, cmd.Status)
	}
}

// ActivatePremium starts or extends the user's premium membership
func (h *Handler) ActivatePremium(ctx context.Context, cmd ActivatePremium) (time.Time, error) {
	return h.userSvc.ActivatePremium(ctx, cmd.UserID)
}
