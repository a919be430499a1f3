package query

import (
	"time"

	"github.com/example/sticker-shop/internal/domain/cart"
	"github.com/example/sticker-shop/internal/infrastructure/store"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Products
func (h *Handler) GetProduct(id string) (*ProductReadModel, bool) {
	data, ok := h.readStore.Get("products", id)
	if !ok {
		return nil, false
	}
	return data.(*ProductReadModel), true
}

func (h *Handler) ListProducts() []*ProductReadModel {
	items := h.readStore.GetAll("products")
	products := make([]*ProductReadModel, 0, len(items))
	for _, item := range items {
		products = append(products, item.(*ProductReadModel))
	}
	return products
}

// ListProductsByKind filters the catalog by product kind (sticker or keychain)
func (h *Handler) ListProductsByKind(kind string) []*ProductReadModel {
	products := make([]*ProductReadModel, 0)
	for _, p := range h.ListProducts() {
		if p.Kind == kind {
			products = append(products, p)
		}
	}
	return products
}

// Cart
func (h *Handler) GetCart(userID string) (*CartReadModel, bool) {
	cartID := cart.GetCartID(userID)
	data, ok := h.readStore.Get("carts", cartID)
	if !ok {
		// Return empty cart
		return &CartReadModel{
			ID:     cartID,
			UserID: userID,
			Lines:  []CartLineReadModel{},
		}, true
	}
	return data.(*CartReadModel), true
}

// Orders
func (h *Handler) GetOrder(id string) (*OrderReadModel, bool) {
	data, ok := h.readStore.Get("orders", id)
	if !ok {
		return nil, false
	}
	return data.(*OrderReadModel), true
}

func (h *Handler) ListOrdersByUser(userID string) []*OrderReadModel {
	items := h.readStore.GetAll("orders")
	orders := make([]*OrderReadModel, 0)
	for _, item := range items {
		o := item.(*OrderReadModel)
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders
}

// ListAllOrders returns all orders (for admin use)
func (h *Handler) ListAllOrders() []*OrderReadModel {
	items := h.readStore.GetAll("orders")
	orders := make([]*OrderReadModel, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.(*OrderReadModel))
	}
	return orders
}

// Loyalty
func (h *Handler) GetLoyalty(userID string) (*LoyaltyReadModel, bool) {
	data, ok := h.readStore.Get("loyalty", userID)
	if !ok {
		return nil, false
	}
	return data.(*LoyaltyReadModel), true
}

func (h *Handler) ListRedemptionsByUser(userID string) []*RedemptionReadModel {
	items := h.readStore.GetAll("redemptions")
	redemptions := make([]*RedemptionReadModel, 0)
	for _, item := range items {
		r := item.(*RedemptionReadModel)
		if r.UserID == userID {
			redemptions = append(redemptions, r)
		}
	}
	return redemptions
}

// Offers
// ListOffersByUser returns the user's unconsumed, unexpired offers
func (h *Handler) ListOffersByUser(userID string) []*OfferReadModel {
	now := time.Now()
	items := h.readStore.GetAll("offers")
	offers := make([]*OfferReadModel, 0)
	for _, item := range items {
		o := item.(*OfferReadModel)
		if o.UserID == userID && !o.Consumed && now.Before(o.ExpiresAt) {
			offers = append(offers, o)
		}
	}
	return offers
}
