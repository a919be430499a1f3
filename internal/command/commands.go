package command

import (
	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/domain/product"
)

// Product Commands
type CreateProduct struct {
	Name        string               `json:"name"`
	Kind        string               `json:"kind"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Price       int                  `json:"price"`
	ImageURL    string               `json:"image_url,omitempty"`
	CaseOptions []product.CaseOption `json:"case_options,omitempty"`
}

type UpdateProduct struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

type UpdateProductImage struct {
	ProductID string `json:"product_id"`
	ImageURL  string `json:"image_url"`
}

type AddCaseOption struct {
	ProductID  string             `json:"product_id"`
	CaseOption product.CaseOption `json:"case_option"`
}

// Cart Commands
type AddToCart struct {
	UserID        string `json:"user_id"`
	ProductID     string `json:"product_id"`
	CaseOptionID  string `json:"case_option_id,omitempty"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

type SetCartQuantity struct {
	UserID       string `json:"user_id"`
	ProductID    string `json:"product_id"`
	CaseOptionID string `json:"case_option_id,omitempty"`
	Quantity     int    `json:"quantity"`
}

type RemoveFromCart struct {
	UserID       string `json:"user_id"`
	ProductID    string `json:"product_id"`
	CaseOptionID string `json:"case_option_id,omitempty"`
}

type ClearCart struct {
	UserID string `json:"user_id"`
}

// Offer Commands
type DrawOffer struct {
	UserID string `json:"user_id"`
	Source string `json:"source"` // spin, scratch or treasure
}

// Loyalty Commands
type RedeemReward struct {
	UserID   string `json:"user_id"`
	RewardID string `json:"reward_id"`
}

// Checkout Commands
type Checkout struct {
	UserID   string         `json:"user_id"`
	Shipping order.Shipping `json:"shipping"`
	GiftWrap bool           `json:"gift_wrap"`
	OfferID  string         `json:"offer_id,omitempty"`
}

type QuoteCheckout struct {
	UserID   string `json:"user_id"`
	GiftWrap bool   `json:"gift_wrap"`
	OfferID  string `json:"offer_id,omitempty"`
	Pincode  string `json:"pincode"`
}

// Order Commands
type CancelOrder struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type AdvanceOrder struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"` // confirmed, shipped, out_for_delivery or delivered
}

// User Commands
type ActivatePremium struct {
	UserID string `json:"user_id"`
}
