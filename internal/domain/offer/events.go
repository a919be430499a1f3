package offer

import "time"

const (
	EventOfferGranted  = "OfferGranted"
	EventOfferConsumed = "OfferConsumed"
)

type OfferGranted struct {
	PoolID          string    `json:"pool_id"`
	UserID          string    `json:"user_id"`
	OfferID         string    `json:"offer_id"`
	Source          Source    `json:"source"`
	Label           string    `json:"label"`
	DiscountPercent int       `json:"discount_percent"`
	ExpiresAt       time.Time `json:"expires_at"`
	RedemptionID    string    `json:"redemption_id,omitempty"` // set for reward-sourced offers
	GrantedAt       time.Time `json:"granted_at"`
}

type OfferConsumed struct {
	PoolID       string    `json:"pool_id"`
	UserID       string    `json:"user_id"`
	OfferID      string    `json:"offer_id"`
	OrderID      string    `json:"order_id"`
	RedemptionID string    `json:"redemption_id,omitempty"`
	ConsumedAt   time.Time `json:"consumed_at"`
}
