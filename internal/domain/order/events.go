package order

import "time"

const (
	EventOrderPlaced         = "OrderPlaced"
	EventOrderConfirmed      = "OrderConfirmed"
	EventOrderShipped        = "OrderShipped"
	EventOrderOutForDelivery = "OrderOutForDelivery"
	EventOrderDelivered      = "OrderDelivered"
	EventOrderCancelled      = "OrderCancelled"
)

// Line is one purchased (product, case option) pairing
type Line struct {
	ProductID     string `json:"product_id"`
	CaseOptionID  string `json:"case_option_id,omitempty"`
	Name          string `json:"name"`
	UnitPrice     int    `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

// Pricing is the immutable breakdown computed at checkout
type Pricing struct {
	Subtotal        int `json:"subtotal"`
	GiftWrapFee     int `json:"gift_wrap_fee"`
	OfferDiscount   int `json:"offer_discount"`
	LoyaltyDiscount int `json:"loyalty_discount"`
	DeliveryFee     int `json:"delivery_fee"`
	FinalTotal      int `json:"final_total"`
}

// Shipping holds the destination details captured at checkout
type Shipping struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

type OrderPlaced struct {
	OrderID      string    `json:"order_id"`
	UserID       string    `json:"user_id"`
	Lines        []Line    `json:"lines"`
	Pricing      Pricing   `json:"pricing"`
	PointsEarned int       `json:"points_earned"`
	Shipping     Shipping  `json:"shipping"`
	GiftWrap     bool      `json:"gift_wrap"`
	OfferID      string    `json:"offer_id,omitempty"`
	PlacedAt     time.Time `json:"placed_at"`
}

type OrderConfirmed struct {
	OrderID     string    `json:"order_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type OrderShipped struct {
	OrderID   string    `json:"order_id"`
	ShippedAt time.Time `json:"shipped_at"`
}

type OrderOutForDelivery struct {
	OrderID string    `json:"order_id"`
	OutAt   time.Time `json:"out_at"`
}

type OrderDelivered struct {
	OrderID     string    `json:"order_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

type OrderCancelled struct {
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}
