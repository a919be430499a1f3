package readmodel

import "time"

// CaseOptionReadModel represents a keychain case variant
type CaseOptionReadModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	PriceModifier int    `json:"price_modifier"`
}

// ProductReadModel is the read model for catalog products
type ProductReadModel struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Kind        string                `json:"kind"` // sticker or keychain
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Price       int                   `json:"price"`
	ImageURL    string                `json:"image_url,omitempty"`
	CaseOptions []CaseOptionReadModel `json:"case_options,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CartLineReadModel represents one (product, case option) line in the cart
type CartLineReadModel struct {
	ProductID     string `json:"product_id"`
	CaseOptionID  string `json:"case_option_id,omitempty"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	UnitPrice     int    `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

// CartReadModel is the read model for the shopping cart
type CartReadModel struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	Lines          []CartLineReadModel `json:"lines"`
	Subtotal       int                 `json:"subtotal"`
	KeychainUnits  int                 `json:"keychain_units"`
	BundleEligible bool                `json:"bundle_eligible"`
}

// OrderLineReadModel represents one line in an order
type OrderLineReadModel struct {
	ProductID     string `json:"product_id"`
	CaseOptionID  string `json:"case_option_id,omitempty"`
	Name          string `json:"name"`
	UnitPrice     int    `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

// OrderReadModel is the read model for orders
type OrderReadModel struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	Lines           []OrderLineReadModel `json:"lines"`
	Subtotal        int                  `json:"subtotal"`
	GiftWrapFee     int                  `json:"gift_wrap_fee"`
	OfferDiscount   int                  `json:"offer_discount"`
	LoyaltyDiscount int                  `json:"loyalty_discount"`
	DeliveryFee     int                  `json:"delivery_fee"`
	FinalTotal      int                  `json:"final_total"`
	PointsEarned    int                  `json:"points_earned"`
	ShippingName    string               `json:"shipping_name"`
	ShippingAddress string               `json:"shipping_address"`
	ShippingPincode string               `json:"shipping_pincode"`
	ShippingPhone   string               `json:"shipping_phone"`
	Status          string               `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// UserReadModel is the read model for users
type UserReadModel struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never expose in JSON
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	IsPremium      bool      `json:"is_premium"`
	PremiumExpires time.Time `json:"premium_expires,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SessionReadModel is the read model for user sessions
type SessionReadModel struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}

// LoyaltyReadModel is the read model for a user's loyalty account
type LoyaltyReadModel struct {
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	Tier      string    `json:"tier"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedemptionReadModel records a reward redeemed with loyalty points
type RedemptionReadModel struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RewardID   string    `json:"reward_id"`
	PointsCost int       `json:"points_cost"`
	Used       bool      `json:"used"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// OfferReadModel is the read model for a promotional offer in a user's pool
type OfferReadModel struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Source          string    `json:"source"` // spin, scratch, treasure, reward
	Label           string    `json:"label"`
	DiscountPercent int       `json:"discount_percent"`
	ExpiresAt       time.Time `json:"expires_at"`
	Consumed        bool      `json:"consumed"`
	GrantedAt       time.Time `json:"granted_at"`
}
