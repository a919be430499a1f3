package pricing

// Config holds the fee and discount parameters used at checkout.
// All amounts are in minor currency units.
type Config struct {
	GiftWrapFee           int
	FreeDeliveryThreshold int
	BaseDeliveryFee       int
	RemoteSurcharge       int
	RemotePrefixes        []string
	FallbackDeliveryFee   int
}

// DefaultConfig returns the production fee schedule
func DefaultConfig() Config {
	return Config{
		GiftWrapFee:           30,
		FreeDeliveryThreshold: 500,
		BaseDeliveryFee:       49,
		RemoteSurcharge:       30,
		RemotePrefixes:        []string{"79", "19"},
		FallbackDeliveryFee:   49,
	}
}

// Breakdown is the full price decomposition for a cart at checkout
type Breakdown struct {
	Subtotal        int `json:"subtotal"`
	GiftWrapFee     int `json:"gift_wrap_fee"`
	OfferDiscount   int `json:"offer_discount"`
	LoyaltyDiscount int `json:"loyalty_discount"`
	DeliveryFee     int `json:"delivery_fee"`
	FinalTotal      int `json:"final_total"`
}

// RoundPercent computes pct% of amount with half-up rounding
func RoundPercent(amount, pct int) int {
	return (amount*pct + 50) / 100
}

// validPincode requires exactly six ASCII digits
func validPincode(pincode string) bool {
	if len(pincode) != 6 {
		return false
	}
	for _, c := range pincode {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DeliveryFee computes the delivery fee for a discounted order total.
// Orders at or above the free delivery threshold ship free. A pincode
// that is not six digits gets the flat fallback fee with no surcharge.
func (c Config) DeliveryFee(discountedTotal int, pincode string) int {
	if discountedTotal >= c.FreeDeliveryThreshold {
		return 0
	}
	if !validPincode(pincode) {
		return c.FallbackDeliveryFee
	}
	fee := c.BaseDeliveryFee
	for _, prefix := range c.RemotePrefixes {
		if len(pincode) >= len(prefix) && pincode[:len(prefix)] == prefix {
			fee += c.RemoteSurcharge
			break
		}
	}
	return fee
}

// Compute derives the full breakdown for a checkout.
//
// Both discounts are taken from the same base (subtotal plus gift wrap):
// the offer percentage and the loyalty percentage do not compound. The
// delivery fee is decided from the total after discounts, and the final
// total never goes below zero.
func (c Config) Compute(subtotal int, giftWrap bool, offerPercent, loyaltyPercent int, pincode string) Breakdown {
	b := Breakdown{Subtotal: subtotal}
	if giftWrap {
		b.GiftWrapFee = c.GiftWrapFee
	}

	base := subtotal + b.GiftWrapFee
	b.OfferDiscount = RoundPercent(base, offerPercent)
	b.LoyaltyDiscount = RoundPercent(base, loyaltyPercent)

	discounted := base - b.OfferDiscount - b.LoyaltyDiscount
	if discounted < 0 {
		discounted = 0
	}

	b.DeliveryFee = c.DeliveryFee(discounted, pincode)
	b.FinalTotal = discounted + b.DeliveryFee
	return b
}
