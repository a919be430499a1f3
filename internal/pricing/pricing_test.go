package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		name     string
		amount   int
		pct      int
		expected int
	}{
		{"exact", 1000, 10, 100},
		{"rounds half up", 10, 5, 1},      // 0.5 -> 1
		{"rounds down below half", 9, 5, 0}, // 0.45 -> 0
		{"silver on 440", 440, 5, 22},
		{"zero percent", 440, 0, 0},
		{"zero amount", 0, 15, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundPercent(tt.amount, tt.pct))
		})
	}
}

func TestDeliveryFee_FreeAtThreshold(t *testing.T) {
	cfg := Config{
		FreeDeliveryThreshold: 50,
		BaseDeliveryFee:       40,
		FallbackDeliveryFee:   40,
	}

	// One unit below the threshold pays the fee, at the threshold ships free
	assert.Equal(t, 40, cfg.DeliveryFee(49, "560001"))
	assert.Equal(t, 0, cfg.DeliveryFee(50, "560001"))
	assert.Equal(t, 0, cfg.DeliveryFee(51, "560001"))
}

func TestDeliveryFee_RemoteSurcharge(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, cfg.BaseDeliveryFee, cfg.DeliveryFee(100, "560001"))
	assert.Equal(t, cfg.BaseDeliveryFee+cfg.RemoteSurcharge, cfg.DeliveryFee(100, "790001"))
	assert.Equal(t, cfg.BaseDeliveryFee+cfg.RemoteSurcharge, cfg.DeliveryFee(100, "190042"))
}

func TestDeliveryFee_MalformedPincode(t *testing.T) {
	cfg := DefaultConfig()

	// Anything that is not six digits falls back to the flat fee,
	// even when it starts with a remote prefix
	for _, pincode := range []string{"", "12345", "1234567", "56000a", "ABCDEF", "79x001"} {
		assert.Equal(t, cfg.FallbackDeliveryFee, cfg.DeliveryFee(100, pincode), "pincode %q", pincode)
	}

	// Free delivery still wins over a malformed pincode
	assert.Equal(t, 0, cfg.DeliveryFee(cfg.FreeDeliveryThreshold, "bogus"))
}

func TestCompute_LoyaltyDiscount(t *testing.T) {
	cfg := Config{
		GiftWrapFee:           30,
		FreeDeliveryThreshold: 400,
		BaseDeliveryFee:       49,
		FallbackDeliveryFee:   49,
	}

	// Silver member, 440 subtotal, no extras: 5% off brings it to 418
	b := cfg.Compute(440, false, 0, 5, "560001")

	assert.Equal(t, 440, b.Subtotal)
	assert.Equal(t, 0, b.GiftWrapFee)
	assert.Equal(t, 0, b.OfferDiscount)
	assert.Equal(t, 22, b.LoyaltyDiscount)
	assert.Equal(t, 0, b.DeliveryFee)
	assert.Equal(t, 418, b.FinalTotal)
}

func TestCompute_DiscountsDoNotCompound(t *testing.T) {
	cfg := Config{
		GiftWrapFee:           30,
		FreeDeliveryThreshold: 500,
		BaseDeliveryFee:       49,
		FallbackDeliveryFee:   49,
	}

	// Both percentages apply to the same base (subtotal + gift wrap),
	// so equal percentages produce equal discounts
	b := cfg.Compute(1000, true, 10, 10, "560001")

	assert.Equal(t, 103, b.OfferDiscount)
	assert.Equal(t, 103, b.LoyaltyDiscount)
	assert.Equal(t, 1030-103-103, b.FinalTotal) // over threshold, free delivery
}

func TestCompute_GiftWrapInDiscountBase(t *testing.T) {
	cfg := DefaultConfig()

	plain := cfg.Compute(1000, false, 10, 0, "560001")
	wrapped := cfg.Compute(1000, true, 10, 0, "560001")

	assert.Equal(t, 100, plain.OfferDiscount)
	assert.Equal(t, 103, wrapped.OfferDiscount)
	assert.Equal(t, cfg.GiftWrapFee, wrapped.GiftWrapFee)
}

func TestCompute_NeverNegative(t *testing.T) {
	cfg := Config{
		GiftWrapFee:           30,
		FreeDeliveryThreshold: 500,
		BaseDeliveryFee:       49,
		FallbackDeliveryFee:   49,
	}

	// Discounts exceeding the base clamp the discounted total to zero;
	// only the delivery fee remains
	b := cfg.Compute(100, false, 90, 15, "560001")

	assert.Equal(t, 49, b.FinalTotal)
	assert.GreaterOrEqual(t, b.FinalTotal, 0)
}

func TestCompute_DeliveryDecidedAfterDiscounts(t *testing.T) {
	cfg := Config{
		FreeDeliveryThreshold: 500,
		BaseDeliveryFee:       49,
		FallbackDeliveryFee:   49,
	}

	// Subtotal is above the threshold but the discounted total is not,
	// so the order still pays for delivery
	b := cfg.Compute(520, false, 10, 0, "560001")

	assert.Equal(t, 52, b.OfferDiscount)
	assert.Equal(t, 49, b.DeliveryFee)
	assert.Equal(t, 520-52+49, b.FinalTotal)
}
