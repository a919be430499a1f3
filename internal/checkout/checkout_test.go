package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/example/sticker-shop/internal/domain/cart"
	"github.com/example/sticker-shop/internal/domain/loyalty"
	"github.com/example/sticker-shop/internal/domain/offer"
	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/domain/product"
	"github.com/example/sticker-shop/internal/infrastructure/store/mocks"
	"github.com/example/sticker-shop/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        *Service
	carts      *cart.Service
	loyalty    *loyalty.Service
	offers     *offer.Service
	eventStore *mocks.MockEventStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	eventStore := mocks.NewMockEventStore()
	carts := cart.NewService(eventStore)
	orders := order.NewService(eventStore)
	loyaltySvc := loyalty.NewService(eventStore)
	offers := offer.NewService(eventStore)

	return &fixture{
		svc:        NewService(carts, orders, loyaltySvc, offers, pricing.DefaultConfig()),
		carts:      carts,
		loyalty:    loyaltySvc,
		offers:     offers,
		eventStore: eventStore,
	}
}

func (f *fixture) fillCart(t *testing.T, userID string, price, quantity int) {
	t.Helper()
	p := &product.Product{ID: "sticker-1", Name: "Shiba Sticker", Kind: product.KindSticker, Price: price}
	require.NoError(t, f.carts.AddItem(context.Background(), userID, p, "", quantity, ""))
}

func validRequest() Request {
	return Request{
		Shipping: order.Shipping{
			Name:    "Asha",
			Address: "12 MG Road",
			Pincode: "560001",
			Phone:   "9876543210",
		},
	}
}

func TestSubmit_PlacesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fillCart(t, "user-1", 300, 2) // subtotal 600, over the free delivery threshold

	result, err := f.svc.Submit(ctx, "user-1", validRequest())

	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, order.StatusPending, result.Order.Status)
	assert.Equal(t, 600, result.Order.Pricing.Subtotal)
	assert.Equal(t, 0, result.Order.Pricing.DeliveryFee)
	assert.Equal(t, 600, result.Order.Pricing.FinalTotal)
	assert.Equal(t, 60, result.PointsEarned)
	assert.Empty(t, result.Warnings)

	// Points landed on the account and the cart is empty again
	account, err := f.loyalty.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 60, account.Points)

	c, err := f.carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestSubmit_EmptyCart(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Submit(context.Background(), "user-1", validRequest())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)
}

func TestSubmit_MissingShippingFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", 300, 1)

	for _, mutate := range []func(*Request){
		func(r *Request) { r.Shipping.Name = "" },
		func(r *Request) { r.Shipping.Address = "" },
		func(r *Request) { r.Shipping.Pincode = "" },
		func(r *Request) { r.Shipping.Phone = "" },
	} {
		req := validRequest()
		mutate(&req)
		_, err := f.svc.Submit(ctx, "user-1", req)
		assert.ErrorIs(t, err, ErrMissingShippingField)
	}
}

func TestSubmit_AppliesLoyaltyDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 5000 points puts the user in Platinum (15% off)
	_, err := f.loyalty.Accrue(ctx, "user-1", "earlier-order", 50000)
	require.NoError(t, err)

	f.fillCart(t, "user-1", 1000, 1)

	result, err := f.svc.Submit(ctx, "user-1", validRequest())

	require.NoError(t, err)
	assert.Equal(t, 150, result.Order.Pricing.LoyaltyDiscount)
	assert.Equal(t, 850, result.Order.Pricing.FinalTotal)
}

func TestSubmit_ConsumesOffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Grant(ctx, "user-1", offer.SourceSpin, "10% off your order", 10, time.Now().Add(time.Hour), "")
	require.NoError(t, err)

	f.fillCart(t, "user-1", 1000, 1)

	req := validRequest()
	req.OfferID = o.ID
	result, err := f.svc.Submit(ctx, "user-1", req)

	require.NoError(t, err)
	assert.Equal(t, 100, result.Order.Pricing.OfferDiscount)
	assert.Equal(t, o.ID, result.Order.OfferID)
	assert.Empty(t, result.Warnings)

	// The offer is single use: it is gone from the pool afterwards
	_, err = f.offers.GetOffer(ctx, "user-1", o.ID)
	assert.ErrorIs(t, err, offer.ErrOfferNotFound)
}

func TestSubmit_ExpiredOfferDegradesToWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Grant(ctx, "user-1", offer.SourceSpin, "20% off your order", 20, time.Now().Add(-time.Minute), "")
	require.NoError(t, err)

	f.fillCart(t, "user-1", 1000, 1)

	req := validRequest()
	req.OfferID = o.ID
	result, err := f.svc.Submit(ctx, "user-1", req)

	// The checkout still completes, at full price, with a warning
	require.NoError(t, err)
	assert.Equal(t, 0, result.Order.Pricing.OfferDiscount)
	assert.Equal(t, 1000, result.Order.Pricing.FinalTotal)
	assert.Empty(t, result.Order.OfferID)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "offer no longer valid")
}

func TestSubmit_GiftWrapAndDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := pricing.DefaultConfig()

	f.fillCart(t, "user-1", 100, 1) // well under the free delivery threshold

	req := validRequest()
	req.GiftWrap = true
	result, err := f.svc.Submit(ctx, "user-1", req)

	require.NoError(t, err)
	assert.Equal(t, cfg.GiftWrapFee, result.Order.Pricing.GiftWrapFee)
	assert.Equal(t, cfg.BaseDeliveryFee, result.Order.Pricing.DeliveryFee)
	assert.Equal(t, 100+cfg.GiftWrapFee+cfg.BaseDeliveryFee, result.Order.Pricing.FinalTotal)
	assert.True(t, result.Order.GiftWrap)
}

func TestSubmit_InFlightGuard(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.svc.begin("user-1"))
	assert.False(t, f.svc.begin("user-1"), "second checkout for the same user must be rejected")
	assert.True(t, f.svc.begin("user-2"), "other users are unaffected")

	f.svc.end("user-1")
	assert.True(t, f.svc.begin("user-1"), "the guard releases once the checkout finishes")
}

func TestSubmit_GuardReleasedAfterFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "user-1", validRequest())
	require.ErrorIs(t, err, ErrEmptyCart)

	// The failed attempt must not leave the user locked out
	f.fillCart(t, "user-1", 300, 1)
	_, err = f.svc.Submit(ctx, "user-1", validRequest())
	assert.NoError(t, err)
}

func TestPreview_MatchesSubmitPricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.loyalty.Accrue(ctx, "user-1", "earlier-order", 5000) // 500 points, Silver
	require.NoError(t, err)

	f.fillCart(t, "user-1", 440, 1)

	quote, err := f.svc.Preview(ctx, "user-1", false, "", "560001")
	require.NoError(t, err)
	assert.Equal(t, "Silver", quote.TierName)
	assert.Equal(t, 5, quote.LoyaltyPercent)
	assert.Equal(t, 22, quote.Breakdown.LoyaltyDiscount)

	result, err := f.svc.Submit(ctx, "user-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, quote.Breakdown.FinalTotal, result.Order.Pricing.FinalTotal)
	assert.Equal(t, quote.PointsEarned, result.PointsEarned)
}

func TestPreview_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Preview(context.Background(), "user-1", false, "", "560001")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPreview_BundleEligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keychain := &product.Product{ID: "keychain-1", Name: "Cat Keychain", Kind: product.KindKeychain, Price: 250}
	require.NoError(t, f.carts.AddItem(ctx, "user-1", keychain, "", 2, ""))

	quote, err := f.svc.Preview(ctx, "user-1", false, "", "560001")
	require.NoError(t, err)
	assert.True(t, quote.BundleEligible)
}
