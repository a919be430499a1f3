package order

import (
	"context"
	"testing"

	"github.com/example/sticker-shop/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []Line {
	return []Line{
		{ProductID: "sticker-1", Name: "Shiba Sticker", UnitPrice: 120, Quantity: 2},
		{ProductID: "keychain-1", CaseOptionID: "case-clear", Name: "Cat Keychain", UnitPrice: 250, Quantity: 1},
	}
}

func testPricing() Pricing {
	return Pricing{
		Subtotal:        490,
		GiftWrapFee:     30,
		LoyaltyDiscount: 26,
		DeliveryFee:     0,
		FinalTotal:      494,
	}
}

func testShipping() Shipping {
	return Shipping{Name: "Asha", Address: "12 MG Road", Pincode: "560001", Phone: "9876543210"}
}

func placeTestOrder(t *testing.T, svc *Service) *Order {
	t.Helper()
	o, err := svc.Place(context.Background(), "user-1", testLines(), testPricing(), 49, testShipping(), true, "")
	require.NoError(t, err)
	return o
}

func TestService_Place(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)

	o := placeTestOrder(t, svc)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 494, o.Pricing.FinalTotal)
	assert.Equal(t, 49, o.PointsEarned)
	assert.True(t, o.GiftWrap)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventOrderPlaced, eventStore.AppendCalls[0].EventType)
}

func TestService_Place_EmptyLines(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)

	o, err := svc.Place(context.Background(), "user-1", nil, Pricing{}, 0, testShipping(), false, "")

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, o)
}

func TestService_FullLifecycle(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	o := placeTestOrder(t, svc)

	require.NoError(t, svc.Confirm(ctx, o.ID))
	require.NoError(t, svc.Ship(ctx, o.ID))
	require.NoError(t, svc.MarkOutForDelivery(ctx, o.ID))
	require.NoError(t, svc.MarkDelivered(ctx, o.ID))

	loaded, err := svc.loadOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, loaded.Status)
}

func TestService_NoSkippingStatuses(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	o := placeTestOrder(t, svc)

	// Pending orders cannot jump straight to shipped or delivered
	assert.ErrorIs(t, svc.Ship(ctx, o.ID), ErrInvalidStatus)
	assert.ErrorIs(t, svc.MarkDelivered(ctx, o.ID), ErrInvalidStatus)

	require.NoError(t, svc.Confirm(ctx, o.ID))
	assert.ErrorIs(t, svc.MarkOutForDelivery(ctx, o.ID), ErrInvalidStatus)
}

func TestService_Cancel_FromPending(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	o := placeTestOrder(t, svc)

	require.NoError(t, svc.Cancel(ctx, o.ID, "changed my mind"))

	loaded, err := svc.loadOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, loaded.Status)
}

func TestService_Cancel_FromConfirmed(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	o := placeTestOrder(t, svc)
	require.NoError(t, svc.Confirm(ctx, o.ID))

	assert.NoError(t, svc.Cancel(ctx, o.ID, "ordered twice"))
}

func TestService_Cancel_AfterShipping(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	o := placeTestOrder(t, svc)
	require.NoError(t, svc.Confirm(ctx, o.ID))
	require.NoError(t, svc.Ship(ctx, o.ID))

	assert.ErrorIs(t, svc.Cancel(ctx, o.ID, "too late"), ErrOrderShipped)
}

func TestService_TerminalStatesAreFinal(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	cancelled := placeTestOrder(t, svc)
	require.NoError(t, svc.Cancel(ctx, cancelled.ID, "test"))
	assert.ErrorIs(t, svc.Confirm(ctx, cancelled.ID), ErrOrderCancelled)
	assert.ErrorIs(t, svc.Cancel(ctx, cancelled.ID, "again"), ErrOrderCancelled)

	delivered := placeTestOrder(t, svc)
	require.NoError(t, svc.Confirm(ctx, delivered.ID))
	require.NoError(t, svc.Ship(ctx, delivered.ID))
	require.NoError(t, svc.MarkOutForDelivery(ctx, delivered.ID))
	require.NoError(t, svc.MarkDelivered(ctx, delivered.ID))
	assert.ErrorIs(t, svc.Cancel(ctx, delivered.ID, "refund"), ErrOrderDelivered)
	assert.ErrorIs(t, svc.Ship(ctx, delivered.ID), ErrOrderDelivered)
}

func TestService_Advance_OrderNotFound(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Confirm(ctx, "missing"), ErrOrderNotFound)
	assert.ErrorIs(t, svc.Cancel(ctx, "missing", "reason"), ErrOrderNotFound)
}
