package loyalty

import (
	"context"
	"testing"

	"github.com/example/sticker-shop/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		points int
		tier   string
	}{
		{0, "Bronze"},
		{499, "Bronze"},
		{500, "Silver"},
		{1499, "Silver"},
		{1500, "Gold"},
		{4999, "Gold"},
		{5000, "Platinum"},
		{100000, "Platinum"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierForPoints(tt.points).Name, "points=%d", tt.points)
	}
}

func TestTiers_Ordering(t *testing.T) {
	// Thresholds and discounts must both be strictly increasing for
	// TierForPoints to pick the highest matching entry
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].MinPoints, Tiers[i-1].MinPoints)
		assert.Greater(t, Tiers[i].DiscountPercent, Tiers[i-1].DiscountPercent)
	}
}

func TestPointsForAmount_Floors(t *testing.T) {
	assert.Equal(t, 0, PointsForAmount(0))
	assert.Equal(t, 0, PointsForAmount(-50))
	assert.Equal(t, 0, PointsForAmount(9))
	assert.Equal(t, 1, PointsForAmount(10))
	assert.Equal(t, 1, PointsForAmount(19))
	assert.Equal(t, 41, PointsForAmount(418))
	assert.Equal(t, 44, PointsForAmount(440))
}

func TestService_Accrue(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	points, err := svc.Accrue(ctx, "user-1", "order-1", 418)

	require.NoError(t, err)
	assert.Equal(t, 41, points)

	account, err := svc.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 41, account.Points)
	assert.Equal(t, "Bronze", account.Tier().Name)
}

func TestService_Accrue_InvalidAmount(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	_, err := svc.Accrue(ctx, "user-1", "order-1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Accrue(ctx, "user-1", "order-1", -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Accrue_SubUnitAmountEarnsNothing(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	points, err := svc.Accrue(ctx, "user-1", "order-1", 9)

	require.NoError(t, err)
	assert.Equal(t, 0, points)
	// No event is written for a zero accrual
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Redeem(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	_, err := svc.Accrue(ctx, "user-1", "order-1", 5000) // 500 points
	require.NoError(t, err)

	redemption, err := svc.Redeem(ctx, "user-1", "reward-5off")

	require.NoError(t, err)
	assert.NotEmpty(t, redemption.ID)
	assert.Equal(t, "reward-5off", redemption.RewardID)
	assert.Equal(t, 200, redemption.PointsCost)
	assert.False(t, redemption.Used)

	// Points spent equal the catalog cost exactly
	account, err := svc.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, account.Points)
}

func TestService_Redeem_InsufficientPoints(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	_, err := svc.Accrue(ctx, "user-1", "order-1", 1990) // 199 points
	require.NoError(t, err)

	redemption, err := svc.Redeem(ctx, "user-1", "reward-5off")

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Nil(t, redemption)

	// A failed redemption leaves the balance untouched
	account, err := svc.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 199, account.Points)
}

func TestService_Redeem_RewardNotFound(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)

	redemption, err := svc.Redeem(context.Background(), "user-1", "reward-unicorn")

	assert.ErrorIs(t, err, ErrRewardNotFound)
	assert.Nil(t, redemption)
}

func TestService_RedeemDropsTier(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	_, err := svc.Accrue(ctx, "user-1", "order-1", 6000) // 600 points, Silver
	require.NoError(t, err)

	account, err := svc.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Silver", account.Tier().Name)

	// Spending below the Silver threshold demotes the resolved tier
	_, err = svc.Redeem(ctx, "user-1", "reward-5off")
	require.NoError(t, err)

	account, err = svc.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 400, account.Points)
	assert.Equal(t, "Bronze", account.Tier().Name)
}

func TestRewardByID(t *testing.T) {
	r, ok := RewardByID("reward-10off")
	require.True(t, ok)
	assert.Equal(t, EffectDiscount, r.Effect)
	assert.Equal(t, 10, r.Value)

	_, ok = RewardByID("nope")
	assert.False(t, ok)
}
