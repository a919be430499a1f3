package user

import (
	"context"
	"testing"
	"time"

	"github.com/example/sticker-shop/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)

	u, err := svc.Register(context.Background(), "asha@example.com", "correct-horse", "Asha")

	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, "customer", u.Role)
	assert.True(t, u.IsActive)

	// The created event carries a hash, never the raw password
	require.Len(t, eventStore.AppendCalls, 1)
	created := eventStore.AppendCalls[0].Data.(UserCreated)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	assert.NotEmpty(t, created.PasswordHash)
}

func TestService_Register_Validation(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "password", "Asha")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "asha@example.com", "password", "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestService_ActivatePremium(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	u, err := svc.Register(ctx, "asha@example.com", "password", "Asha")
	require.NoError(t, err)

	before := time.Now()
	expires, err := svc.ActivatePremium(ctx, u.ID)
	require.NoError(t, err)

	// One full term from activation, within test-run tolerance
	assert.WithinDuration(t, before.Add(PremiumDuration), expires, 5*time.Second)
}

func TestService_ActivatePremium_ExtendsActiveMembership(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	u, err := svc.Register(ctx, "asha@example.com", "password", "Asha")
	require.NoError(t, err)

	first, err := svc.ActivatePremium(ctx, u.ID)
	require.NoError(t, err)

	// Renewing while still active stacks a full term on the current expiry
	second, err := svc.ActivatePremium(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Add(PremiumDuration), second)
}

func TestService_ActivatePremium_UserNotFound(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)

	_, err := svc.ActivatePremium(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUser_IsPremium(t *testing.T) {
	now := time.Now()

	u := &User{}
	assert.False(t, u.IsPremium(now), "zero expiry means never premium")

	u.PremiumExpires = now.Add(time.Hour)
	assert.True(t, u.IsPremium(now))

	u.PremiumExpires = now.Add(-time.Hour)
	assert.False(t, u.IsPremium(now))
}
