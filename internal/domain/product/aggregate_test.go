package product

import (
	"context"
	"testing"

	"github.com/example/sticker-shop/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Create_Sticker(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shiba Sticker", KindSticker, "animals", "A very good boy", 120, "", nil)

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, KindSticker, p.Kind)
	assert.Equal(t, 120, p.Price)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductCreated, eventStore.AppendCalls[0].EventType)
}

func TestService_Create_KeychainWithCaseOptions(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	options := []CaseOption{
		{Name: "Clear acrylic", Color: "clear", PriceModifier: 0},
		{Name: "Glitter shell", Color: "pink", PriceModifier: 50},
	}

	p, err := svc.Create(ctx, "Cat Keychain", KindKeychain, "animals", "", 250, "", options)

	require.NoError(t, err)
	require.Len(t, p.CaseOptions, 2)
	// Options without an ID get one assigned on creation
	assert.NotEmpty(t, p.CaseOptions[0].ID)
	assert.NotEmpty(t, p.CaseOptions[1].ID)
}

func TestService_Create_Validation(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	tests := []struct {
		name    string
		create  func() (*Product, error)
		wantErr error
	}{
		{
			name: "empty name",
			create: func() (*Product, error) {
				return svc.Create(ctx, "", KindSticker, "", "", 100, "", nil)
			},
			wantErr: ErrInvalidName,
		},
		{
			name: "zero price",
			create: func() (*Product, error) {
				return svc.Create(ctx, "Sticker", KindSticker, "", "", 0, "", nil)
			},
			wantErr: ErrInvalidPrice,
		},
		{
			name: "unknown kind",
			create: func() (*Product, error) {
				return svc.Create(ctx, "Mug", Kind("mug"), "", "", 100, "", nil)
			},
			wantErr: ErrInvalidKind,
		},
		{
			name: "case options on a sticker",
			create: func() (*Product, error) {
				return svc.Create(ctx, "Sticker", KindSticker, "", "", 100, "", []CaseOption{{Name: "Shell"}})
			},
			wantErr: ErrCaseOnSticker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.create()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}

	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Update_NotFound(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)

	err := svc.Update(context.Background(), "missing", "Name", "cat", "desc", 100)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_Update_Success(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	eventStore.AddEvent("prod-1", AggregateType, EventProductCreated, ProductCreated{ProductID: "prod-1"})

	err := svc.Update(ctx, "prod-1", "New Name", "animals", "desc", 140)

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductUpdated, eventStore.AppendCalls[0].EventType)
}

func TestService_AddCaseOption(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	eventStore.AddEvent("prod-1", AggregateType, EventProductCreated, ProductCreated{ProductID: "prod-1", Kind: KindKeychain})

	err := svc.AddCaseOption(ctx, "prod-1", CaseOption{Name: "Matte black", Color: "black", PriceModifier: 30})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventCaseOptionAdded, eventStore.AppendCalls[0].EventType)
}

func TestProduct_UnitPrice(t *testing.T) {
	p := &Product{
		ID:    "prod-1",
		Kind:  KindKeychain,
		Price: 250,
		CaseOptions: []CaseOption{
			{ID: "case-clear", Name: "Clear", PriceModifier: 0},
			{ID: "case-glitter", Name: "Glitter", PriceModifier: 50},
			{ID: "case-budget", Name: "Budget", PriceModifier: -20},
		},
	}

	price, err := p.UnitPrice("")
	require.NoError(t, err)
	assert.Equal(t, 250, price)

	price, err = p.UnitPrice("case-glitter")
	require.NoError(t, err)
	assert.Equal(t, 300, price)

	// Negative modifiers lower the unit price
	price, err = p.UnitPrice("case-budget")
	require.NoError(t, err)
	assert.Equal(t, 230, price)

	_, err = p.UnitPrice("nope")
	assert.ErrorIs(t, err, ErrCaseOptionMissing)
}
