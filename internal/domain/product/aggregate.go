package product

import (
	"context"
	"errors"
	"time"

	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Product"

// Kind distinguishes the two catalog families
type Kind string

const (
	KindSticker  Kind = "sticker"
	KindKeychain Kind = "keychain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidName       = errors.New("name is required")
	ErrInvalidKind       = errors.New("kind must be sticker or keychain")
	ErrCaseOnSticker     = errors.New("case options apply to keychains only")
	ErrCaseOptionMissing = errors.New("case option not found")
)

// CaseOption is a keychain variant carried alongside the base product
type CaseOption struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	PriceModifier int    `json:"price_modifier"` // signed, added to base price
}

type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        Kind         `json:"kind"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Price       int          `json:"price"`
	ImageURL    string       `json:"image_url,omitempty"`
	CaseOptions []CaseOption `json:"case_options,omitempty"`
	IsDeleted   bool         `json:"is_deleted,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CaseOptionByID finds a case option on the product
func (p *Product) CaseOptionByID(id string) (CaseOption, bool) {
	for _, c := range p.CaseOptions {
		if c.ID == id {
			return c, true
		}
	}
	return CaseOption{}, false
}

// UnitPrice returns the effective price for the given case option ("" for none)
func (p *Product) UnitPrice(caseOptionID string) (int, error) {
	if caseOptionID == "" {
		return p.Price, nil
	}
	c, ok := p.CaseOptionByID(caseOptionID)
	if !ok {
		return 0, ErrCaseOptionMissing
	}
	return p.Price + c.PriceModifier, nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) Create(ctx context.Context, name string, kind Kind, category, description string, price int, imageURL string, caseOptions []CaseOption) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if kind != KindSticker && kind != KindKeychain {
		return nil, ErrInvalidKind
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if kind == KindSticker && len(caseOptions) > 0 {
		return nil, ErrCaseOnSticker
	}

	for i := range caseOptions {
		if caseOptions[i].ID == "" {
			caseOptions[i].ID = uuid.New().String()
		}
	}

	productID := uuid.New().String()
	now := time.Now()

	event := ProductCreated{
		ProductID:   productID,
		Name:        name,
		Kind:        kind,
		Category:    category,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		CaseOptions: caseOptions,
		CreatedAt:   now,
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event)
	if err != nil {
		return nil, err
	}

	return &Product{
		ID:          productID,
		Name:        name,
		Kind:        kind,
		Category:    category,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		CaseOptions: caseOptions,
		CreatedAt:   now,
	}, nil
}

func (s *Service) Update(ctx context.Context, productID, name, category, description string, price int) error {
	if name == "" {
		return ErrInvalidName
	}
	if price <= 0 {
		return ErrInvalidPrice
	}

	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	event := ProductUpdated{
		ProductID:   productID,
		Name:        name,
		Category:    category,
		Description: description,
		Price:       price,
		UpdatedAt:   time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductUpdated, event)
	return err
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	event := ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, event)
	return err
}

// UpdateImage sets a new image URL on an existing product
func (s *Service) UpdateImage(ctx context.Context, productID, imageURL string) error {
	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	event := ProductImageUpdated{
		ProductID: productID,
		ImageURL:  imageURL,
		UpdatedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductImageUpdated, event)
	return err
}

// AddCaseOption adds a new case variant to an existing keychain
func (s *Service) AddCaseOption(ctx context.Context, productID string, option CaseOption) error {
	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	if option.ID == "" {
		option.ID = uuid.New().String()
	}

	event := CaseOptionAdded{
		ProductID:  productID,
		CaseOption: option,
		AddedAt:    time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventCaseOptionAdded, event)
	return err
}
