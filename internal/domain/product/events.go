package product

import "time"

const (
	EventProductCreated      = "ProductCreated"
	EventProductUpdated      = "ProductUpdated"
	EventProductDeleted      = "ProductDeleted"
	EventProductImageUpdated = "ProductImageUpdated"
	EventCaseOptionAdded     = "CaseOptionAdded"
)

type ProductCreated struct {
	ProductID   string       `json:"product_id"`
	Name        string       `json:"name"`
	Kind        Kind         `json:"kind"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Price       int          `json:"price"`
	ImageURL    string       `json:"image_url,omitempty"`
	CaseOptions []CaseOption `json:"case_options,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ProductUpdated struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ProductImageUpdated is emitted when the product image is updated
type ProductImageUpdated struct {
	ProductID string    `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CaseOptionAdded is emitted when a case variant is added to a keychain
type CaseOptionAdded struct {
	ProductID  string     `json:"product_id"`
	CaseOption CaseOption `json:"case_option"`
	AddedAt    time.Time  `json:"added_at"`
}
