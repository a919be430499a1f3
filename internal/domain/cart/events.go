package cart

import (
	"time"

	"github.com/example/sticker-shop/internal/domain/product"
)

const (
	EventItemAdded   = "ItemAddedToCart"
	EventQuantitySet = "CartQuantitySet"
	EventItemRemoved = "ItemRemovedFromCart"
	EventCartCleared = "CartCleared"
)

type ItemAddedToCart struct {
	CartID        string       `json:"cart_id"`
	UserID        string       `json:"user_id"`
	ProductID     string       `json:"product_id"`
	CaseOptionID  string       `json:"case_option_id,omitempty"`
	Name          string       `json:"name"`
	Kind          product.Kind `json:"kind"`
	UnitPrice     int          `json:"unit_price"`
	Quantity      int          `json:"quantity"`
	Customization string       `json:"customization,omitempty"`
	AddedAt       time.Time    `json:"added_at"`
}

type CartQuantitySet struct {
	CartID       string    `json:"cart_id"`
	UserID       string    `json:"user_id"`
	ProductID    string    `json:"product_id"`
	CaseOptionID string    `json:"case_option_id,omitempty"`
	Quantity     int       `json:"quantity"`
	SetAt        time.Time `json:"set_at"`
}

type ItemRemovedFromCart struct {
	CartID       string    `json:"cart_id"`
	UserID       string    `json:"user_id"`
	ProductID    string    `json:"product_id"`
	CaseOptionID string    `json:"case_option_id,omitempty"`
	RemovedAt    time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
