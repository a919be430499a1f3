package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/sticker-shop/internal/api/middleware"
	"github.com/example/sticker-shop/internal/checkout"
	"github.com/example/sticker-shop/internal/command"
	"github.com/example/sticker-shop/internal/domain/offer"
	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/domain/product"
	"github.com/example/sticker-shop/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Product Handlers

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, product.ErrInvalidName) || errors.Is(err, product.ErrInvalidKind) ||
			errors.Is(err, product.ErrInvalidPrice) || errors.Is(err, product.ErrCaseOnSticker) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	if kind := r.URL.Query().Get("kind"); kind != "" {
		respondJSON(w, http.StatusOK, h.queryHandler.ListProductsByKind(kind))
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.ListProducts())
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, ok := h.queryHandler.GetProduct(id)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	var cmd command.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd.ProductID = id

	if err := h.cmdHandler.UpdateProduct(r.Context(), cmd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	cmd := command.DeleteProduct{ProductID: id}
	if err := h.cmdHandler.DeleteProduct(r.Context(), cmd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// Cart Handlers

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ProductID     string `json:"product_id"`
		CaseOptionID  string `json:"case_option_id"`
		Quantity      int    `json:"quantity"`
		Customization string `json:"customization"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddToCart{
		UserID:        userID,
		ProductID:     req.ProductID,
		CaseOptionID:  req.CaseOptionID,
		Quantity:      req.Quantity,
		Customization: req.Customization,
	}
	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, product.ErrProductNotFound) || errors.Is(err, product.ErrCaseOptionMissing) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		CaseOptionID string `json:"case_option_id"`
		Quantity     int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.SetCartQuantity{
		UserID:       userID,
		ProductID:    productID,
		CaseOptionID: req.CaseOptionID,
		Quantity:     req.Quantity,
	}
	if err := h.cmdHandler.SetCartQuantity(r.Context(), cmd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	productID := extractPathParam(r.URL.Path, "/cart/items/")
	cmd := command.RemoveFromCart{
		UserID:       userID,
		ProductID:    productID,
		CaseOptionID: r.URL.Query().Get("case_option_id"),
	}
	if err := h.cmdHandler.RemoveFromCart(r.Context(), cmd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	cart, _ := h.queryHandler.GetCart(userID)
	respondJSON(w, http.StatusOK, cart)
}

// Checkout Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		Shipping order.Shipping `json:"shipping"`
		GiftWrap bool           `json:"gift_wrap"`
		OfferID  string         `json:"offer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.cmdHandler.Checkout(r.Context(), command.Checkout{
		UserID:   userID,
		Shipping: req.Shipping,
		GiftWrap: req.GiftWrap,
		OfferID:  req.OfferID,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, checkout.ErrCheckoutInFlight) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// QuoteCheckout prices the cart as it stands, without placing an order
func (h *Handlers) QuoteCheckout(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		GiftWrap bool   `json:"gift_wrap"`
		OfferID  string `json:"offer_id"`
		Pincode  string `json:"pincode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quote, err := h.cmdHandler.QuoteCheckout(r.Context(), command.QuoteCheckout{
		UserID:   userID,
		GiftWrap: req.GiftWrap,
		OfferID:  req.OfferID,
		Pincode:  req.Pincode,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Order Handlers

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	orders := h.queryHandler.ListOrdersByUser(userID)
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	// Remove action suffixes if present
	id = strings.TrimSuffix(id, "/cancel")
	id = strings.TrimSuffix(id, "/status")

	o, ok := h.queryHandler.GetOrder(id)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	// Authorization check: user can only access their own orders (admins can access all)
	userID := getUserID(r)
	if o.UserID != userID && !isAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	id := strings.TrimSuffix(path, "/cancel")

	// Authorization check: user can only cancel their own orders (admins can cancel all)
	o, ok := h.queryHandler.GetOrder(id)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	userID := getUserID(r)
	if o.UserID != userID && !isAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	cmd := command.CancelOrder{
		OrderID: id,
		Reason:  req.Reason,
	}
	if err := h.cmdHandler.CancelOrder(r.Context(), cmd); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, order.ErrOrderShipped) || errors.Is(err, order.ErrOrderCancelled) ||
			errors.Is(err, order.ErrOrderDelivered) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AdvanceOrder moves an order forward in the fulfillment lifecycle (admin only)
func (h *Handlers) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	id := strings.TrimSuffix(path, "/status")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AdvanceOrder{
		OrderID: id,
		Status:  req.Status,
	}
	if err := h.cmdHandler.AdvanceOrder(r.Context(), cmd); err != nil {
		status := http.StatusConflict
		if errors.Is(err, order.ErrOrderNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Offer Handlers

func (h *Handlers) GetOffers(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	respondJSON(w, http.StatusOK, h.queryHandler.ListOffersByUser(userID))
}

func (h *Handlers) DrawOffer(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.cmdHandler.DrawOffer(r.Context(), command.DrawOffer{
		UserID: userID,
		Source: req.Source,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, offer.ErrUnknownSource) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Admin Handlers

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.queryHandler.ListAllOrders()
	respondJSON(w, http.StatusOK, orders)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// getUserID extracts user ID from JWT context or falls back to X-User-ID header
func getUserID(r *http.Request) string {
	// First try to get from JWT context
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		return userID
	}

	// Fall back to X-User-ID header for backward compatibility
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return userID
	}

	return "default-user"
}

// isAdmin checks if the current user has admin role
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}
