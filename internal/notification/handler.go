package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/email"
	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/example/sticker-shop/internal/readmodel"
)

// Handler processes events for sending notifications
type Handler struct {
	emailService *email.Service
	readStore    store.ReadStoreInterface
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc *email.Service, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		readStore:    readStore,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	// Only process OrderPlaced events
	if event.EventType == order.EventOrderPlaced {
		return h.handleOrderPlaced(event)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, user %s", e.OrderID, e.UserID)

	// Get user information from read store
	userData, exists := h.readStore.Get("users", e.UserID)
	if !exists {
		log.Printf("[Notifier] User not found: %s", e.UserID)
		return nil
	}

	user, ok := userData.(*readmodel.UserReadModel)
	if !ok {
		log.Printf("[Notifier] Invalid user data type for user: %s", e.UserID)
		return nil
	}

	emailLines := make([]email.OrderLine, len(e.Lines))
	for i, line := range e.Lines {
		name := line.Name
		if name == "" {
			if productData, exists := h.readStore.Get("products", line.ProductID); exists {
				if product, ok := productData.(*readmodel.ProductReadModel); ok {
					name = product.Name
				}
			}
		}

		emailLines[i] = email.OrderLine{
			ProductID:     line.ProductID,
			Name:          name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			Customization: line.Customization,
		}
	}

	summary := email.OrderSummary{
		Subtotal:        e.Pricing.Subtotal,
		GiftWrapFee:     e.Pricing.GiftWrapFee,
		OfferDiscount:   e.Pricing.OfferDiscount,
		LoyaltyDiscount: e.Pricing.LoyaltyDiscount,
		DeliveryFee:     e.Pricing.DeliveryFee,
		FinalTotal:      e.Pricing.FinalTotal,
		PointsEarned:    e.PointsEarned,
	}

	// Send order confirmation email
	if err := h.emailService.SendOrderConfirmation(user.Email, e.OrderID, summary, emailLines); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", user.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", user.Email, e.OrderID)
	return nil
}
