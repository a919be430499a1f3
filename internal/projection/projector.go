package projection

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/sticker-shop/internal/domain/cart"
	"github.com/example/sticker-shop/internal/domain/loyalty"
	"github.com/example/sticker-shop/internal/domain/offer"
	"github.com/example/sticker-shop/internal/domain/order"
	"github.com/example/sticker-shop/internal/domain/product"
	"github.com/example/sticker-shop/internal/domain/user"
	"github.com/example/sticker-shop/internal/infrastructure/store"
	"github.com/example/sticker-shop/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case product.AggregateType:
		return p.handleProductEvent(event)
	case cart.AggregateType:
		return p.handleCartEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	case loyalty.AggregateType:
		return p.handleLoyaltyEvent(event)
	case offer.AggregateType:
		return p.handleOfferEvent(event)
	case user.AggregateType:
		return p.handleUserEvent(event)
	}

	return nil
}

func caseOptionModels(opts []product.CaseOption) []readmodel.CaseOptionReadModel {
	models := make([]readmodel.CaseOptionReadModel, len(opts))
	for i, o := range opts {
		models[i] = readmodel.CaseOptionReadModel{
			ID:            o.ID,
			Name:          o.Name,
			Color:         o.Color,
			PriceModifier: o.PriceModifier,
		}
	}
	return models
}

func (p *Projector) handleProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("products", e.ProductID, &readmodel.ProductReadModel{
			ID:          e.ProductID,
			Name:        e.Name,
			Kind:        string(e.Kind),
			Category:    e.Category,
			Description: e.Description,
			Price:       e.Price,
			ImageURL:    e.ImageURL,
			CaseOptions: caseOptionModels(e.CaseOptions),
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.CreatedAt,
		})

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Name = e.Name
			prod.Category = e.Category
			prod.Description = e.Description
			prod.Price = e.Price
			prod.UpdatedAt = e.UpdatedAt
			return prod
		})

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Delete("products", e.ProductID)

	case product.EventProductImageUpdated:
		var e product.ProductImageUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.ImageURL = e.ImageURL
			prod.UpdatedAt = e.UpdatedAt
			return prod
		})

	case product.EventCaseOptionAdded:
		var e product.CaseOptionAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.CaseOptions = append(prod.CaseOptions, readmodel.CaseOptionReadModel{
				ID:            e.CaseOption.ID,
				Name:          e.CaseOption.Name,
				Color:         e.CaseOption.Color,
				PriceModifier: e.CaseOption.PriceModifier,
			})
			prod.UpdatedAt = e.AddedAt
			return prod
		})
	}

	return nil
}

func recalculateCart(c *readmodel.CartReadModel) {
	subtotal := 0
	keychainUnits := 0
	for _, line := range c.Lines {
		subtotal += line.UnitPrice * line.Quantity
		if line.Kind == string(product.KindKeychain) {
			keychainUnits += line.Quantity
		}
	}
	c.Subtotal = subtotal
	c.KeychainUnits = keychainUnits
	c.BundleEligible = keychainUnits >= cart.BundleKeychainThreshold
}

func lineIndex(lines []readmodel.CartLineReadModel, productID, caseOptionID string) int {
	for i, l := range lines {
		if l.ProductID == productID && l.CaseOptionID == caseOptionID {
			return i
		}
	}
	return -1
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventItemAdded:
		var e cart.ItemAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		_, ok := p.readStore.Get("carts", e.CartID)
		if !ok {
			c := &readmodel.CartReadModel{
				ID:     e.CartID,
				UserID: e.UserID,
				Lines: []readmodel.CartLineReadModel{
					{
						ProductID:     e.ProductID,
						CaseOptionID:  e.CaseOptionID,
						Name:          e.Name,
						Kind:          string(e.Kind),
						UnitPrice:     e.UnitPrice,
						Quantity:      e.Quantity,
						Customization: e.Customization,
					},
				},
			}
			recalculateCart(c)
			p.readStore.Set("carts", e.CartID, c)
		} else {
			p.readStore.Update("carts", e.CartID, func(current any) any {
				c := current.(*readmodel.CartReadModel)
				if i := lineIndex(c.Lines, e.ProductID, e.CaseOptionID); i >= 0 {
					c.Lines[i].Quantity += e.Quantity
					c.Lines[i].UnitPrice = e.UnitPrice
					if e.Customization != "" {
						c.Lines[i].Customization = e.Customization
					}
				} else {
					c.Lines = append(c.Lines, readmodel.CartLineReadModel{
						ProductID:     e.ProductID,
						CaseOptionID:  e.CaseOptionID,
						Name:          e.Name,
						Kind:          string(e.Kind),
						UnitPrice:     e.UnitPrice,
						Quantity:      e.Quantity,
						Customization: e.Customization,
					})
				}
				recalculateCart(c)
				return c
			})
		}

	case cart.EventQuantitySet:
		var e cart.CartQuantitySet
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			if i := lineIndex(c.Lines, e.ProductID, e.CaseOptionID); i >= 0 {
				if e.Quantity <= 0 {
					c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				} else {
					c.Lines[i].Quantity = e.Quantity
				}
			}
			recalculateCart(c)
			return c
		})

	case cart.EventItemRemoved:
		var e cart.ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			if i := lineIndex(c.Lines, e.ProductID, e.CaseOptionID); i >= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			}
			recalculateCart(c)
			return c
		})

	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("carts", e.CartID, &readmodel.CartReadModel{
			ID:     e.CartID,
			UserID: e.UserID,
			Lines:  []readmodel.CartLineReadModel{},
		})
	}

	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		lines := make([]readmodel.OrderLineReadModel, len(e.Lines))
		for i, l := range e.Lines {
			lines[i] = readmodel.OrderLineReadModel{
				ProductID:     l.ProductID,
				CaseOptionID:  l.CaseOptionID,
				Name:          l.Name,
				UnitPrice:     l.UnitPrice,
				Quantity:      l.Quantity,
				Customization: l.Customization,
			}
		}
		p.readStore.Set("orders", e.OrderID, &readmodel.OrderReadModel{
			ID:              e.OrderID,
			UserID:          e.UserID,
			Lines:           lines,
			Subtotal:        e.Pricing.Subtotal,
			GiftWrapFee:     e.Pricing.GiftWrapFee,
			OfferDiscount:   e.Pricing.OfferDiscount,
			LoyaltyDiscount: e.Pricing.LoyaltyDiscount,
			DeliveryFee:     e.Pricing.DeliveryFee,
			FinalTotal:      e.Pricing.FinalTotal,
			PointsEarned:    e.PointsEarned,
			ShippingName:    e.Shipping.Name,
			ShippingAddress: e.Shipping.Address,
			ShippingPincode: e.Shipping.Pincode,
			ShippingPhone:   e.Shipping.Phone,
			Status:          string(order.StatusPending),
			CreatedAt:       e.PlacedAt,
			UpdatedAt:       e.PlacedAt,
		})

	case order.EventOrderConfirmed:
		var e order.OrderConfirmed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.setOrderStatus(e.OrderID, order.StatusConfirmed, e.ConfirmedAt)

	case order.EventOrderShipped:
		var e order.OrderShipped
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.setOrderStatus(e.OrderID, order.StatusShipped, e.ShippedAt)

	case order.EventOrderOutForDelivery:
		var e order.OrderOutForDelivery
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.setOrderStatus(e.OrderID, order.StatusOutForDelivery, e.OutAt)

	case order.EventOrderDelivered:
		var e order.OrderDelivered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.setOrderStatus(e.OrderID, order.StatusDelivered, e.DeliveredAt)

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.setOrderStatus(e.OrderID, order.StatusCancelled, e.CancelledAt)
	}

	return nil
}

func (p *Projector) handleLoyaltyEvent(event store.Event) error {
	switch event.EventType {
	case loyalty.EventPointsAccrued:
		var e loyalty.PointsAccrued
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.adjustPoints(e.UserID, e.Points, e.AccruedAt)

	case loyalty.EventPointsRedeemed:
		var e loyalty.PointsRedeemed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.adjustPoints(e.UserID, -e.PointsCost, e.RedeemedAt)
		p.readStore.Set("redemptions", e.RedemptionID, &readmodel.RedemptionReadModel{
			ID:         e.RedemptionID,
			UserID:     e.UserID,
			RewardID:   e.RewardID,
			PointsCost: e.PointsCost,
			Used:       false,
			RedeemedAt: e.RedeemedAt,
		})
	}

	return nil
}

func (p *Projector) handleOfferEvent(event store.Event) error {
	switch event.EventType {
	case offer.EventOfferGranted:
		var e offer.OfferGranted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("offers", e.OfferID, &readmodel.OfferReadModel{
			ID:              e.OfferID,
			UserID:          e.UserID,
			Source:          string(e.Source),
			Label:           e.Label,
			DiscountPercent: e.DiscountPercent,
			ExpiresAt:       e.ExpiresAt,
			GrantedAt:       e.GrantedAt,
		})

	case offer.EventOfferConsumed:
		var e offer.OfferConsumed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("offers", e.OfferID, func(current any) any {
			o := current.(*readmodel.OfferReadModel)
			o.Consumed = true
			return o
		})
		// A consumed reward-sourced offer marks its redemption as used
		if e.RedemptionID != "" {
			p.readStore.Update("redemptions", e.RedemptionID, func(current any) any {
				r := current.(*readmodel.RedemptionReadModel)
				r.Used = true
				return r
			})
		}
	}

	return nil
}

func (p *Projector) handleUserEvent(event store.Event) error {
	switch event.EventType {
	case user.EventUserCreated:
		var e user.UserCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("users", e.UserID, &readmodel.UserReadModel{
			ID:           e.UserID,
			Email:        e.Email,
			PasswordHash: e.PasswordHash,
			Name:         e.Name,
			Role:         e.Role,
			IsActive:     true,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case user.EventUserUpdated:
		var e user.UserUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.Name = e.Name
			u.UpdatedAt = e.UpdatedAt
			return u
		})

	case user.EventUserPasswordChanged:
		var e user.UserPasswordChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.PasswordHash = e.PasswordHash
			u.UpdatedAt = e.ChangedAt
			return u
		})

	case user.EventPremiumActivated:
		var e user.PremiumActivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.IsPremium = true
			u.PremiumExpires = e.ExpiresAt
			u.UpdatedAt = e.ActivatedAt
			return u
		})

	case user.EventUserDeactivated:
		var e user.UserDeactivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.IsActive = false
			u.UpdatedAt = e.DeactivatedAt
			return u
		})

	case user.EventUserActivated:
		var e user.UserActivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.IsActive = true
			u.UpdatedAt = e.ActivatedAt
			return u
		})
	}

	return nil
}

func (p *Projector) setOrderStatus(orderID string, status order.Status, at time.Time) {
	p.readStore.Update("orders", orderID, func(current any) any {
		o := current.(*readmodel.OrderReadModel)
		o.Status = string(status)
		o.UpdatedAt = at
		return o
	})
}

func (p *Projector) adjustPoints(userID string, delta int, at time.Time) {
	existing, ok := p.readStore.Get("loyalty", userID)
	if !ok {
		points := delta
		if points < 0 {
			points = 0
		}
		p.readStore.Set("loyalty", userID, &readmodel.LoyaltyReadModel{
			UserID:    userID,
			Points:    points,
			Tier:      loyalty.TierForPoints(points).Name,
			UpdatedAt: at,
		})
		return
	}
	l := existing.(*readmodel.LoyaltyReadModel)
	l.Points += delta
	if l.Points < 0 {
		l.Points = 0
	}
	l.Tier = loyalty.TierForPoints(l.Points).Name
	l.UpdatedAt = at
	p.readStore.Set("loyalty", userID, l)
}
