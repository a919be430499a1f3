package query

// Re-export read models from readmodel package for backward compatibility
import "github.com/example/sticker-shop/internal/readmodel"

type CaseOptionReadModel = readmodel.CaseOptionReadModel
type ProductReadModel = readmodel.ProductReadModel
type CartLineReadModel = readmodel.CartLineReadModel
type CartReadModel = readmodel.CartReadModel
type OrderLineReadModel = readmodel.OrderLineReadModel
type OrderReadModel = readmodel.OrderReadModel
type UserReadModel = readmodel.UserReadModel
type LoyaltyReadModel = readmodel.LoyaltyReadModel
type RedemptionReadModel = readmodel.RedemptionReadModel
type OfferReadModel = readmodel.OfferReadModel
