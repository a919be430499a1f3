package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/sticker-shop/internal/api/middleware"
	"github.com/example/sticker-shop/internal/auth"
)

// RouterConfig bundles the handlers and services the router wires together
type RouterConfig struct {
	Handlers        *Handlers
	AuthHandlers    *AuthHandlers
	LoyaltyHandlers *LoyaltyHandlers
	JWTService      *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(cfg.JWTService)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTService)
	requireAdmin := func(h http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireRole("admin")(h))
	}

	// Auth
	mux.HandleFunc("/api/auth/register", methodHandler(http.MethodPost, cfg.AuthHandlers.Register))
	mux.HandleFunc("/api/auth/login", methodHandler(http.MethodPost, cfg.AuthHandlers.Login))
	mux.HandleFunc("/api/auth/logout", methodHandler(http.MethodPost, cfg.AuthHandlers.Logout))
	mux.HandleFunc("/api/auth/refresh", methodHandler(http.MethodPost, cfg.AuthHandlers.Refresh))
	mux.Handle("/api/auth/me", requireAuth(methodHandler(http.MethodGet, cfg.AuthHandlers.Me)))
	mux.Handle("/api/auth/password", requireAuth(methodHandler(http.MethodPut, cfg.AuthHandlers.ChangePassword)))

	// Products (catalog reads are public, writes are admin only)
	mux.Handle("/products", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetProducts(w, r)
		case http.MethodPost:
			requireAdmin(cfg.Handlers.CreateProduct).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/products/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetProduct(w, r)
		case http.MethodPut:
			requireAdmin(cfg.Handlers.UpdateProduct).ServeHTTP(w, r)
		case http.MethodDelete:
			requireAdmin(cfg.Handlers.DeleteProduct).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Cart
	mux.Handle("/cart", optionalAuth(methodHandler(http.MethodGet, cfg.Handlers.GetCart)))
	mux.Handle("/cart/items", optionalAuth(methodHandler(http.MethodPost, cfg.Handlers.AddToCart)))
	mux.Handle("/cart/items/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			cfg.Handlers.SetCartQuantity(w, r)
		case http.MethodDelete:
			cfg.Handlers.RemoveFromCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Checkout
	mux.Handle("/checkout", optionalAuth(methodHandler(http.MethodPost, cfg.Handlers.Checkout)))
	mux.Handle("/checkout/quote", optionalAuth(methodHandler(http.MethodPost, cfg.Handlers.QuoteCheckout)))

	// Orders
	mux.Handle("/orders", optionalAuth(methodHandler(http.MethodGet, cfg.Handlers.GetOrders)))
	mux.Handle("/orders/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/cancel") && r.Method == http.MethodPost:
			cfg.Handlers.CancelOrder(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPut:
			requireAdmin(cfg.Handlers.AdvanceOrder).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			cfg.Handlers.GetOrder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Offers (gamified discounts)
	mux.Handle("/offers", optionalAuth(methodHandler(http.MethodGet, cfg.Handlers.GetOffers)))
	mux.Handle("/offers/draw", optionalAuth(methodHandler(http.MethodPost, cfg.Handlers.DrawOffer)))

	// Loyalty
	mux.Handle("/loyalty", optionalAuth(methodHandler(http.MethodGet, cfg.LoyaltyHandlers.GetStatus)))
	mux.HandleFunc("/loyalty/tiers", methodHandler(http.MethodGet, cfg.LoyaltyHandlers.GetTiers))
	mux.HandleFunc("/loyalty/rewards", methodHandler(http.MethodGet, cfg.LoyaltyHandlers.GetRewards))
	mux.Handle("/loyalty/redeem", optionalAuth(methodHandler(http.MethodPost, cfg.LoyaltyHandlers.RedeemReward)))
	mux.Handle("/loyalty/redemptions", optionalAuth(methodHandler(http.MethodGet, cfg.LoyaltyHandlers.GetRedemptions)))

	// Premium membership
	mux.Handle("/premium/activate", requireAuth(methodHandler(http.MethodPost, cfg.LoyaltyHandlers.ActivatePremium)))

	// Admin
	mux.Handle("/admin/orders", requireAdmin(cfg.Handlers.GetAllOrders))

	return withLogging(mux)
}

func methodHandler(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
