package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/sticker-shop/internal/command"
	"github.com/example/sticker-shop/internal/domain/loyalty"
	"github.com/example/sticker-shop/internal/query"
)

// LoyaltyHandlers handles loyalty-related HTTP requests
type LoyaltyHandlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

// NewLoyaltyHandlers creates a new LoyaltyHandlers instance
func NewLoyaltyHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *LoyaltyHandlers {
	return &LoyaltyHandlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// LoyaltyStatusResponse is the user's points balance plus resolved tier
type LoyaltyStatusResponse struct {
	UserID          string   `json:"user_id"`
	Points          int      `json:"points"`
	Tier            string   `json:"tier"`
	DiscountPercent int      `json:"discount_percent"`
	Perks           []string `json:"perks"`
	NextTier        string   `json:"next_tier,omitempty"`
	PointsToNext    int      `json:"points_to_next,omitempty"`
}

// GetStatus returns the user's loyalty balance, tier and progress
func (h *LoyaltyHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	points := 0
	if l, ok := h.queryHandler.GetLoyalty(userID); ok {
		points = l.Points
	}

	tier := loyalty.TierForPoints(points)
	resp := LoyaltyStatusResponse{
		UserID:          userID,
		Points:          points,
		Tier:            tier.Name,
		DiscountPercent: tier.DiscountPercent,
		Perks:           tier.Perks,
	}
	for _, t := range loyalty.Tiers {
		if t.MinPoints > points {
			resp.NextTier = t.Name
			resp.PointsToNext = t.MinPoints - points
			break
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetTiers returns the fixed tier ladder
func (h *LoyaltyHandlers) GetTiers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, loyalty.Tiers)
}

// GetRewards returns the rewards catalog
func (h *LoyaltyHandlers) GetRewards(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, loyalty.RewardCatalog)
}

// RedeemReward spends points on a catalog reward
func (h *LoyaltyHandlers) RedeemReward(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		RewardID string `json:"reward_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	redemption, err := h.cmdHandler.RedeemReward(r.Context(), command.RedeemReward{
		UserID:   userID,
		RewardID: req.RewardID,
	})
	if err != nil {
		switch {
		case errors.Is(err, loyalty.ErrRewardNotFound):
			respondJSONError(w, "Reward not found", http.StatusNotFound)
		case errors.Is(err, loyalty.ErrInsufficientPoints):
			respondJSONError(w, "Not enough points", http.StatusConflict)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, redemption)
}

// GetRedemptions returns the user's redemption history
func (h *LoyaltyHandlers) GetRedemptions(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	respondJSON(w, http.StatusOK, h.queryHandler.ListRedemptionsByUser(userID))
}

// ActivatePremium starts or extends the user's premium membership
func (h *LoyaltyHandlers) ActivatePremium(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	expires, err := h.cmdHandler.ActivatePremium(r.Context(), command.ActivatePremium{UserID: userID})
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":         "Premium activated",
		"premium_expires": expires.Format(time.RFC3339),
	})
}
