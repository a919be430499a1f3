package loyalty

import "time"

const (
	EventPointsAccrued  = "LoyaltyPointsAccrued"
	EventPointsRedeemed = "LoyaltyPointsRedeemed"
)

type PointsAccrued struct {
	AccountID   string    `json:"account_id"`
	UserID      string    `json:"user_id"`
	OrderID     string    `json:"order_id"`
	AmountSpent int       `json:"amount_spent"`
	Points      int       `json:"points"`
	AccruedAt   time.Time `json:"accrued_at"`
}

type PointsRedeemed struct {
	AccountID    string    `json:"account_id"`
	UserID       string    `json:"user_id"`
	RedemptionID string    `json:"redemption_id"`
	RewardID     string    `json:"reward_id"`
	PointsCost   int       `json:"points_cost"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}
