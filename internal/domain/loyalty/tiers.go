package loyalty

import "math"

// PointsPerUnit is the points accrued per smallest currency unit spent.
// Accrual always floors so a partial unit never over-credits.
const PointsPerUnit = 0.1

// Tier is a loyalty rank granting a percentage discount at checkout
type Tier struct {
	Name            string   `json:"name"`
	MinPoints       int      `json:"min_points"`
	DiscountPercent int      `json:"discount_percent"`
	Perks           []string `json:"perks"`
}

// Tiers is ordered by ascending MinPoints; exactly one tier applies
// to any balance (the highest whose MinPoints <= balance).
var Tiers = []Tier{
	{Name: "Bronze", MinPoints: 0, DiscountPercent: 0, Perks: []string{"Birthday surprise sticker"}},
	{Name: "Silver", MinPoints: 500, DiscountPercent: 5, Perks: []string{"5% off every order", "Early access to drops"}},
	{Name: "Gold", MinPoints: 1500, DiscountPercent: 10, Perks: []string{"10% off every order", "Free gift wrap", "Early access to drops"}},
	{Name: "Platinum", MinPoints: 5000, DiscountPercent: 15, Perks: []string{"15% off every order", "Free gift wrap", "Priority support", "Exclusive drops"}},
}

// TierForPoints returns the highest tier whose threshold the balance meets.
// Total over all non-negative balances; a zero balance maps to the lowest tier.
func TierForPoints(points int) Tier {
	tier := Tiers[0]
	for _, t := range Tiers {
		if points >= t.MinPoints {
			tier = t
		}
	}
	return tier
}

// PointsForAmount converts an amount spent into accrued points, flooring
func PointsForAmount(amount int) int {
	if amount <= 0 {
		return 0
	}
	return int(math.Floor(float64(amount) * PointsPerUnit))
}
