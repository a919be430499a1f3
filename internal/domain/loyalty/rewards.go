package loyalty

// RewardEffect classifies what a catalog reward grants on redemption
type RewardEffect string

const (
	// EffectDiscount turns into a single-use percentage offer in the user's pool
	EffectDiscount RewardEffect = "discount"
	// EffectFreebie is fulfilled manually with the next order
	EffectFreebie RewardEffect = "freebie"
)

// Reward is a catalog entry purchasable with loyalty points
type Reward struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	PointsCost int          `json:"points_cost"`
	Effect     RewardEffect `json:"effect"`
	Value      int          `json:"value"` // discount percent or freebie unit count
}

// RewardCatalog is the fixed, ordered rewards catalog
var RewardCatalog = []Reward{
	{ID: "reward-5off", Name: "5% off coupon", PointsCost: 200, Effect: EffectDiscount, Value: 5},
	{ID: "reward-10off", Name: "10% off coupon", PointsCost: 400, Effect: EffectDiscount, Value: 10},
	{ID: "reward-15off", Name: "15% off coupon", PointsCost: 750, Effect: EffectDiscount, Value: 15},
	{ID: "reward-sticker-pack", Name: "Surprise sticker pack", PointsCost: 300, Effect: EffectFreebie, Value: 3},
	{ID: "reward-keychain", Name: "Mystery keychain", PointsCost: 900, Effect: EffectFreebie, Value: 1},
}

// RewardByID looks a reward up in the catalog
func RewardByID(id string) (Reward, bool) {
	for _, r := range RewardCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}
