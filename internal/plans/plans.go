package plans

import (
	"math"
	"strings"
)

// Tier identifies a subscription plan tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// UnlimitedResumes is the sentinel for plans with no resume cap. It compares
// greater than any realistic count.
const UnlimitedResumes = math.MaxInt32

// Details captures the entitlements of one plan tier. The table is fixed at
// build time; nothing mutates it.
type Details struct {
	Tier                  Tier   `json:"tier"`
	Name                  string `json:"name"`
	Price                 string `json:"price"`
	MaxResumes            int    `json:"maxResumes"`
	HasWatermark          bool   `json:"hasWatermark"`
	Templates             int    `json:"templates"`
	AdvancedCustomization bool   `json:"advancedCustomization"`
	AIPriority            bool   `json:"aiPriority"`
}

var table = map[Tier]Details{
	TierFree: {
		Tier:         TierFree,
		Name:         "Free",
		Price:        "$0",
		MaxResumes:   1,
		HasWatermark: true,
		Templates:    3,
	},
	TierPro: {
		Tier:       TierPro,
		Name:       "Pro",
		Price:      "$9.90/mo",
		MaxResumes: 5,
		Templates:  8,

		AdvancedCustomization: true,
	},
	TierPremium: {
		Tier:       TierPremium,
		Name:       "Premium",
		Price:      "$19.90/mo",
		MaxResumes: UnlimitedResumes,
		Templates:  12,

		AdvancedCustomization: true,
		AIPriority:            true,
	},
}

var rank = map[Tier]int{
	TierFree:    0,
	TierPro:     1,
	TierPremium: 2,
}

// Normalize maps arbitrary input to a known tier, defaulting to free.
func Normalize(raw string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierPro:
		return TierPro
	case TierPremium:
		return TierPremium
	default:
		return TierFree
	}
}

// PlanFor returns the entitlement record for a tier. Unknown tiers resolve to free.
func PlanFor(tier Tier) Details {
	if d, ok := table[tier]; ok {
		return d
	}
	return table[TierFree]
}

// All returns every plan in ascending tier order, for plan-selection listings.
func All() []Details {
	return []Details{table[TierFree], table[TierPro], table[TierPremium]}
}

// Allows reports whether a user tier satisfies a feature's minimum tier.
func Allows(userTier, minTier Tier) bool {
	return rank[userTier] >= rank[minTier]
}
