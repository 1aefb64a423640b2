package subscription

import (
	"math"
	"time"

	"github.com/fatflowers/courseshop/pkg/types"
)

const (
	dayMillis          = int64(24 * time.Hour / time.Millisecond)
	expiringSoonWithin = 7
)

var planDisplayNames = map[string]string{
	types.PlanPremiumMonthly:    "Premium Monthly",
	types.PlanPremiumYearly:     "Premium Yearly",
	types.PlanPremiumGenAIDev01: "AI Development Course",
}

// FormatPlanName returns the display label for a plan id, or the id itself.
func FormatPlanName(planName string) string {
	if name, ok := planDisplayNames[planName]; ok {
		return name
	}
	return planName
}

// Evaluate derives the subscription state of claims at now. Callers filter
// out missing claims first; a nil claim set never reaches here.
func Evaluate(claims types.Claims, now time.Time) *types.SubscriptionInfo {
	nowMs := now.UnixMilli()
	days := int64(math.Ceil(float64(claims.EndDate-nowMs) / float64(dayMillis)))

	return &types.SubscriptionInfo{
		IsPremium:         claims.IsPremium,
		PlanName:          claims.PlanName,
		StartDate:         claims.StartDate,
		EndDate:           claims.EndDate,
		IsActive:          isActive(claims, nowMs),
		DaysRemaining:     days,
		IsExpiringSoon:    days > 0 && days <= expiringSoonWithin,
		FormattedPlanName: FormatPlanName(claims.PlanName),
	}
}

func isActive(c types.Claims, nowMs int64) bool {
	return c.IsPremium && c.EndDate > nowMs
}

var planPriority = map[string]int{
	types.PlanPremiumYearly:     3,
	types.PlanPremiumMonthly:    2,
	types.PlanPremiumGenAIDev01: 1,
}

// SelectActive picks the highest-priority active claim set from list.
// Ties keep the first one encountered; nil when nothing is active.
func SelectActive(list []types.Claims, now time.Time) *types.Claims {
	nowMs := now.UnixMilli()
	var best *types.Claims
	bestPriority := -1
	for i := range list {
		c := &list[i]
		if !isActive(*c, nowMs) {
			continue
		}
		if p := planPriority[c.PlanName]; p > bestPriority {
			best, bestPriority = c, p
		}
	}
	if best == nil {
		return nil
	}
	selected := *best
	return &selected
}
