package subscription

import "github.com/fatflowers/courseshop/pkg/types"

// Features maps subscription state to capability flags. Missing or inactive
// subscriptions get nothing. Plan checks are exact: an unknown premium plan
// unlocks premium content but none of the plan-specific features.
func Features(info *types.SubscriptionInfo) types.Features {
	if info == nil || !info.IsActive {
		return types.Features{}
	}
	return types.Features{
		CanAccessPremiumContent:  info.IsPremium,
		CanAccessAICourse:        info.PlanName == types.PlanPremiumGenAIDev01,
		CanAccessMonthlyFeatures: info.PlanName == types.PlanPremiumMonthly || info.PlanName == types.PlanPremiumYearly,
		CanAccessYearlyFeatures:  info.PlanName == types.PlanPremiumYearly,
	}
}
