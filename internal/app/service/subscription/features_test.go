package subscription

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/courseshop/pkg/types"
)

func TestFeatures(t *testing.T) {
	active := func(plan string) *types.SubscriptionInfo {
		return &types.SubscriptionInfo{PlanName: plan, IsPremium: true, IsActive: true}
	}

	tests := []struct {
		name string
		info *types.SubscriptionInfo
		want types.Features
	}{
		{"nil", nil, types.Features{}},
		{"inactive", &types.SubscriptionInfo{PlanName: types.PlanPremiumYearly, IsPremium: true}, types.Features{}},
		{"monthly", active(types.PlanPremiumMonthly), types.Features{CanAccessPremiumContent: true, CanAccessMonthlyFeatures: true}},
		{"yearly", active(types.PlanPremiumYearly), types.Features{CanAccessPremiumContent: true, CanAccessMonthlyFeatures: true, CanAccessYearlyFeatures: true}},
		{"ai course", active(types.PlanPremiumGenAIDev01), types.Features{CanAccessPremiumContent: true, CanAccessAICourse: true}},
		{"unknown plan", active("PREMIUM_LIFETIME"), types.Features{CanAccessPremiumContent: true}},
		{"case matters", active("premium_yearly"), types.Features{CanAccessPremiumContent: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Features(tt.info))
		})
	}
}
