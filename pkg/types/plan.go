package types

// Plan identifiers carried in identity claims.
const (
	PlanPremiumMonthly    = "PREMIUM_MONTHLY"
	PlanPremiumYearly     = "PREMIUM_YEARLY"
	PlanPremiumGenAIDev01 = "PREMIUM_GENAI_DEV_01"
)

// Claims is the subscription part of an identity token. Dates are epoch milliseconds.
type Claims struct {
	PlanName  string `json:"plan_name"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
	IsPremium bool   `json:"is_premium"`
}

// SubscriptionInfo is derived from Claims on every read and never stored.
type SubscriptionInfo struct {
	IsPremium         bool   `json:"is_premium"`
	PlanName          string `json:"plan_name"`
	StartDate         int64  `json:"start_date"`
	EndDate           int64  `json:"end_date"`
	IsActive          bool   `json:"is_active"`
	DaysRemaining     int64  `json:"days_remaining"`
	IsExpiringSoon    bool   `json:"is_expiring_soon"`
	FormattedPlanName string `json:"formatted_plan_name"`
}

// Features are the capability flags the UI gates on.
type Features struct {
	CanAccessPremiumContent  bool `json:"can_access_premium_content"`
	CanAccessAICourse        bool `json:"can_access_ai_course"`
	CanAccessMonthlyFeatures bool `json:"can_access_monthly_features"`
	CanAccessYearlyFeatures  bool `json:"can_access_yearly_features"`
}
