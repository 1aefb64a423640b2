// Package planpolicy decides how long a plan grants access. It is the only
// place plan durations are defined; reconciliation and every admin mutation
// go through ValidityWindow.
package planpolicy

import (
	"strconv"
	"strings"
	"time"
)

// Rule names the policy branch that produced a window.
type Rule string

const (
	RuleMonthly        Rule = "monthly"
	RuleYearly         Rule = "yearly"
	RulePremiumMonthly Rule = "premium_monthly_amount"
	RulePremiumYearly  Rule = "premium_yearly_amount"
	RulePremiumDefault Rule = "premium_default"
	RuleAIFundamentals Rule = "ai_fundamentals"
	RuleFallback       Rule = "fallback"
)

// Amounts (INR) that disambiguate a bare "premium" label.
const (
	premiumMonthlyAmount = 449
	premiumYearlyAmount  = 4308
)

// Window is a validity window starting at the evaluation instant.
type Window struct {
	Start time.Time
	End   time.Time
	Rule  Rule
}

// Ambiguous reports whether no known pattern matched the plan name. The
// window still defaults to one year; callers may want to log it.
func (w Window) Ambiguous() bool {
	return w.Rule == RuleFallback
}

// ValidityWindow returns the window for planName starting at now. Matching is
// case-insensitive and the first matching rule wins:
//
//	"monthly"          -> 1 month
//	"year" / "yearly"  -> 1 year
//	"premium"          -> by amount: 449 -> 1 month, 4308 -> 1 year, else 1 year
//	"ai fundamentals"  -> 1 year
//	anything else      -> 1 year
//
// amount may be nil when the paid amount is unknown.
func ValidityWindow(planName string, amount *float64, now time.Time) Window {
	name := strings.ToLower(planName)

	var months int
	var rule Rule
	switch {
	case strings.Contains(name, "monthly"):
		months, rule = 1, RuleMonthly
	case strings.Contains(name, "year"):
		months, rule = 12, RuleYearly
	case strings.Contains(name, "premium"):
		switch {
		case amount != nil && *amount == premiumMonthlyAmount:
			months, rule = 1, RulePremiumMonthly
		case amount != nil && *amount == premiumYearlyAmount:
			months, rule = 12, RulePremiumYearly
		default:
			months, rule = 12, RulePremiumDefault
		}
	case strings.Contains(name, "ai fundamentals"):
		months, rule = 12, RuleAIFundamentals
	default:
		months, rule = 12, RuleFallback
	}

	return Window{Start: now, End: AddMonths(now, months), Rule: rule}
}

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month: Jan 31 + 1 month is Feb 28 (or 29), Feb 29 + 12 months is
// Feb 28. time.AddDate would roll over into the following month instead.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// ParseAmount parses a decimal amount string such as "449" or "4,308.00".
// It returns nil when the string is not a number.
func ParseAmount(s string) *float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "₹")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
