package statistics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/fatflowers/courseshop/internal/app/service/planpolicy"
	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/metrics"
	"github.com/fatflowers/courseshop/pkg/types"
)

// expiringSoonWithin matches the client-side "expiring soon" threshold.
const expiringSoonWithin = 7 * 24 * time.Hour

type PlanStatisticRequest struct {
	Filters []*types.CommonFilter `json:"filters"`
}

type PlanCount struct {
	PlanName string `json:"plan_name"`
	Count    int64  `json:"count"`
}

// PlanStatistic is a point-in-time summary of user plans. Expiry is derived
// from expiry_date at evaluation time, not from the stored status.
type PlanStatistic struct {
	Total    int64                          `json:"total"`
	ByStatus map[types.UserPlanStatus]int64 `json:"by_status"`
	ByPlan   []PlanCount                    `json:"by_plan"`
	// Active counts verified plans whose window is still open.
	Active int64 `json:"active"`
	// Expired counts verified plans whose window has closed.
	Expired      int64 `json:"expired"`
	ExpiringSoon int64 `json:"expiring_soon"`
	// VerifiedAmount sums the parsed amounts of verified plans. Unparsable
	// amounts are counted in UnparsedAmounts instead.
	VerifiedAmount  float64   `json:"verified_amount"`
	UnparsedAmounts int64     `json:"unparsed_amounts"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Summarize computes PlanStatistic over plans at now.
func Summarize(plans []*models.UserPlan, now time.Time) *PlanStatistic {
	st := &PlanStatistic{
		Total:       int64(len(plans)),
		ByStatus:    map[types.UserPlanStatus]int64{},
		GeneratedAt: now,
	}
	for _, p := range plans {
		st.ByStatus[p.Status]++
		if p.Status != types.UserPlanStatusVerified {
			continue
		}
		if p.IsExpired(now) {
			st.Expired++
		} else {
			st.Active++
			if p.ExpiryDate.Sub(now) <= expiringSoonWithin {
				st.ExpiringSoon++
			}
		}
		if amount := planpolicy.ParseAmount(p.Amount); amount != nil {
			st.VerifiedAmount += *amount
		} else {
			st.UnparsedAmounts++
		}
	}

	counts := lo.CountValuesBy(plans, func(p *models.UserPlan) string { return p.PlanName })
	st.ByPlan = lo.MapToSlice(counts, func(name string, n int) PlanCount { return PlanCount{PlanName: name, Count: int64(n)} })
	slices.SortFunc(st.ByPlan, func(a, b PlanCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.PlanName, b.PlanName)
	})
	return st
}

// Service provides statistics operations
type Service struct {
	plans userplan.Store
	now   func() time.Time
}

func New(plans userplan.Store) *Service { return &Service{plans: plans, now: time.Now} }

// GetPlanStatistic summarizes the plans matching request.Filters.
func (s *Service) GetPlanStatistic(ctx context.Context, request *PlanStatisticRequest) (*PlanStatistic, error) {
	start := time.Now()
	defer metrics.ObserveBusinessProcess("statistics", "plan", start)

	var filters []*types.CommonFilter
	if request != nil {
		filters = request.Filters
	}
	plans, err := s.plans.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load user plans: %w", err)
	}
	return Summarize(plans, s.now()), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
