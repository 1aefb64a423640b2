package planadmin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/app/service/userplan/userplantest"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/types"
)

var fixedNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	entries []*models.UserPlanLog
}

func (r *recorder) Save(_ context.Context, e *models.UserPlanLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func setup(t *testing.T, plans ...*models.UserPlan) (*Service, *userplantest.Store, *recorder) {
	t.Helper()
	store := userplantest.New()
	for _, p := range plans {
		require.NoError(t, store.Create(context.Background(), p))
	}
	rec := &recorder{}
	svc := NewService(&config.Config{Timezone: "UTC"}, store, rec, zap.NewNop().Sugar()).
		WithClock(func() time.Time { return fixedNow })
	return svc, store, rec
}

func pendingPlan() *models.UserPlan {
	return &models.UserPlan{
		ID:         "plan-1",
		UserID:     "learner@example.com",
		PlanName:   "Premium - Monthly",
		Status:     types.UserPlanStatusPending,
		StartDate:  fixedNow.AddDate(0, -2, 0),
		ExpiryDate: fixedNow.AddDate(0, -1, 0),
		PaymentID:  "TXN1",
		Amount:     "449",
	}
}

func TestVerify_AIFundamentals(t *testing.T) {
	svc, _, rec := setup(t, pendingPlan())

	plan, err := svc.Verify(context.Background(), "plan-1", "AI Fundamentals (₹30000)", nil)
	require.NoError(t, err)
	require.Equal(t, types.UserPlanStatusVerified, plan.Status)
	require.Equal(t, "AI Fundamentals (₹30000)", plan.PlanName)
	require.Equal(t, fixedNow, plan.StartDate)
	require.Equal(t, fixedNow.Add(365*24*time.Hour), plan.ExpiryDate)

	require.Len(t, rec.entries, 1)
	require.Equal(t, types.UserPlanChangeReasonVerify, rec.entries[0].Reason)
	require.Equal(t, types.UserPlanStatusPending, rec.entries[0].Before.Data().Status)
	require.Equal(t, types.UserPlanStatusVerified, rec.entries[0].After.Data().Status)
	require.Equal(t, "ai_fundamentals", rec.entries[0].Extra["rule"])
}

func TestVerify_KeepsNameAndUsesStoredAmount(t *testing.T) {
	p := pendingPlan()
	p.PlanName = "Premium"
	svc, _, _ := setup(t, p)

	plan, err := svc.Verify(context.Background(), "plan-1", "", nil)
	require.NoError(t, err)
	require.Equal(t, "Premium", plan.PlanName)
	require.Equal(t, time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC), plan.ExpiryDate, "449 means monthly")

	amount := 4308.0
	plan, err = svc.Verify(context.Background(), "plan-1", "", &amount)
	require.NoError(t, err)
	require.Equal(t, time.Date(2027, 6, 15, 10, 0, 0, 0, time.UTC), plan.ExpiryDate)
}

func TestVerify_RejectsTerminalStates(t *testing.T) {
	for _, status := range []types.UserPlanStatus{types.UserPlanStatusCancelled, types.UserPlanStatusExpired} {
		p := pendingPlan()
		p.Status = status
		svc, store, _ := setup(t, p)

		_, err := svc.Verify(context.Background(), "plan-1", "", nil)
		require.ErrorIs(t, err, ErrInvalidTransition)
		require.Equal(t, status, store.Plans()[0].Status)
	}
}

func TestVerify_NotFound(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Verify(context.Background(), "nope", "", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExtend(t *testing.T) {
	svc, _, rec := setup(t, pendingPlan())
	target := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	plan, err := svc.Extend(context.Background(), "plan-1", target)
	require.NoError(t, err)
	require.Equal(t, target, plan.ExpiryDate)
	require.Equal(t, types.UserPlanStatusPending, plan.Status, "extend touches expiry only")
	require.Equal(t, "Premium - Monthly", plan.PlanName)
	require.Len(t, rec.entries, 1)

	// Earlier today is still allowed.
	_, err = svc.Extend(context.Background(), "plan-1", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = svc.Extend(context.Background(), "plan-1", time.Date(2026, 6, 14, 23, 59, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrExpiryInPast)
}

func TestChange_UsesPlanPolicy(t *testing.T) {
	p := pendingPlan()
	p.Status = types.UserPlanStatusVerified
	svc, _, rec := setup(t, p)

	plan, err := svc.Change(context.Background(), "plan-1", "Premium - Yearly")
	require.NoError(t, err)
	require.Equal(t, "Premium - Yearly", plan.PlanName)
	require.Equal(t, time.Date(2027, 6, 15, 10, 0, 0, 0, time.UTC), plan.ExpiryDate)
	require.Equal(t, p.StartDate, plan.StartDate)
	require.Equal(t, types.UserPlanStatusVerified, plan.Status)
	require.Equal(t, "yearly", rec.entries[0].Extra["rule"])

	plan, err = svc.Change(context.Background(), "plan-1", "Premium - Monthly")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC), plan.ExpiryDate)

	_, err = svc.Change(context.Background(), "plan-1", "  ")
	require.ErrorIs(t, err, ErrInvalidPlanName)
}

func TestCancel(t *testing.T) {
	svc, _, _ := setup(t, pendingPlan())

	plan, err := svc.Cancel(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Equal(t, types.UserPlanStatusCancelled, plan.Status)

	_, err = svc.Cancel(context.Background(), "plan-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPersistenceFailure(t *testing.T) {
	svc, store, _ := setup(t, pendingPlan())
	store.Err = errors.New("db down")

	_, err := svc.Cancel(context.Background(), "plan-1")
	require.ErrorIs(t, err, ErrPersistence)
}

func TestIsPlanExpired(t *testing.T) {
	require.True(t, IsPlanExpired(fixedNow.Add(-time.Second), fixedNow))
	require.False(t, IsPlanExpired(fixedNow, fixedNow))
	require.False(t, IsPlanExpired(fixedNow.Add(time.Second), fixedNow))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 14th is already the 15th in IST.
	got := startOfDay(time.Date(2026, 6, 14, 20, 0, 0, 0, time.UTC), loc)
	require.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, loc), got)
}
