package reconcile

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
	"github.com/fatflowers/courseshop/pkg/types"
)

var fixedNow = time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	entries []*models.UserPlanLog
}

func (r *recorder) Save(_ context.Context, e *models.UserPlanLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func newService(store *userplantest.Store, rec *recorder) *Service {
	return NewService(store, store, rec, zap.NewNop().Sugar()).WithClock(func() time.Time { return fixedNow })
}

func verifiedPayment() *models.Payment {
	return &models.Payment{
		ID:            "pay-1",
		TransactionID: "TXN1",
		Amount:        "449",
		PlanName:      "Premium - Monthly",
		UserEmail:     "learner@example.com",
		Status:        types.PaymentStatusVerified,
	}
}

func TestReconcile_CreatesPlan(t *testing.T) {
	store := userplantest.New()
	rec := &recorder{}
	svc := newService(store, rec)

	plan, err := svc.Reconcile(context.Background(), verifiedPayment())
	require.NoError(t, err)
	require.NotEmpty(t, plan.ID)
	require.Equal(t, types.UserPlanStatusVerified, plan.Status)
	require.Equal(t, "learner@example.com", plan.UserID)
	require.Equal(t, "TXN1", plan.PaymentID)
	require.Equal(t, "449", plan.Amount)
	require.Equal(t, fixedNow, plan.StartDate)
	// Jan 31 + 1 month clamps to the end of February.
	require.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), plan.ExpiryDate)

	require.Len(t, store.Plans(), 1)
	require.Len(t, rec.entries, 1)
	require.Equal(t, types.UserPlanChangeReasonReconcile, rec.entries[0].Reason)
	require.Nil(t, rec.entries[0].Before.Data())
	require.Equal(t, "monthly", rec.entries[0].Extra["rule"])
}

func TestReconcile_IsIdempotent(t *testing.T) {
	store := userplantest.New()
	svc := newService(store, &recorder{})

	_, err := svc.Reconcile(context.Background(), verifiedPayment())
	require.NoError(t, err)

	plan, err := svc.Reconcile(context.Background(), verifiedPayment())
	require.ErrorIs(t, err, ErrAlreadyExists)
	require.Nil(t, plan)
	require.Len(t, store.Plans(), 1)
}

func TestReconcile_SameTransactionDifferentAmount(t *testing.T) {
	store := userplantest.New()
	svc := newService(store, &recorder{})

	_, err := svc.Reconcile(context.Background(), verifiedPayment())
	require.NoError(t, err)

	p := verifiedPayment()
	p.Amount = "4308"
	p.PlanName = "Premium"
	plan, err := svc.Reconcile(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC), plan.ExpiryDate)
	require.Len(t, store.Plans(), 2)
}

func TestReconcile_RejectsUnverified(t *testing.T) {
	store := userplantest.New()
	svc := newService(store, &recorder{})

	for _, status := range []types.PaymentStatus{types.PaymentStatusPending, types.PaymentStatusRejected} {
		p := verifiedPayment()
		p.Status = status
		_, err := svc.Reconcile(context.Background(), p)
		require.ErrorIs(t, err, ErrPaymentNotVerified)
	}
	_, err := svc.Reconcile(context.Background(), nil)
	require.ErrorIs(t, err, ErrPaymentNotVerified)
	require.Empty(t, store.Plans())
}

func TestReconcile_LostRaceReportsAlreadyExists(t *testing.T) {
	store := userplantest.New()
	svc := newService(store, &recorder{})

	// A concurrent reconcile inserts the same key after our dedup lookup.
	store.BeforeCreate = func(*models.UserPlan) {
		store.BeforeCreate = nil
		_, err := svc.Reconcile(context.Background(), verifiedPayment())
		require.NoError(t, err)
	}

	_, err := svc.Reconcile(context.Background(), verifiedPayment())
	require.ErrorIs(t, err, ErrAlreadyExists)
	require.Len(t, store.Plans(), 1)
}

func TestReconcile_PersistenceFailure(t *testing.T) {
	store := userplantest.New()
	store.Err = errors.New("connection refused")
	svc := newService(store, &recorder{})

	_, err := svc.Reconcile(context.Background(), verifiedPayment())
	require.ErrorIs(t, err, ErrPersistence)

	_, err = svc.Exists(context.Background(), "TXN1", "449")
	require.ErrorIs(t, err, ErrPersistence)
}

func TestReconcile_UnknownPlanFallsBackToOneYear(t *testing.T) {
	svc := newService(userplantest.New(), &recorder{})
	p := verifiedPayment()
	p.PlanName = "Mentorship Call"

	plan, err := svc.Reconcile(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, fixedNow.AddDate(1, 0, 0), plan.ExpiryDate)
}

func TestExists(t *testing.T) {
	store := userplantest.New()
	svc := newService(store, &recorder{})

	ok, err := svc.Exists(context.Background(), "TXN1", "449")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.Reconcile(context.Background(), verifiedPayment())
	require.NoError(t, err)

	ok, err = svc.Exists(context.Background(), "TXN1", "449")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Exists(context.Background(), "TXN1", "4308")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReconcileByPaymentID(t *testing.T) {
	store := userplantest.New()
	store.AddPayment(verifiedPayment())
	svc := newService(store, &recorder{})

	plan, err := svc.ReconcileByPaymentID(context.Background(), "pay-1")
	require.NoError(t, err)
	require.Equal(t, "TXN1", plan.PaymentID)

	_, err = svc.ReconcileByPaymentID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestReconcileVerified(t *testing.T) {
	store := userplantest.New()
	base := fixedNow.Add(-48 * time.Hour)
	seed := []*models.Payment{
		{ID: "a", TransactionID: "T-A", Amount: "449", PlanName: "Premium - Monthly", UserEmail: "a@x", Status: types.PaymentStatusVerified, CreatedAt: base},
		{ID: "b", TransactionID: "T-B", Amount: "4308", PlanName: "Premium - Yearly", UserEmail: "b@x", Status: types.PaymentStatusVerified, CreatedAt: base.Add(time.Hour)},
		{ID: "c", TransactionID: "T-C", Amount: "449", PlanName: "Premium - Monthly", UserEmail: "c@x", Status: types.PaymentStatusPending, CreatedAt: base},
		{ID: "d", TransactionID: "T-A", Amount: "449", PlanName: "Premium - Monthly", UserEmail: "a@x", Status: types.PaymentStatusVerified, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, p := range seed {
		store.AddPayment(p)
	}
	svc := newService(store, &recorder{})

	res, err := svc.ReconcileVerified(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Scanned)
	require.Equal(t, 2, res.Created)
	require.Equal(t, 1, res.Existing)
	require.Empty(t, res.Failed)
	require.Equal(t, "scanned=3 created=2 existing=1 failed=0", res.Summary())

	// A second run only finds existing plans.
	res, err = svc.ReconcileVerified(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Created)
	require.Equal(t, 3, res.Existing)
	require.Len(t, store.Plans(), 2)
}

func TestReconcileVerified_StopsOnCancel(t *testing.T) {
	store := userplantest.New()
	store.AddPayment(verifiedPayment())
	svc := newService(store, &recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.ReconcileVerified(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, res.Created)
	require.Empty(t, store.Plans())
}
