package planlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/types"
)

func TestNewEntry(t *testing.T) {
	ctx := context.WithValue(context.Background(), logctx.KeyOperator, "ops@example.com")
	before := &models.UserPlan{ID: "p1", UserID: "a@b.c", PlanName: "Premium - Monthly"}
	after := &models.UserPlan{ID: "p1", UserID: "a@b.c", PlanName: "Premium - Yearly"}

	e := NewEntry(ctx, types.UserPlanChangeReasonChange, before, after, map[string]any{"rule": "yearly"})
	require.Equal(t, "p1", e.PlanID)
	require.Equal(t, "a@b.c", e.UserID)
	require.Equal(t, types.UserPlanChangeReasonChange, e.Reason)
	require.Equal(t, "Premium - Monthly", e.Before.Data().PlanName)
	require.Equal(t, "Premium - Yearly", e.After.Data().PlanName)
	require.Equal(t, "yearly", e.Extra["rule"])
	require.Equal(t, "ops@example.com", e.Extra["operator"])
}

func TestNewEntry_Create(t *testing.T) {
	e := NewEntry(context.Background(), types.UserPlanChangeReasonReconcile, nil, &models.UserPlan{ID: "p2", UserID: "u"}, nil)
	require.Nil(t, e.Before.Data())
	require.Equal(t, "p2", e.PlanID)
	require.NotContains(t, e.Extra, "operator")

	require.Nil(t, NewEntry(context.Background(), types.UserPlanChangeReasonCancel, nil, nil, nil))
}

func TestSave_NilIsIgnored(t *testing.T) {
	s := New(nil, nil)
	require.NotPanics(t, func() { s.Save(context.Background(), nil) })
}

type memoryWriter struct {
	mu      sync.Mutex
	entries []*models.UserPlanLog
	release chan struct{}
	err     error
}

func (w *memoryWriter) create(_ context.Context, entry *models.UserPlanLog) error {
	if w.release != nil {
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, entry)
	return nil
}

func (w *memoryWriter) saved() []*models.UserPlanLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*models.UserPlanLog(nil), w.entries...)
}

func newTestService(w *memoryWriter) *Service {
	s := New(nil, zap.NewNop().Sugar())
	s.create = w.create
	return s
}

func TestSave_PersistsAfterDrain(t *testing.T) {
	w := &memoryWriter{}
	s := newTestService(w)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 5; i++ {
		s.Save(ctx, NewEntry(ctx, types.UserPlanChangeReasonExtend, nil, &models.UserPlan{ID: "p1", UserID: "u"}, nil))
	}
	cancel()

	require.NoError(t, s.Drain(context.Background()))
	got := w.saved()
	require.Len(t, got, 5)
	for _, e := range got {
		require.NotEmpty(t, e.ID)
		require.Equal(t, "p1", e.PlanID)
	}
}

func TestSave_FailureIsLoggedNotReturned(t *testing.T) {
	w := &memoryWriter{err: errors.New("sql: database is closed")}
	s := newTestService(w)

	s.Save(context.Background(), NewEntry(context.Background(), types.UserPlanChangeReasonCancel, nil, &models.UserPlan{ID: "p1"}, nil))
	require.NoError(t, s.Drain(context.Background()))
	require.Empty(t, w.saved())
}

func TestDrain_RespectsDeadline(t *testing.T) {
	w := &memoryWriter{release: make(chan struct{})}
	s := newTestService(w)
	s.Save(context.Background(), NewEntry(context.Background(), types.UserPlanChangeReasonVerify, nil, &models.UserPlan{ID: "p1"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.Drain(ctx), context.DeadlineExceeded)

	close(w.release)
	require.NoError(t, s.Drain(context.Background()))
	require.Len(t, w.saved(), 1)
}

func TestRegisterDrain_WaitsOnStop(t *testing.T) {
	w := &memoryWriter{release: make(chan struct{})}
	s := newTestService(w)

	lc := fxtest.NewLifecycle(t)
	registerDrain(lc, s)
	lc.RequireStart()

	s.Save(context.Background(), NewEntry(context.Background(), types.UserPlanChangeReasonChange, nil, &models.UserPlan{ID: "p1"}, nil))
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(w.release)
	}()
	lc.RequireStop()
	require.Len(t, w.saved(), 1)
}
