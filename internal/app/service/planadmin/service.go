// Package planadmin implements operator actions on existing user plans.
package planadmin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/app/service/planlog"
	"github.com/fatflowers/courseshop/internal/app/service/planpolicy"
	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/metrics"
	"github.com/fatflowers/courseshop/pkg/types"
)

var (
	ErrNotFound = errors.New("user plan not found")
	// ErrInvalidTransition is returned when the plan's status does not allow the action.
	ErrInvalidTransition = errors.New("invalid plan status transition")
	ErrExpiryInPast      = errors.New("new expiry date is in the past")
	ErrInvalidPlanName   = errors.New("plan name is required")
	ErrPersistence       = errors.New("user plan storage failed")
)

type Service struct {
	plans   userplan.Store
	changes planlog.Recorder
	log     *zap.SugaredLogger
	loc     *time.Location
	now     func() time.Time
}

func NewService(cfg *config.Config, plans userplan.Store, changes planlog.Recorder, log *zap.SugaredLogger) *Service {
	return &Service{plans: plans, changes: changes, log: log, loc: cfg.Location(), now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// IsPlanExpired reports whether expiry lies strictly before now.
func IsPlanExpired(expiry, now time.Time) bool {
	return expiry.Before(now)
}

// Verify moves a pending or verified plan to verified and restarts its window
// at now. planName, when not empty, replaces the stored plan name before the
// window is computed. amount disambiguates bare "premium" labels and may be nil.
func (s *Service) Verify(ctx context.Context, planID, planName string, amount *float64) (*models.UserPlan, error) {
	before, err := s.get(ctx, planID)
	if err != nil {
		return nil, done("verify", err)
	}
	if before.Status != types.UserPlanStatusPending && before.Status != types.UserPlanStatusVerified {
		return nil, done("verify", fmt.Errorf("%w: cannot verify a %s plan", ErrInvalidTransition, before.Status))
	}

	name := strings.TrimSpace(planName)
	if name == "" {
		name = before.PlanName
	}
	if amount == nil {
		amount = planpolicy.ParseAmount(before.Amount)
	}
	window := planpolicy.ValidityWindow(name, amount, s.now())
	s.warnAmbiguous(ctx, window, planID, name)

	fields := map[string]any{
		"status":      types.UserPlanStatusVerified,
		"start_date":  window.Start,
		"expiry_date": window.End,
	}
	if name != before.PlanName {
		fields["plan_name"] = name
	}
	after, err := s.update(ctx, types.UserPlanChangeReasonVerify, before, fields, map[string]any{"rule": string(window.Rule)})
	return after, done("verify", err)
}

// Extend overwrites the expiry date only. Dates before the start of today, in
// the configured timezone, are rejected.
func (s *Service) Extend(ctx context.Context, planID string, newExpiry time.Time) (*models.UserPlan, error) {
	if newExpiry.Before(startOfDay(s.now(), s.loc)) {
		return nil, done("extend", ErrExpiryInPast)
	}
	before, err := s.get(ctx, planID)
	if err != nil {
		return nil, done("extend", err)
	}
	after, err := s.update(ctx, types.UserPlanChangeReasonExtend, before, map[string]any{"expiry_date": newExpiry}, nil)
	return after, done("extend", err)
}

// Change switches the plan name and recomputes the expiry from now with the
// plan policy. The start date and status are kept.
func (s *Service) Change(ctx context.Context, planID, newPlanName string) (*models.UserPlan, error) {
	name := strings.TrimSpace(newPlanName)
	if name == "" {
		return nil, done("change", ErrInvalidPlanName)
	}
	before, err := s.get(ctx, planID)
	if err != nil {
		return nil, done("change", err)
	}
	// The stored amount belongs to the old plan, so only the name decides.
	window := planpolicy.ValidityWindow(name, nil, s.now())
	s.warnAmbiguous(ctx, window, planID, name)

	after, err := s.update(ctx, types.UserPlanChangeReasonChange, before, map[string]any{
		"plan_name":   name,
		"expiry_date": window.End,
	}, map[string]any{"rule": string(window.Rule)})
	return after, done("change", err)
}

// Cancel marks a pending or verified plan as cancelled. Plans are never deleted.
func (s *Service) Cancel(ctx context.Context, planID string) (*models.UserPlan, error) {
	before, err := s.get(ctx, planID)
	if err != nil {
		return nil, done("cancel", err)
	}
	if before.Status != types.UserPlanStatusPending && before.Status != types.UserPlanStatusVerified {
		return nil, done("cancel", fmt.Errorf("%w: cannot cancel a %s plan", ErrInvalidTransition, before.Status))
	}
	after, err := s.update(ctx, types.UserPlanChangeReasonCancel, before, map[string]any{"status": types.UserPlanStatusCancelled}, nil)
	return after, done("cancel", err)
}

func (s *Service) get(ctx context.Context, planID string) (*models.UserPlan, error) {
	plan, err := s.plans.Get(ctx, planID)
	if errors.Is(err, userplan.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return plan, nil
}

func (s *Service) update(ctx context.Context, reason types.UserPlanChangeReason, before *models.UserPlan, fields, extra map[string]any) (*models.UserPlan, error) {
	after, err := s.plans.Update(ctx, before.ID, fields)
	if errors.Is(err, userplan.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	logctx.FromCtx(ctx, s.log).Infow("user plan updated", "plan_id", before.ID, "reason", reason, "fields", fields)
	if s.changes != nil {
		s.changes.Save(ctx, planlog.NewEntry(ctx, reason, before, after, extra))
	}
	return after, nil
}

func (s *Service) warnAmbiguous(ctx context.Context, w planpolicy.Window, planID, planName string) {
	if w.Ambiguous() {
		logctx.FromCtx(ctx, s.log).Warnw("plan name matched no policy rule, defaulting to one year",
			"plan_id", planID, "plan_name", planName)
	}
}

// done records the op result and passes err through.
func done(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrPersistence):
		result = "error"
	default:
		result = "rejected"
	}
	metrics.IncPlanAdmin(op, result)
	return err
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

var Module = fx.Options(
	fx.Provide(NewService),
)
