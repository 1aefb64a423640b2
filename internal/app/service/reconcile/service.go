// Package reconcile turns verified payment proofs into user plans. Each
// (transaction id, amount) pair yields at most one plan.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/app/service/planlog"
	"github.com/fatflowers/courseshop/internal/app/service/planpolicy"
	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/metrics"
	"github.com/fatflowers/courseshop/pkg/tool"
	"github.com/fatflowers/courseshop/pkg/types"
)

var (
	// ErrAlreadyExists means a plan for this payment key exists. Nothing was written.
	ErrAlreadyExists = errors.New("user plan already exists for payment")
	// ErrPaymentNotVerified is returned for payments not in the verified state.
	ErrPaymentNotVerified = errors.New("payment is not verified")
	// ErrPersistence wraps storage failures. Nothing partial was written and
	// the call can be retried.
	ErrPersistence = errors.New("user plan storage failed")

	ErrPaymentNotFound = errors.New("payment not found")
)

// Outcome labels for the reconcile counter.
const (
	OutcomeCreated     = "created"
	OutcomeExists      = "exists"
	OutcomeNotVerified = "not_verified"
	OutcomeFailed      = "failed"
)

type Service struct {
	plans    userplan.Store
	payments userplan.PaymentStore
	changes  planlog.Recorder
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewService(plans userplan.Store, payments userplan.PaymentStore, changes planlog.Recorder, log *zap.SugaredLogger) *Service {
	return &Service{plans: plans, payments: payments, changes: changes, log: log, now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// Reconcile creates the user plan for a verified payment.
func (s *Service) Reconcile(ctx context.Context, payment *models.Payment) (*models.UserPlan, error) {
	start := time.Now()
	defer metrics.ObserveBusinessProcess("reconcile", "single", start)

	l := logctx.FromCtx(ctx, s.log)
	if !payment.IsVerified() {
		metrics.IncReconcile(OutcomeNotVerified)
		return nil, ErrPaymentNotVerified
	}

	exists, err := s.Exists(ctx, payment.TransactionID, payment.Amount)
	if err != nil {
		metrics.IncReconcile(OutcomeFailed)
		return nil, err
	}
	if exists {
		metrics.IncReconcile(OutcomeExists)
		l.Infow("user plan already exists", "transaction_id", payment.TransactionID, "amount", payment.Amount)
		return nil, ErrAlreadyExists
	}

	now := s.now()
	window := planpolicy.ValidityWindow(payment.PlanName, planpolicy.ParseAmount(payment.Amount), now)
	if window.Ambiguous() {
		l.Warnw("plan name matched no policy rule, defaulting to one year",
			"plan_name", payment.PlanName, "transaction_id", payment.TransactionID)
	}

	plan := &models.UserPlan{
		ID:         tool.GenerateUUIDV7(),
		UserID:     payment.UserEmail,
		PlanName:   payment.PlanName,
		Status:     types.UserPlanStatusVerified,
		StartDate:  window.Start,
		ExpiryDate: window.End,
		PaymentID:  payment.TransactionID,
		Amount:     payment.Amount,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, userplan.ErrDuplicate) {
			// Lost a race with a concurrent reconcile of the same payment.
			metrics.IncReconcile(OutcomeExists)
			return nil, ErrAlreadyExists
		}
		metrics.IncReconcile(OutcomeFailed)
		l.Errorw("failed to create user plan", "transaction_id", payment.TransactionID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	metrics.IncReconcile(OutcomeCreated)
	l.Infow("user plan created", "plan_id", plan.ID, "user_id", plan.UserID,
		"plan_name", plan.PlanName, "rule", window.Rule, "expiry_date", plan.ExpiryDate)
	if s.changes != nil {
		s.changes.Save(ctx, planlog.NewEntry(ctx, types.UserPlanChangeReasonReconcile, nil, plan, map[string]any{
			"rule":       string(window.Rule),
			"payment_id": payment.ID,
		}))
	}
	return plan, nil
}

// Exists reports whether a plan was already issued for the payment key.
func (s *Service) Exists(ctx context.Context, transactionID, amount string) (bool, error) {
	_, err := s.plans.FindByPaymentKey(ctx, transactionID, amount)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, userplan.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}

// ReconcileByPaymentID loads a payment and reconciles it.
func (s *Service) ReconcileByPaymentID(ctx context.Context, paymentID string) (*models.UserPlan, error) {
	payment, err := s.payments.GetPayment(ctx, paymentID)
	if errors.Is(err, userplan.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s.Reconcile(ctx, payment)
}

// BatchFailure is one payment the backfill could not reconcile.
type BatchFailure struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	Error         string `json:"error"`
}

type BatchResult struct {
	Scanned  int            `json:"scanned"`
	Created  int            `json:"created"`
	Existing int            `json:"existing"`
	Failed   []BatchFailure `json:"failed"`
}

// ReconcileVerified reconciles every verified payment, oldest first, one at a
// time. Per-payment failures are collected and do not stop the run; only a
// failure to list payments or a cancelled context aborts it.
func (s *Service) ReconcileVerified(ctx context.Context) (*BatchResult, error) {
	start := time.Now()
	defer metrics.ObserveBusinessProcess("reconcile", "batch", start)

	payments, err := s.payments.ListPaymentsByStatus(ctx, types.PaymentStatusVerified)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	res := &BatchResult{Scanned: len(payments)}
	for _, p := range payments {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, err := s.Reconcile(ctx, p)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, ErrAlreadyExists):
			res.Existing++
		default:
			res.Failed = append(res.Failed, BatchFailure{PaymentID: p.ID, TransactionID: p.TransactionID, Error: err.Error()})
		}
	}

	logctx.FromCtx(ctx, s.log).Infow("verified payments reconciled",
		"scanned", res.Scanned, "created", res.Created, "existing", res.Existing, "failed", len(res.Failed))
	return res, nil
}

// Summary is a one-line human readable report of a batch run.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("scanned=%d created=%d existing=%d failed=%d", r.Scanned, r.Created, r.Existing, len(r.Failed))
}

var Module = fx.Options(
	fx.Provide(NewService),
)
