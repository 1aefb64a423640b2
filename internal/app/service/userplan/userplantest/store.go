// Package userplantest provides an in-memory userplan store for tests.
package userplantest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/tool"
	"github.com/fatflowers/courseshop/pkg/types"
)

// Store is safe for concurrent use. Set Err to make every call fail, or
// BeforeCreate to interleave work between the dedup lookup and the insert.
type Store struct {
	mu       sync.Mutex
	plans    []*models.UserPlan
	payments []*models.Payment

	Err          error
	BeforeCreate func(plan *models.UserPlan)
}

var (
	_ userplan.Store        = (*Store)(nil)
	_ userplan.PaymentStore = (*Store)(nil)
)

func New() *Store { return &Store{} }

// AddPayment seeds a payment.
func (s *Store) AddPayment(p *models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	cp := *p
	s.payments = append(s.payments, &cp)
}

// Plans returns a copy of every stored plan in insertion order.
func (s *Store) Plans() []models.UserPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Map(s.plans, func(p *models.UserPlan, _ int) models.UserPlan { return *p })
}

func (s *Store) FindByPaymentKey(_ context.Context, paymentID, amount string) (*models.UserPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := lo.Find(s.plans, func(p *models.UserPlan) bool { return p.PaymentID == paymentID && p.Amount == amount })
	if !ok {
		return nil, userplan.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) Create(_ context.Context, plan *models.UserPlan) error {
	if hook := s.BeforeCreate; hook != nil {
		hook(plan)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if lo.ContainsBy(s.plans, func(p *models.UserPlan) bool { return p.PaymentID == plan.PaymentID && p.Amount == plan.Amount }) {
		return userplan.ErrDuplicate
	}
	now := time.Now()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	cp := *plan
	s.plans = append(s.plans, &cp)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*models.UserPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := lo.Find(s.plans, func(p *models.UserPlan) bool { return p.ID == id })
	if !ok {
		return nil, userplan.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) Update(_ context.Context, id string, fields map[string]any) (*models.UserPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := lo.Find(s.plans, func(p *models.UserPlan) bool { return p.ID == id })
	if !ok {
		return nil, userplan.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "plan_name":
			p.PlanName = v.(string)
		case "status":
			p.Status = v.(types.UserPlanStatus)
		case "start_date":
			p.StartDate = v.(time.Time)
		case "expiry_date":
			p.ExpiryDate = v.(time.Time)
		default:
			return nil, fmt.Errorf("userplantest: unsupported update column %q", k)
		}
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *Store) Scan(ctx context.Context, req *userplan.ScanRequest) (*userplan.ScanResponse[*models.UserPlan], error) {
	if err := req.Normalize(userplan.PlanColumns); err != nil {
		return nil, err
	}
	rows, err := s.List(ctx, req.Filters)
	if err != nil {
		return nil, err
	}
	slices.Reverse(rows)
	return page(rows, req), nil
}

func (s *Store) List(_ context.Context, filters []*types.CommonFilter) ([]*models.UserPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*models.UserPlan
	for _, p := range s.plans {
		if matchAll(filters, planColumn(p)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := lo.Find(s.payments, func(p *models.Payment) bool { return p.ID == id })
	if !ok {
		return nil, userplan.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPaymentsByStatus(_ context.Context, status types.PaymentStatus) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rows := lo.Filter(s.payments, func(p *models.Payment, _ int) bool { return p.Status == status })
	rows = lo.Map(rows, func(p *models.Payment, _ int) *models.Payment { cp := *p; return &cp })
	slices.SortStableFunc(rows, func(a, b *models.Payment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return rows, nil
}

func (s *Store) ScanPayments(_ context.Context, req *userplan.ScanRequest) (*userplan.ScanResponse[*models.Payment], error) {
	if err := req.Normalize(userplan.PaymentColumns); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var rows []*models.Payment
	for i := len(s.payments) - 1; i >= 0; i-- {
		p := s.payments[i]
		if matchAll(req.Filters, paymentColumn(p)) {
			cp := *p
			rows = append(rows, &cp)
		}
	}
	return page(rows, req), nil
}

// page applies from/size. Rows are newest first; sort_by is not honoured.
func page[T any](rows []T, req *userplan.ScanRequest) *userplan.ScanResponse[T] {
	total := int64(len(rows))
	if req.From >= len(rows) {
		return &userplan.ScanResponse[T]{Total: total}
	}
	end := min(req.From+req.Size, len(rows))
	return &userplan.ScanResponse[T]{Items: rows[req.From:end], Total: total}
}

func matchAll(filters []*types.CommonFilter, lookup func(string) (any, bool)) bool {
	return lo.EveryBy(filters, func(f *types.CommonFilter) bool { return f.Match(lookup) })
}

func planColumn(p *models.UserPlan) func(string) (any, bool) {
	return func(field string) (any, bool) {
		switch strings.ToLower(field) {
		case "id":
			return p.ID, true
		case "user_id":
			return p.UserID, true
		case "plan_name":
			return p.PlanName, true
		case "status":
			return string(p.Status), true
		case "payment_id":
			return p.PaymentID, true
		case "amount":
			return p.Amount, true
		default:
			return nil, false
		}
	}
}

func paymentColumn(p *models.Payment) func(string) (any, bool) {
	return func(field string) (any, bool) {
		switch strings.ToLower(field) {
		case "id":
			return p.ID, true
		case "transaction_id":
			return p.TransactionID, true
		case "plan_name":
			return p.PlanName, true
		case "amount":
			return p.Amount, true
		case "user_email":
			return p.UserEmail, true
		case "status":
			return string(p.Status), true
		default:
			return nil, false
		}
	}
}
