package userplan

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/types"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by Create when (payment_id, amount) already exists.
	ErrDuplicate = errors.New("duplicate payment key")
	// ErrInvalidRequest is returned for filters or sorting on unknown columns.
	ErrInvalidRequest = errors.New("invalid scan request")
)

// Columns accepted in scan filters and sort_by.
var (
	PlanColumns    = []string{"id", "user_id", "plan_name", "status", "payment_id", "amount", "start_date", "expiry_date", "created_at"}
	PaymentColumns = []string{"id", "transaction_id", "plan_name", "amount", "user_email", "status", "created_at"}
)

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// Store persists user plans.
type Store interface {
	// FindByPaymentKey looks a plan up by its dedup key. ErrNotFound when absent.
	FindByPaymentKey(ctx context.Context, paymentID, amount string) (*models.UserPlan, error)
	// Create inserts plan. ErrDuplicate when the dedup key is taken.
	Create(ctx context.Context, plan *models.UserPlan) error
	Get(ctx context.Context, id string) (*models.UserPlan, error)
	// Update overwrites the given columns and returns the stored row.
	Update(ctx context.Context, id string, fields map[string]any) (*models.UserPlan, error)
	Scan(ctx context.Context, req *ScanRequest) (*ScanResponse[*models.UserPlan], error)
	List(ctx context.Context, filters []*types.CommonFilter) ([]*models.UserPlan, error)
}

// PaymentStore reads payment proofs. Payments are written by the intake flow,
// never by this service.
type PaymentStore interface {
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// ListPaymentsByStatus returns payments oldest first.
	ListPaymentsByStatus(ctx context.Context, status types.PaymentStatus) ([]*models.Payment, error)
	ScanPayments(ctx context.Context, req *ScanRequest) (*ScanResponse[*models.Payment], error)
}

// Normalize applies paging defaults and rejects filters or sorting on unknown
// columns.
func (r *ScanRequest) Normalize(allowed []string) error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if r.Size <= 0 {
		r.Size = 10
	}
	if r.Size > 500 {
		r.Size = 500
	}
	if r.From < 0 {
		r.From = 0
	}
	for _, f := range r.Filters {
		if err := f.Validate(allowed); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if r.SortBy != "" && !lo.Contains(allowed, r.SortBy) {
		return fmt.Errorf("%w: sort on field %q is not allowed", ErrInvalidRequest, r.SortBy)
	}
	return nil
}
