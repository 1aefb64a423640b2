package userplan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/types"
)

// GormStore implements Store and PaymentStore on postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) FindByPaymentKey(ctx context.Context, paymentID, amount string) (*models.UserPlan, error) {
	var plan models.UserPlan
	err := s.db.WithContext(ctx).
		Where("payment_id = ? AND amount = ?", paymentID, amount).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user plan by payment key: %w", err)
	}
	return &plan, nil
}

func (s *GormStore) Create(ctx context.Context, plan *models.UserPlan) error {
	err := s.db.WithContext(ctx).Create(plan).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user plan: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.UserPlan, error) {
	var plan models.UserPlan
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user plan: %w", err)
	}
	return &plan, nil
}

func (s *GormStore) Update(ctx context.Context, id string, fields map[string]any) (*models.UserPlan, error) {
	var plan models.UserPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserPlan{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&plan).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user plan: %w", err)
	}
	return &plan, nil
}

// filtersAnd combines CommonFilters into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

func scan[T any](ctx context.Context, db *gorm.DB, model any, req *ScanRequest, allowed []string) (*ScanResponse[T], error) {
	if err := req.Normalize(allowed); err != nil {
		return nil, err
	}
	tx := db.WithContext(ctx).Model(model)
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list: %w", err)
	}
	return &ScanResponse[T]{Items: rows, Total: total}, nil
}

func (s *GormStore) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse[*models.UserPlan], error) {
	return scan[*models.UserPlan](ctx, s.db, &models.UserPlan{}, req, PlanColumns)
}

func (s *GormStore) List(ctx context.Context, filters []*types.CommonFilter) ([]*models.UserPlan, error) {
	for _, f := range filters {
		if err := f.Validate(PlanColumns); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	tx := s.db.WithContext(ctx).Model(&models.UserPlan{})
	if len(filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: filters}}})
	}
	var rows []*models.UserPlan
	if err := tx.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user plans: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (s *GormStore) ListPaymentsByStatus(ctx context.Context, status types.PaymentStatus) ([]*models.Payment, error) {
	var rows []*models.Payment
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return rows, nil
}

func (s *GormStore) ScanPayments(ctx context.Context, req *ScanRequest) (*ScanResponse[*models.Payment], error) {
	return scan[*models.Payment](ctx, s.db, &models.Payment{}, req, PaymentColumns)
}

var Module = fx.Options(
	fx.Provide(
		NewGormStore,
		func(s *GormStore) Store { return s },
		func(s *GormStore) PaymentStore { return s },
	),
)
