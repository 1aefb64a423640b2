package planlog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/tool"
	"github.com/fatflowers/courseshop/pkg/types"
)

// Recorder appends user plan change entries.
type Recorder interface {
	Save(ctx context.Context, entry *models.UserPlanLog)
}

type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	create  func(ctx context.Context, entry *models.UserPlanLog) error
	pending sync.WaitGroup
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	s := &Service{db: db, log: log}
	s.create = func(ctx context.Context, entry *models.UserPlanLog) error {
		return s.db.WithContext(ctx).Create(entry).Error
	}
	return s
}

// Save asynchronously persists a plan change entry. Nil input is ignored.
// Failures are logged; the change itself has already been committed.
// Drain waits for writes started here.
func (s *Service) Save(ctx context.Context, entry *models.UserPlanLog) {
	if entry == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if entry.ID == "" {
			entry.ID = tool.GenerateUUIDV7()
		}
		if err := s.create(ctx, entry); err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("failed to save user plan log",
				"plan_id", entry.PlanID, "reason", entry.Reason, "error", err)
		}
	}()
}

// Drain blocks until every pending Save has finished or ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("user plan logs still pending: %w", ctx.Err())
	}
}

// registerDrain flushes pending entries on shutdown. The hook is appended
// after the database close hook, so it runs before the pool is closed.
func registerDrain(lc fx.Lifecycle, s *Service) {
	lc.Append(fx.Hook{
		OnStop: s.Drain,
	})
}

// ListByPlan returns the change history of a plan, oldest first.
func (s *Service) ListByPlan(ctx context.Context, planID string) ([]*models.UserPlanLog, error) {
	var rows []*models.UserPlanLog
	if err := s.db.WithContext(ctx).Where("plan_id = ?", planID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user plan logs: %w", err)
	}
	return rows, nil
}

// NewEntry builds a log entry for a change from before to after. before is
// nil for newly created plans. The operator from ctx, if any, goes to extra.
func NewEntry(ctx context.Context, reason types.UserPlanChangeReason, before, after *models.UserPlan, extra map[string]any) *models.UserPlanLog {
	subject := after
	if subject == nil {
		subject = before
	}
	if subject == nil {
		return nil
	}
	ex := datatypes.JSONMap{}
	for k, v := range extra {
		ex[k] = v
	}
	if op := logctx.Operator(ctx); op != "" {
		ex["operator"] = op
	}
	return &models.UserPlanLog{
		PlanID: subject.ID,
		UserID: subject.UserID,
		Reason: reason,
		Before: datatypes.NewJSONType(before),
		After:  datatypes.NewJSONType(after),
		Extra:  ex,
	}
}

var Module = fx.Options(
	fx.Provide(
		New,
		func(s *Service) Recorder { return s },
	),
	fx.Invoke(registerDrain),
)
