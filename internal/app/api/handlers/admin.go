package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/app/service/planadmin"
	"github.com/fatflowers/courseshop/internal/app/service/reconcile"
	"github.com/fatflowers/courseshop/internal/app/service/statistics"
	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/response"
)

// PlanHistory reads the change log of a plan.
type PlanHistory interface {
	ListByPlan(ctx context.Context, planID string) ([]*models.UserPlanLog, error)
}

// Admin bundles the services behind /api/v1/admin.
type Admin struct {
	Reconciler *reconcile.Service
	Plans      *planadmin.Service
	Stats      *statistics.Service
	PlanStore  userplan.Store
	Payments   userplan.PaymentStore
	History    PlanHistory
	Log        *zap.SugaredLogger
}

type PaymentIDRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

type PlanIDRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type VerifyPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
	// PlanName replaces the stored name when set.
	PlanName string   `json:"plan_name"`
	Amount   *float64 `json:"amount"`
}

type ExtendPlanRequest struct {
	PlanID     string    `json:"plan_id" binding:"required"`
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
}

type ChangePlanRequest struct {
	PlanID   string `json:"plan_id" binding:"required"`
	PlanName string `json:"plan_name" binding:"required"`
}

// PaymentItem is a payment row with its reconciliation state.
type PaymentItem struct {
	*models.Payment
	Reconciled bool `json:"reconciled"`
}

type ListPaymentsResponse struct {
	Items []*PaymentItem `json:"items"`
	Total int64          `json:"total"`
}

// UserPlanItem is a user plan with expiry evaluated at response time.
type UserPlanItem struct {
	*models.UserPlan
	IsExpired bool `json:"is_expired"`
}

type ListUserPlansResponse struct {
	Items []*UserPlanItem `json:"items"`
	Total int64           `json:"total"`
}

// errorCode maps service errors onto envelope codes.
func errorCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, reconcile.ErrAlreadyExists):
		return response.APIResponseCodeAlreadyExists
	case errors.Is(err, reconcile.ErrPaymentNotFound),
		errors.Is(err, planadmin.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, reconcile.ErrPaymentNotVerified),
		errors.Is(err, planadmin.ErrInvalidTransition),
		errors.Is(err, planadmin.ErrExpiryInPast),
		errors.Is(err, planadmin.ErrInvalidPlanName),
		errors.Is(err, userplan.ErrInvalidRequest):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

func (a *Admin) fail(c *gin.Context, op string, err error) {
	code := errorCode(err)
	l := logctx.FromGin(c, a.Log)
	if code == response.APIResponseCodeError {
		l.Errorw("admin request failed", "op", op, "error", err)
	} else {
		l.Infow("admin request rejected", "op", op, "error", err)
	}
	c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
}

// @Summary      Reconcile Payment (Admin)
// @Description  Creates the user plan for a verified payment. Returns code 40900 when a plan for the same transaction id and amount already exists.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PaymentIDRequest true "Payment to reconcile"
// @Success      200  {object}  handlers.RespUserPlan
// @Router       /api/v1/admin/reconcile_payment [post]
func (a *Admin) ApiReconcilePayment(c *gin.Context) {
	var req PaymentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := a.Reconciler.ReconcileByPaymentID(c.Request.Context(), req.PaymentID)
	if err != nil {
		a.fail(c, "reconcile_payment", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(plan))
}

// @Summary      Reconcile Verified Payments (Admin)
// @Description  Backfills user plans for every verified payment, oldest first.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespBatchResult
// @Router       /api/v1/admin/reconcile_verified_payments [post]
func (a *Admin) ApiReconcileVerifiedPayments(c *gin.Context) {
	res, err := a.Reconciler.ReconcileVerified(c.Request.Context())
	if err != nil {
		a.fail(c, "reconcile_verified_payments", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(res))
}

// @Summary      List Payments (Admin)
// @Description  Paginated, filterable payment list; each row says whether a user plan already exists for it.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body userplan.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/list_payments [post]
func (a *Admin) ApiListPayments(c *gin.Context) {
	var req userplan.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	res, err := a.Payments.ScanPayments(ctx, &req)
	if err != nil {
		a.fail(c, "list_payments", err)
		return
	}
	items := make([]*PaymentItem, 0, len(res.Items))
	for _, p := range res.Items {
		ok, err := a.Reconciler.Exists(ctx, p.TransactionID, p.Amount)
		if err != nil {
			a.fail(c, "list_payments", err)
			return
		}
		items = append(items, &PaymentItem{Payment: p, Reconciled: ok})
	}
	c.JSON(http.StatusOK, response.OKT(&ListPaymentsResponse{Items: items, Total: res.Total}))
}

// @Summary      List User Plans (Admin)
// @Description  Paginated, filterable user plan list.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body userplan.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListUserPlans
// @Router       /api/v1/admin/list_user_plans [post]
func (a *Admin) ApiListUserPlans(c *gin.Context) {
	var req userplan.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := a.PlanStore.Scan(c.Request.Context(), &req)
	if err != nil {
		a.fail(c, "list_user_plans", err)
		return
	}
	now := time.Now()
	items := lo.Map(res.Items, func(p *models.UserPlan, _ int) *UserPlanItem {
		return &UserPlanItem{UserPlan: p, IsExpired: planadmin.IsPlanExpired(p.ExpiryDate, now)}
	})
	c.JSON(http.StatusOK, response.OKT(&ListUserPlansResponse{Items: items, Total: res.Total}))
}

// @Summary      Verify Plan (Admin)
// @Description  Moves a pending or verified plan to verified and restarts its validity window now.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body VerifyPlanRequest true "Plan to verify"
// @Success      200  {object}  handlers.RespUserPlan
// @Router       /api/v1/admin/verify_plan [post]
func (a *Admin) ApiVerifyPlan(c *gin.Context) {
	var req VerifyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := a.Plans.Verify(c.Request.Context(), req.PlanID, req.PlanName, req.Amount)
	if err != nil {
		a.fail(c, "verify_plan", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(plan))
}

// @Summary      Extend Plan (Admin)
// @Description  Overwrites the expiry date of a plan. Dates before today are rejected.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ExtendPlanRequest true "Plan and new expiry date"
// @Success      200  {object}  handlers.RespUserPlan
// @Router       /api/v1/admin/extend_plan [post]
func (a *Admin) ApiExtendPlan(c *gin.Context) {
	var req ExtendPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := a.Plans.Extend(c.Request.Context(), req.PlanID, req.ExpiryDate)
	if err != nil {
		a.fail(c, "extend_plan", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(plan))
}

// @Summary      Change Plan (Admin)
// @Description  Switches the plan name and recomputes the expiry date from now.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePlanRequest true "Plan and new plan name"
// @Success      200  {object}  handlers.RespUserPlan
// @Router       /api/v1/admin/change_plan [post]
func (a *Admin) ApiChangePlan(c *gin.Context) {
	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := a.Plans.Change(c.Request.Context(), req.PlanID, req.PlanName)
	if err != nil {
		a.fail(c, "change_plan", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(plan))
}

// @Summary      Cancel Plan (Admin)
// @Description  Marks a pending or verified plan as cancelled.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PlanIDRequest true "Plan to cancel"
// @Success      200  {object}  handlers.RespUserPlan
// @Router       /api/v1/admin/cancel_plan [post]
func (a *Admin) ApiCancelPlan(c *gin.Context) {
	var req PlanIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := a.Plans.Cancel(c.Request.Context(), req.PlanID)
	if err != nil {
		a.fail(c, "cancel_plan", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(plan))
}

// @Summary      List Plan Logs (Admin)
// @Description  Returns the change history of a plan, oldest first.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PlanIDRequest true "Plan"
// @Success      200  {object}  handlers.RespPlanLogs
// @Router       /api/v1/admin/list_plan_logs [post]
func (a *Admin) ApiListPlanLogs(c *gin.Context) {
	var req PlanIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rows, err := a.History.ListByPlan(c.Request.Context(), req.PlanID)
	if err != nil {
		a.fail(c, "list_plan_logs", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(rows))
}

// @Summary      Get Plan Statistics (Admin)
// @Description  Summarizes user plans by status and plan name; expiry is evaluated at request time.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.PlanStatisticRequest true "Optional filters"
// @Success      200  {object}  handlers.RespPlanStatistic
// @Router       /api/v1/admin/get_plan_statistic [post]
func (a *Admin) ApiGetPlanStatistic(c *gin.Context) {
	var req statistics.PlanStatisticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := a.Stats.GetPlanStatistic(c.Request.Context(), &req)
	if err != nil {
		a.fail(c, "get_plan_statistic", err)
		return
	}
	c.JSON(http.StatusOK, response.OKT(res))
}

func RegisterAdminRoutes(r gin.IRouter, a *Admin) {
	r.POST("/reconcile_payment", a.ApiReconcilePayment)
	r.POST("/reconcile_verified_payments", a.ApiReconcileVerifiedPayments)
	r.POST("/list_payments", a.ApiListPayments)
	r.POST("/list_user_plans", a.ApiListUserPlans)
	r.POST("/verify_plan", a.ApiVerifyPlan)
	r.POST("/extend_plan", a.ApiExtendPlan)
	r.POST("/change_plan", a.ApiChangePlan)
	r.POST("/cancel_plan", a.ApiCancelPlan)
	r.POST("/list_plan_logs", a.ApiListPlanLogs)
	r.POST("/get_plan_statistic", a.ApiGetPlanStatistic)
}
