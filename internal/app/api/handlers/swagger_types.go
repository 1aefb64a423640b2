package handlers

import (
	"github.com/fatflowers/courseshop/internal/app/service/reconcile"
	"github.com/fatflowers/courseshop/internal/app/service/statistics"
	subsvc "github.com/fatflowers/courseshop/internal/app/service/subscription"
	"github.com/fatflowers/courseshop/internal/models"
	"github.com/fatflowers/courseshop/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespSubscriptionSnapshot wraps subscription.Snapshot in the standard envelope.
type RespSubscriptionSnapshot struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subsvc.Snapshot          `json:"data"`
}

// RespUserPlan wraps a single user plan.
type RespUserPlan struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.UserPlan          `json:"data"`
}

type RespBatchResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reconcile.BatchResult    `json:"data"`
}

type RespListPayments struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListPaymentsResponse     `json:"data"`
}

type RespListUserPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListUserPlansResponse    `json:"data"`
}

type RespPlanLogs struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []SwaggerUserPlanLog     `json:"data"`
}

// RespPlanStatistic wraps PlanStatistic in the standard envelope.
type RespPlanStatistic struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    statistics.PlanStatistic `json:"data"`
}

// SwaggerUserPlanLog is models.UserPlanLog with the jsonb columns spelled out
// for documentation purposes.
type SwaggerUserPlanLog struct {
	ID        string                 `json:"id"`
	PlanID    string                 `json:"plan_id"`
	UserID    string                 `json:"user_id"`
	Reason    string                 `json:"reason"`
	Before    *models.UserPlan       `json:"before"`
	After     *models.UserPlan       `json:"after"`
	Extra     map[string]interface{} `json:"extra"`
	CreatedAt string                 `json:"created_at"`
}
