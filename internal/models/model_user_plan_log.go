package models

import (
	"time"

	"github.com/fatflowers/courseshop/pkg/types"
	"gorm.io/datatypes"
)

// UserPlanLog records changes to user plans.
// Use case: auditing operator actions and troubleshooting reconciliation.
type UserPlanLog struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PlanID string `gorm:"column:plan_id;type:uuid;index;not null" json:"plan_id"`
	UserID string `gorm:"column:user_id;type:varchar(255);index;not null" json:"user_id"`
	// Reason is the change reason.
	Reason types.UserPlanChangeReason `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	// Before is nil for newly reconciled plans.
	Before datatypes.JSONType[*UserPlan] `gorm:"column:before;type:jsonb;default:'null'" json:"before"`
	After  datatypes.JSONType[*UserPlan] `gorm:"column:after;type:jsonb;default:'null'" json:"after"`
	// Extra carries context such as the operator and the policy rule applied.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time         `json:"created_at"`
}

func (UserPlanLog) TableName() string {
	return "user_plan_log"
}
