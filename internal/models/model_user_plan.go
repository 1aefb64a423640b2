package models

import (
	"time"

	"github.com/fatflowers/courseshop/pkg/types"
)

// UserPlan is one reconciled grant of access tied to one payment.
// (payment_id, amount) is unique: the same transaction id may legitimately
// appear with different amounts, so the id alone is not the dedup key.
type UserPlan struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(255);not null;index" json:"user_id"`
	// PlanName is the label the user paid for, e.g. "Premium - Monthly".
	PlanName   string               `gorm:"column:plan_name;type:varchar(255);not null" json:"plan_name"`
	Status     types.UserPlanStatus `gorm:"column:status;type:varchar(32);not null;index:idx_user_plans_status_created,priority:1" json:"status"`
	StartDate  time.Time            `gorm:"column:start_date;not null" json:"start_date"`
	ExpiryDate time.Time            `gorm:"column:expiry_date;not null" json:"expiry_date"`
	PaymentID  string               `gorm:"column:payment_id;type:varchar(128);not null;uniqueIndex:unique_payment_id_amount,priority:1" json:"payment_id"`
	Amount     string               `gorm:"column:amount;type:varchar(32);not null;uniqueIndex:unique_payment_id_amount,priority:2" json:"amount"`
	CreatedAt  time.Time            `gorm:"index:idx_user_plans_status_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func (UserPlan) TableName() string {
	return "user_plans"
}

// IsExpired reports whether the plan's window has closed at now. Expiry is
// computed on read; no stored status transition happens.
func (p *UserPlan) IsExpired(now time.Time) bool {
	return p != nil && p.ExpiryDate.Before(now)
}
