package models

import (
	"time"

	"github.com/fatflowers/courseshop/pkg/types"
)

// Payment is a payment proof submitted through the UPI intake flow: the
// transaction id and amount typed in by the user. It is read-only here.
type Payment struct {
	ID            string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	TransactionID string `gorm:"column:transaction_id;type:varchar(128);not null;index" json:"transaction_id"`
	PlanName      string `gorm:"column:plan_name;type:varchar(255);not null" json:"plan_name"`
	// Amount is a decimal string, exactly as entered ("449", "4308.00").
	Amount    string              `gorm:"column:amount;type:varchar(32);not null" json:"amount"`
	UserEmail string              `gorm:"column:user_email;type:varchar(255);not null" json:"user_email"`
	UserName  string              `gorm:"column:user_name;type:varchar(255)" json:"user_name"`
	Status    types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index:idx_payments_status_created,priority:1" json:"status"`
	CreatedAt time.Time           `gorm:"index:idx_payments_status_created,priority:2" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) IsVerified() bool {
	return p != nil && p.Status == types.PaymentStatusVerified
}
