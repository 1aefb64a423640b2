package types

type UserPlanStatus string

const (
	UserPlanStatusPending   UserPlanStatus = "pending"
	UserPlanStatusVerified  UserPlanStatus = "verified"
	UserPlanStatusExpired   UserPlanStatus = "expired"
	UserPlanStatusCancelled UserPlanStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// UserPlanChangeReason labels an entry in the user plan change log.
type UserPlanChangeReason string

const (
	UserPlanChangeReasonReconcile UserPlanChangeReason = "reconcile"
	UserPlanChangeReasonVerify    UserPlanChangeReason = "verify"
	UserPlanChangeReasonExtend    UserPlanChangeReason = "extend"
	UserPlanChangeReasonChange    UserPlanChangeReason = "change"
	UserPlanChangeReasonCancel    UserPlanChangeReason = "cancel"
)
