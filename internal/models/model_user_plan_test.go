package models

import (
	"testing"
	"time"

	"github.com/fatflowers/courseshop/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	require.Equal(t, "payments", Payment{}.TableName())
	require.Equal(t, "user_plans", UserPlan{}.TableName())
	require.Equal(t, "user_plan_log", UserPlanLog{}.TableName())
}

func TestUserPlan_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, (&UserPlan{ExpiryDate: now.Add(-time.Millisecond)}).IsExpired(now))
	require.False(t, (&UserPlan{ExpiryDate: now}).IsExpired(now), "expiry equal to now is not expired")
	require.False(t, (&UserPlan{ExpiryDate: now.Add(time.Hour)}).IsExpired(now))
	require.False(t, (*UserPlan)(nil).IsExpired(now))
}

func TestPayment_IsVerified(t *testing.T) {
	require.True(t, (&Payment{Status: types.PaymentStatusVerified}).IsVerified())
	require.False(t, (&Payment{Status: types.PaymentStatusPending}).IsVerified())
	require.False(t, (*Payment)(nil).IsVerified())
}
