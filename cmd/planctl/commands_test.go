package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/courseshop/internal/app/service/subscription"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"backfill", "reconcile", "verify", "extend", "change", "cancel", "decode"} {
		assert.True(t, names[want], want)
	}
}

func TestDecodeCmd(t *testing.T) {
	payload, err := json.Marshal(map[string]any{
		"plan_name":  "PREMIUM_MONTHLY",
		"is_premium": true,
		"start_date": time.Now().Add(-time.Hour).UnixMilli(),
		"end_date":   time.Now().Add(3 * 24 * time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	token := "h." + base64.RawURLEncoding.EncodeToString(payload) + ".s"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"decode", token})
	require.NoError(t, rootCmd.Execute())

	var snap subscription.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	require.NotNil(t, snap.Subscription)
	assert.Equal(t, "Premium Monthly", snap.Subscription.FormattedPlanName)
	assert.True(t, snap.Subscription.IsExpiringSoon)
	assert.True(t, snap.Features.CanAccessMonthlyFeatures)
}

func TestParseExpiry(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	got, err := parseExpiry("2026-12-31", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 31, 23, 59, 59, 0, loc), got)

	got, err = parseExpiry("2026-12-31T10:00:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 12, 31, 10, 0, 0, 0, time.UTC)))

	_, err = parseExpiry("next week", loc)
	assert.Error(t, err)
}
