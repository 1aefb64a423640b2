package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	subsvc "github.com/fatflowers/courseshop/internal/app/service/subscription"
	"github.com/fatflowers/courseshop/pkg/response"
	"github.com/fatflowers/courseshop/pkg/types"
)

func getSnapshot(t *testing.T, r *gin.Engine, auth string) subsvc.Snapshot {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscription/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.APIResponse[subsvc.Snapshot]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	return env.Data
}

func TestApiSubscriptionMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterSubscriptionRoutes(r.Group("/api/v1/subscription"), subsvc.NewResolverWithDecoder(nil, zap.NewNop().Sugar()))

	payload, err := json.Marshal(map[string]any{
		"plan_name":  types.PlanPremiumYearly,
		"is_premium": true,
		"start_date": time.Now().Add(-10 * 24 * time.Hour).UnixMilli(),
		"end_date":   time.Now().Add(100 * 24 * time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	token := "h." + base64.RawURLEncoding.EncodeToString(payload) + ".s"

	snap := getSnapshot(t, r, "Bearer "+token)
	require.NotNil(t, snap.Subscription)
	require.True(t, snap.Subscription.IsActive)
	require.Equal(t, "Premium Yearly", snap.Subscription.FormattedPlanName)
	require.True(t, snap.Features.CanAccessYearlyFeatures)

	snap = getSnapshot(t, r, "")
	require.Nil(t, snap.Subscription)
	require.Equal(t, types.Features{}, snap.Features)

	snap = getSnapshot(t, r, "Bearer abc.def")
	require.Nil(t, snap.Subscription)
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"code":0,"message":"ok","data":{"status":"ok"}}`, w.Body.String())
}
