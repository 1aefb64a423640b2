package subscription

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/courseshop/pkg/types"
)

// unsignedToken builds header.payload.sig with an opaque signature.
func unsignedToken(t *testing.T, payload any) string {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestDecodeToken(t *testing.T) {
	payload := map[string]any{"plan_name": "PREMIUM_MONTHLY", "is_premium": true, "start_date": 1, "end_date": 2}
	decoded, err := DecodeToken(unsignedToken(t, payload))
	require.NoError(t, err)
	require.Equal(t, "PREMIUM_MONTHLY", decoded["plan_name"])

	// Payload length not a multiple of 4 needs padding restored.
	decoded, err = DecodeToken("x." + base64.RawURLEncoding.EncodeToString([]byte(`{"a":1}`)) + ".y")
	require.NoError(t, err)
	require.EqualValues(t, 1, decoded["a"])
}

func TestDecodeToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two segments", "a.b"},
		{"four segments", "a.b.c.d"},
		{"bad base64", "a.!!!.c"},
		{"not json", "a." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".c"},
		{"json array", "a." + base64.RawURLEncoding.EncodeToString([]byte("[1,2]")) + ".c"},
		{"json null", "a." + base64.RawURLEncoding.EncodeToString([]byte("null")) + ".c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformedToken))
		})
	}
}

func TestMatchClaims(t *testing.T) {
	flat := map[string]any{"plan_name": "PREMIUM_YEARLY", "start_date": float64(10), "end_date": float64(20), "is_premium": true}
	nested := map[string]any{"sub": "u1", "subscription": map[string]any{"plan_name": "PREMIUM_MONTHLY", "start_date": float64(1), "end_date": float64(2), "is_premium": false}}

	m := MatchClaims(flat)
	require.Equal(t, ShapeFlat, m.Shape)
	require.Equal(t, &types.Claims{PlanName: "PREMIUM_YEARLY", StartDate: 10, EndDate: 20, IsPremium: true}, m.Claims)

	m = MatchClaims(nested)
	require.Equal(t, ShapeNested, m.Shape)
	require.Equal(t, "PREMIUM_MONTHLY", m.Claims.PlanName)
	require.False(t, m.Claims.IsPremium)

	// Flat wins when both are present.
	both := map[string]any{"plan_name": "PREMIUM_YEARLY", "start_date": float64(10), "end_date": float64(20), "is_premium": true, "subscription": nested["subscription"]}
	m = MatchClaims(both)
	require.Equal(t, ShapeFlat, m.Shape)
	require.Equal(t, "PREMIUM_YEARLY", m.Claims.PlanName)

	// Incomplete shapes do not match.
	m = MatchClaims(map[string]any{"plan_name": "PREMIUM_YEARLY", "is_premium": true})
	require.Equal(t, ShapeNone, m.Shape)
	require.Nil(t, m.Claims)

	m = MatchClaims(map[string]any{"subscription": "PREMIUM_YEARLY"})
	require.Equal(t, ShapeNone, m.Shape)
	require.Nil(t, ExtractSubscriptionClaims(map[string]any{}))
}

func TestMatchClaims_NumericStrings(t *testing.T) {
	m := MatchClaims(map[string]any{"plan_name": "X", "start_date": "100", "end_date": "200", "is_premium": true})
	require.Equal(t, ShapeFlat, m.Shape)
	require.EqualValues(t, 200, m.Claims.EndDate)

	m = MatchClaims(map[string]any{"plan_name": "X", "start_date": "soon", "end_date": "200", "is_premium": true})
	require.Equal(t, ShapeNone, m.Shape)
}

func TestExtractClaimsList(t *testing.T) {
	decoded := map[string]any{"subscriptions": []any{
		map[string]any{"plan_name": "PREMIUM_MONTHLY", "start_date": float64(1), "end_date": float64(2), "is_premium": true},
		"garbage",
		map[string]any{"plan_name": "PREMIUM_YEARLY"},
		map[string]any{"plan_name": "PREMIUM_YEARLY", "start_date": float64(3), "end_date": float64(4), "is_premium": true},
	}}
	list := ExtractClaimsList(decoded)
	require.Len(t, list, 2)
	require.Equal(t, "PREMIUM_MONTHLY", list[0].PlanName)
	require.Equal(t, "PREMIUM_YEARLY", list[1].PlanName)

	require.Nil(t, ExtractClaimsList(map[string]any{"subscriptions": "nope"}))
}

func TestVerifiedDecoder(t *testing.T) {
	d := NewTokenDecoder("top-secret")
	require.IsType(t, VerifiedDecoder{}, d)

	good := signedToken(t, "top-secret", jwt.MapClaims{"plan_name": "PREMIUM_YEARLY"})
	claims, err := d.Decode(good)
	require.NoError(t, err)
	require.Equal(t, "PREMIUM_YEARLY", claims["plan_name"])

	forged := signedToken(t, "other", jwt.MapClaims{"plan_name": "PREMIUM_YEARLY"})
	_, err = d.Decode(forged)
	require.ErrorIs(t, err, ErrInvalidSignature)

	_, err = d.Decode("a.b")
	require.ErrorIs(t, err, ErrMalformedToken)

	// The unverified decoder accepts the forged token.
	require.IsType(t, UnverifiedDecoder{}, NewTokenDecoder(""))
	_, err = NewTokenDecoder("").Decode(forged)
	require.NoError(t, err)
}

func TestMatchClaims_OutOfRangeDates(t *testing.T) {
	for _, v := range []float64{1e300, -1e300, 9.3e18, math.Inf(1), math.NaN()} {
		m := MatchClaims(map[string]any{"plan_name": "PREMIUM_YEARLY", "start_date": float64(0), "end_date": v, "is_premium": true})
		require.Equal(t, ShapeNone, m.Shape, "end_date %v", v)
		require.Nil(t, m.Claims)
	}

	m := MatchClaims(map[string]any{"plan_name": "PREMIUM_YEARLY", "start_date": float64(0), "end_date": float64(4102444800000), "is_premium": true})
	require.Equal(t, ShapeFlat, m.Shape)
}
