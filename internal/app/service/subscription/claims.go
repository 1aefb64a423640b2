package subscription

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt"

	"github.com/fatflowers/courseshop/pkg/types"
)

// ErrMalformedToken is returned for anything that is not a three-segment
// token with a base64url JSON-object payload. Callers treat it as "no
// subscription", never as a fatal error.
var ErrMalformedToken = errors.New("malformed token")

// DecodeToken reads the payload of a header.payload.signature token.
//
// The signature is NOT verified. The result may drive what the UI shows but
// must never authorize a server-side action; use a verifying parser (see
// VerifiedDecoder) at any boundary that enforces entitlements.
func DecodeToken(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}
	// DecodeSegment restores '=' padding before base64url decoding.
	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding: %v", ErrMalformedToken, err)
	}
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload json: %v", ErrMalformedToken, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedToken)
	}
	return claims, nil
}

// ClaimsShape tells where in the payload the subscription claims were found.
type ClaimsShape int

const (
	ShapeNone ClaimsShape = iota
	ShapeFlat
	ShapeNested
	// ShapeList marks claims chosen from the "subscriptions" array.
	ShapeList
)

func (s ClaimsShape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	case ShapeList:
		return "list"
	default:
		return "none"
	}
}

// ClaimsMatch is the result of matching a decoded payload against the
// supported shapes. Claims is nil iff Shape is ShapeNone.
type ClaimsMatch struct {
	Shape  ClaimsShape
	Claims *types.Claims
}

const nestedKey = "subscription"

// MatchClaims tries the flat shape (fields on the root object) and then the
// nested shape (fields under "subscription"). A shape only matches when all
// four fields are present with usable types.
func MatchClaims(decoded map[string]any) ClaimsMatch {
	if c, ok := claimsFromObject(decoded); ok {
		return ClaimsMatch{Shape: ShapeFlat, Claims: c}
	}
	if nested, ok := decoded[nestedKey].(map[string]any); ok {
		if c, ok := claimsFromObject(nested); ok {
			return ClaimsMatch{Shape: ShapeNested, Claims: c}
		}
	}
	return ClaimsMatch{Shape: ShapeNone}
}

// ExtractSubscriptionClaims returns the subscription claims or nil when the
// payload carries none.
func ExtractSubscriptionClaims(decoded map[string]any) *types.Claims {
	return MatchClaims(decoded).Claims
}

const listKey = "subscriptions"

// ExtractClaimsList reads the optional "subscriptions" array used for users
// holding more than one plan. Elements that do not carry all four fields are
// skipped.
func ExtractClaimsList(decoded map[string]any) []types.Claims {
	raw, ok := decoded[listKey].([]any)
	if !ok {
		return nil
	}
	var out []types.Claims
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if c, ok := claimsFromObject(obj); ok {
			out = append(out, *c)
		}
	}
	return out
}

func claimsFromObject(obj map[string]any) (*types.Claims, bool) {
	if obj == nil {
		return nil, false
	}
	planName, ok := obj["plan_name"].(string)
	if !ok {
		return nil, false
	}
	start, ok := epochMillis(obj["start_date"])
	if !ok {
		return nil, false
	}
	end, ok := epochMillis(obj["end_date"])
	if !ok {
		return nil, false
	}
	premium, ok := obj["is_premium"].(bool)
	if !ok {
		return nil, false
	}
	return &types.Claims{PlanName: planName, StartDate: start, EndDate: end, IsPremium: premium}, true
}

// epochMillis accepts JSON numbers and numeric strings.
func epochMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
