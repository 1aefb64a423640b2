package subscription

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

// ErrInvalidSignature is returned by VerifiedDecoder for tokens whose
// signature, algorithm or registered claims do not check out.
var ErrInvalidSignature = errors.New("invalid token signature")

// TokenDecoder turns a raw token into its payload claims.
type TokenDecoder interface {
	Decode(token string) (jwt.MapClaims, error)
}

// UnverifiedDecoder is the UI-only decoder: payload is read, signature ignored.
type UnverifiedDecoder struct{}

func (UnverifiedDecoder) Decode(token string) (jwt.MapClaims, error) {
	return DecodeToken(token)
}

// VerifiedDecoder checks an HS256 signature before returning the payload.
// Enable it wherever claims gate something the server itself enforces.
type VerifiedDecoder struct {
	Secret []byte
}

func (d VerifiedDecoder) Decode(token string) (jwt.MapClaims, error) {
	if _, err := DecodeToken(token); err != nil {
		return nil, err
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return d.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return claims, nil
}

// NewTokenDecoder picks the verifying decoder when a secret is configured.
func NewTokenDecoder(secret string) TokenDecoder {
	if secret == "" {
		return UnverifiedDecoder{}
	}
	return VerifiedDecoder{Secret: []byte(secret)}
}
