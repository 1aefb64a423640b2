package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/response"
)

const (
	// KeyBearerToken holds the raw bearer token in gin.Context.
	KeyBearerToken = "bearerToken"
	keyRole        = "role"
)

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if h == "" || token == h || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, response.ErrorT[any](response.APIResponseCodeUnauthorized, msg))
}

// AdminAuthMiddleware admits requests carrying an HS256 token signed with
// the configured admin secret whose "role" claim equals the admin role. With
// no secret configured every admin request is refused.
func AdminAuthMiddleware(cfg *config.Config, base *zap.SugaredLogger) gin.HandlerFunc {
	secret := []byte(cfg.Auth.AdminJWTSecret)
	role := cfg.Auth.AdminRole
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)
		if len(secret) == 0 {
			log.Errorw("admin request refused: auth.admin_jwt_secret is not configured")
			unauthorized(c, http.StatusServiceUnavailable, "admin auth not configured")
			return
		}
		tokenString, ok := BearerToken(c)
		if !ok {
			unauthorized(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			log.Warnw("admin token rejected", "error", err)
			unauthorized(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, http.StatusUnauthorized, "invalid token claims")
			return
		}
		if got, _ := claims[keyRole].(string); got != role {
			unauthorized(c, http.StatusForbidden, "access denied")
			return
		}

		operator := operatorFrom(claims)
		c.Set(keyRole, role)
		c.Set(logctx.KeyOperator, operator)
		ctx := context.WithValue(c.Request.Context(), logctx.KeyOperator, operator)
		if l, ok := c.Get(logctx.KeyLogger); ok {
			if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
				lg = lg.With("operator", operator)
				c.Set(logctx.KeyLogger, lg)
				ctx = context.WithValue(ctx, logctx.KeyLogger, lg)
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// operatorFrom names the admin for audit logs: email, then sub.
func operatorFrom(claims jwt.MapClaims) string {
	for _, k := range []string{"email", "sub"} {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return "unknown"
}

// ClaimsTokenMiddleware stores the bearer token, if any, for handlers that
// read subscription claims. Absence is not an error.
func ClaimsTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := BearerToken(c); ok {
			c.Set(KeyBearerToken, token)
		}
		c.Next()
	}
}
