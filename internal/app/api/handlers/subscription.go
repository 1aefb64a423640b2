package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/courseshop/internal/app/api/middleware"
	subsvc "github.com/fatflowers/courseshop/internal/app/service/subscription"
	"github.com/fatflowers/courseshop/pkg/response"
)

// @Summary      Current subscription
// @Description  Decodes the bearer identity token and returns subscription state and feature flags. A missing or undecodable token yields an empty subscription, not an error. Unless claims verification is configured the result is for display only.
// @Tags         Subscription
// @Produce      json
// @Param        Authorization  header  string  false  "Bearer identity token"
// @Success      200  {object}  handlers.RespSubscriptionSnapshot
// @Router       /api/v1/subscription/me [get]
func ApiSubscriptionMe(resolver *subsvc.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString(mw.KeyBearerToken)
		snap := resolver.Resolve(c.Request.Context(), token, time.Now())
		c.JSON(http.StatusOK, response.OKT(snap))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, resolver *subsvc.Resolver) {
	r.GET("/me", mw.ClaimsTokenMiddleware(), ApiSubscriptionMe(resolver))
}
