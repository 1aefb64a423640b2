package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys shared with the HTTP middleware.
const (
	KeyLogger   = "logger"
	KeyTraceID  = "traceID"
	KeyOperator = "operator"
)

// FromGin returns a request-scoped logger from gin.Context if present,
// otherwise returns the provided base logger.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(KeyLogger); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise attempts to enrich
// base with trace_id/operator from context values.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value(KeyLogger).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	var fields []interface{}
	if tid, ok := ctx.Value(KeyTraceID).(string); ok && tid != "" {
		fields = append(fields, "trace_id", tid)
	}
	if op, ok := ctx.Value(KeyOperator).(string); ok && op != "" {
		fields = append(fields, "operator", op)
	}
	if len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}

// Operator returns the admin identity attached by the admin auth middleware.
func Operator(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	op, _ := ctx.Value(KeyOperator).(string)
	return op
}
