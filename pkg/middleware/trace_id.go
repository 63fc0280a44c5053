package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

type CtxKey string

const CtxKeyTraceID CtxKey = "trace_id"

// TraceID tags every request with a fresh ksuid so log lines and the
// response can be correlated.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := ksuid.New().String()

		ctx := context.WithValue(c.Request.Context(), CtxKeyTraceID, traceID)
		c.Request = c.Request.Clone(ctx)
		c.Header("X-Trace-Id", traceID)

		c.Next()
	}
}
