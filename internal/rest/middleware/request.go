package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/monetize/internal/types"
)

// RequestIDMiddleware attaches a request ID to the context and echoes it
// back on the response
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
