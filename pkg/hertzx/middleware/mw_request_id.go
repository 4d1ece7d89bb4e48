package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hatcher/todoai/pkg/logs"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMW 为每个请求生成新ID(忽略客户端传入的值)，写入响应头并放入ctx供日志使用
func RequestIDMW() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		requestID := uuid.NewString()
		ctx = logs.WithLogID(ctx, requestID)
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next(ctx)
	}
}
