package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unsafe"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hatcher/todoai/pkg/logs"
)

const maxPrintLen = 3 * 1024

// AccessLogMW 记录每个请求的状态码与耗时，成功请求在 debug 级别附带请求和响应体
func AccessLogMW() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)

		status := c.Response.StatusCode()
		path := bytesToString(c.Request.URI().PathOriginal())
		method := bytesToString(c.Request.Header.Method())
		baseLog := fmt.Sprintf("| %d | %v | %s | %s | %s ",
			status, time.Since(start), c.ClientIP(), method, path)

		switch {
		case status >= http.StatusInternalServerError:
			logs.CtxErrorf(ctx, "%s", baseLog)
		case status >= http.StatusBadRequest:
			logs.CtxWarnf(ctx, "%s| %s", baseLog, truncate(bytesToString(c.Response.Body())))
		default:
			logs.CtxInfof(ctx, "%s", baseLog)
			logs.CtxDebugf(ctx, "query : %s \nreq : %s \nresp: %s",
				c.Request.URI().QueryString(),
				truncate(bytesToString(c.Request.Body())),
				truncate(bytesToString(c.Response.Body())))
		}
	}
}

func truncate(s string) string {
	if len(s) > maxPrintLen {
		return s[:maxPrintLen]
	}
	return s
}

func bytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b)) // nolint
}
