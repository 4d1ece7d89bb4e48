package hertzx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/hatcher/todoai/pkg/hertzx/middleware"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/pkg/resp"
	"github.com/hertz-contrib/cors"
	"github.com/pkg/errors"
)

type WebConfig struct {
	Host               string `json:"host" yaml:"host" mapstructure:"host"` // 当前主机地址，默认 0.0.0.0
	Port               int    `json:"port" yaml:"port" mapstructure:"port"`
	MaxRequestBodySize int    `json:"maxRequestBodySize" yaml:"max-request-body-size" mapstructure:"max-request-body-size"`
	ReadTimeout        int    `json:"readTimeout" yaml:"read-timeout" mapstructure:"read-timeout"`    // 读取超时时间(ms)
	WriteTimeout       int    `json:"writeTimeout" yaml:"write-timeout" mapstructure:"write-timeout"` // 写入超时时间(ms)
	IdleTimeout        int    `json:"idleTimeout" yaml:"idle-timeout" mapstructure:"idle-timeout"`    // 空闲超时时间(ms)
	ShutdownTimeout    int    `json:"shutdownTimeout" yaml:"shutdown-timeout" mapstructure:"shutdown-timeout"`
	// RateLimit 每个客户端IP每分钟允许的请求数，0 表示不限制
	RateLimit int `json:"rateLimit" yaml:"rate-limit" mapstructure:"rate-limit"`
	// CORSOrigins 为空时允许所有来源
	CORSOrigins []string `json:"corsOrigins" yaml:"cors-origins" mapstructure:"cors-origins"`
}

func (cfg *WebConfig) Prepare() {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.MaxRequestBodySize == 0 {
		cfg.MaxRequestBodySize = 4 * 1024 * 1024
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 60 * 1000
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 3 * 60 * 1000
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * 1000
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * 1000
	}
	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
}

func (cfg *WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// WebEngine 创建 hertz 实例，挂载请求ID、恢复、跨域、访问日志和限流中间件
func WebEngine(cfg WebConfig) *server.Hertz {
	opts := []config.Option{
		server.WithHostPorts(cfg.Addr()),
		server.WithMaxRequestBodySize(cfg.MaxRequestBodySize),
		server.WithReadTimeout(time.Duration(cfg.ReadTimeout) * time.Millisecond),
		server.WithWriteTimeout(time.Duration(cfg.WriteTimeout) * time.Millisecond),
		server.WithIdleTimeout(time.Duration(cfg.IdleTimeout) * time.Millisecond),
		server.WithExitWaitTime(time.Duration(cfg.ShutdownTimeout) * time.Millisecond),
		server.WithHandleMethodNotAllowed(true),
		server.WithDisablePrintRoute(true),
	}
	h := server.New(opts...)

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"*"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	h.Use(middleware.RequestIDMW())
	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(onPanic)))
	h.Use(cors.New(corsCfg))
	h.Use(middleware.AccessLogMW())
	if cfg.RateLimit > 0 {
		h.Use(middleware.RateLimitMW(cfg.RateLimit, time.Minute, func(ctx context.Context, c *app.RequestContext) {
			Abort(c, http.StatusTooManyRequests, resp.CodeRateLimit, "Rate limit exceeded", nil)
		}))
	}

	h.NoRoute(func(ctx context.Context, c *app.RequestContext) {
		NotFound(c, "Not Found")
	})
	h.NoMethod(func(ctx context.Context, c *app.RequestContext) {
		Abort(c, http.StatusMethodNotAllowed, resp.CodeValidation, "Method Not Allowed", nil)
	})
	return h
}

func onPanic(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
	logs.CtxErrorf(ctx, "panic recovered: %v\n%s", err, stack)
	Internal(c)
}

// Abort 以统一错误结构结束请求
func Abort(c *app.RequestContext, status int, code resp.ErrorCode, message string, details any) {
	c.AbortWithStatusJSON(status, resp.NewError(code, message, details))
}

// Bad 参数校验失败
func Bad(c *app.RequestContext, details map[string]string) {
	Abort(c, http.StatusBadRequest, resp.CodeValidation, "Invalid request data", details)
}

func NotFound(c *app.RequestContext, message string) {
	Abort(c, http.StatusNotFound, resp.CodeNotFound, message, nil)
}

// Internal 不向调用方暴露内部错误
func Internal(c *app.RequestContext) {
	Abort(c, http.StatusInternalServerError, resp.CodeInternal, "An unexpected error occurred", nil)
}

func Unavailable(c *app.RequestContext, message string) {
	Abort(c, http.StatusServiceUnavailable, resp.CodeAIUnavailable, message, nil)
}

// OK 返回成功信息
func OK(c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *app.RequestContext) {
	c.SetStatusCode(http.StatusNoContent)
}

// ParamInt64 获取路径参数
func ParamInt64(c *app.RequestContext, paramName string) (int64, error) {
	paramContent := c.Param(paramName)
	if paramContent == "" {
		return 0, errors.Errorf("参数 %s 不能为空", paramName)
	}
	return strconv.ParseInt(paramContent, 10, 64)
}

// QueryFirst 返回第一个非空的查询参数，用于兼容参数别名
func QueryFirst(c *app.RequestContext, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			return v
		}
	}
	return ""
}

// QueryInt 获取int参数，缺省时返回0
func QueryInt(c *app.RequestContext, names ...string) (int, error) {
	pv := QueryFirst(c, names...)
	if pv == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(pv)
	if err != nil {
		return 0, errors.WithMessagef(err, "参数 %s 转换失败", names[0])
	}
	return v, nil
}

// QueryStrings 收集重复出现或逗号分隔的查询参数
func QueryStrings(c *app.RequestContext, names ...string) []string {
	var out []string
	args := c.QueryArgs()
	for _, name := range names {
		for _, raw := range args.PeekAll(name) {
			for _, part := range strings.Split(string(raw), ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}
