package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter 按客户端IP做令牌桶限流，长时间不活跃的条目会被清理
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	swept    time.Time
	now      func() time.Time
}

func newIPLimiter(n int, per time.Duration) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(n) / per.Seconds()),
		burst:    n,
		idle:     3 * per,
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.swept) > l.idle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.swept = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimitMW 每个IP在 per 时间内最多 n 个请求，超出时调用 reject
func RateLimitMW(n int, per time.Duration, reject app.HandlerFunc) app.HandlerFunc {
	l := newIPLimiter(n, per)
	return func(ctx context.Context, c *app.RequestContext) {
		if !l.allow(c.ClientIP()) {
			reject(ctx, c)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}
