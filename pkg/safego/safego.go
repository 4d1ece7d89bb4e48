package safego

import (
	"context"
	"runtime/debug"

	"github.com/hatcher/todoai/pkg/logs"
)

// Go 安全的go, 捕获panic
func Go(ctx context.Context, f func()) {
	go func() {
		defer Recovery(ctx)
		f()
	}()
}

// Recovery 捕获panic并记录堆栈
func Recovery(ctx context.Context) {
	e := recover()
	if e == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logs.CtxErrorf(ctx, "[Recovery] panic = %v\nstacktrace =\n%s", e, debug.Stack())
}
