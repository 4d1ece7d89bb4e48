package logs

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Output string

const (
	Stdout Output = "stdout"
	Stderr Output = "stderr"
	File   Output = "file"
)

type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
	LevelFatal
)

// GetLevel 解析日志级别, 无法识别时返回 LevelInfo
func GetLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "NOTICE":
		return LevelNotice
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL", "CRITICAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

var strs = []string{
	"[TRACE] ",
	"[DEBUG] ",
	"[INFO] ",
	"[NOTICE] ",
	"[WARN] ",
	"[ERROR] ",
	"[FATAL] ",
}

func (lv Level) toString() string {
	if lv >= LevelTrace && lv <= LevelFatal {
		return strs[lv]
	}
	return fmt.Sprintf("[?%d] ", lv)
}

type logIDKey struct{}

// WithLogID 将请求 id 写入 context, Ctx 系列方法会输出该 id
func WithLogID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, logIDKey{}, id)
}

// LogID 读取 context 中的请求 id
func LogID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(logIDKey{}).(string)
	return id
}

type CtxLogger interface {
	CtxTracef(ctx context.Context, format string, v ...interface{})
	CtxDebugf(ctx context.Context, format string, v ...interface{})
	CtxInfof(ctx context.Context, format string, v ...interface{})
	CtxNoticef(ctx context.Context, format string, v ...interface{})
	CtxWarnf(ctx context.Context, format string, v ...interface{})
	CtxErrorf(ctx context.Context, format string, v ...interface{})
	CtxFatalf(ctx context.Context, format string, v ...interface{})
}

type FormatLogger interface {
	Tracef(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Noticef(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
}

type Control interface {
	SetLevel(Level)
	SetOutput(io.Writer)
}

type FullLogger interface {
	FormatLogger
	CtxLogger
	Control
}

type ILog struct {
	stdLog *log.Logger
	level  atomic.Int32
}

func NewLogger(w io.Writer, lv Level) *ILog {
	il := &ILog{stdLog: log.New(w, "", log.LstdFlags|log.Lshortfile|log.Lmicroseconds)}
	il.SetLevel(lv)
	return il
}

func (il *ILog) SetOutput(w io.Writer) {
	il.stdLog.SetOutput(w)
}

func (il *ILog) SetLevel(lv Level) {
	il.level.Store(int32(lv))
}

func (il *ILog) enabled(lv Level) bool {
	return Level(il.level.Load()) <= lv
}

func (il *ILog) logf(lv Level, format *string, v ...interface{}) {
	if !il.enabled(lv) {
		return
	}
	msg := lv.toString()
	if format != nil {
		msg += fmt.Sprintf(*format, v...)
	} else {
		msg += fmt.Sprint(v...)
	}
	il.stdLog.Output(4, msg)
	if lv == LevelFatal {
		os.Exit(1)
	}
}

func (il *ILog) logfCtx(ctx context.Context, lv Level, format *string, v ...interface{}) {
	if !il.enabled(lv) {
		return
	}
	msg := lv.toString()
	if logID := LogID(ctx); logID != "" {
		msg += fmt.Sprintf("[request-id: %s] ", logID)
	}
	if format != nil {
		msg += fmt.Sprintf(*format, v...)
	} else {
		msg += fmt.Sprint(v...)
	}
	il.stdLog.Output(4, msg)
	if lv == LevelFatal {
		os.Exit(1)
	}
}

func (il *ILog) Fatalf(format string, v ...interface{}) {
	il.logf(LevelFatal, &format, v...)
}

func (il *ILog) Errorf(format string, v ...interface{}) {
	il.logf(LevelError, &format, v...)
}

func (il *ILog) Warnf(format string, v ...interface{}) {
	il.logf(LevelWarn, &format, v...)
}

func (il *ILog) Noticef(format string, v ...interface{}) {
	il.logf(LevelNotice, &format, v...)
}

func (il *ILog) Infof(format string, v ...interface{}) {
	il.logf(LevelInfo, &format, v...)
}

func (il *ILog) Debugf(format string, v ...interface{}) {
	il.logf(LevelDebug, &format, v...)
}

func (il *ILog) Tracef(format string, v ...interface{}) {
	il.logf(LevelTrace, &format, v...)
}

func (il *ILog) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelFatal, &format, v...)
}

func (il *ILog) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelError, &format, v...)
}

func (il *ILog) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelWarn, &format, v...)
}

func (il *ILog) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelNotice, &format, v...)
}

func (il *ILog) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelInfo, &format, v...)
}

func (il *ILog) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelDebug, &format, v...)
}

func (il *ILog) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	il.logfCtx(ctx, LevelTrace, &format, v...)
}
