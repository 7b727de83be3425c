package router

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	logx "modbot/pkg/logx"
)

type HandlerFunc func(ctx context.Context, req *Request) error

// Middleware wraps a handler. Chain applies them outermost first.
type Middleware func(next HandlerFunc) HandlerFunc

func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// slowCommand promotes a successful command's log line from DEBUG to INFO.
const slowCommand = 750 * time.Millisecond

// recoverPanics turns a handler panic into an error so one bad command
// cannot kill a worker.
func recoverPanics(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) (err error) {
		defer func() {
			if r := recover(); r != nil {
				req.Logger.Error("command panicked", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return next(ctx, req)
	}
}

// logOutcome records how each command ended and how long it took.
func logOutcome(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) error {
		began := time.Now()
		err := next(ctx, req)
		took := time.Since(began)
		fields := []logx.Field{logx.Int("args", len(req.Args)), logx.Duration("dur", took)}
		switch {
		case err != nil:
			req.Logger.Warn("command failed", append(fields, logx.Err(err))...)
		case took >= slowCommand:
			req.Logger.Info("command handled", fields...)
		default:
			req.Logger.Debug("command handled", fields...)
		}
		return err
	}
}

// withTimeout bounds a command's context; d <= 0 leaves it unbounded.
func withTimeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, req *Request) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
