package goroutine

import (
	"context"
	"runtime/debug"

	"greenloop/pkg/logger"
)

// SafeGo runs fn in a goroutine and recovers panics so a failed background
// send can never take the process down.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in goroutine: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext is SafeGo for functions that take a context.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in goroutine: %v\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}
