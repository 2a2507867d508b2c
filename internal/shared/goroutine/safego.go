// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/carelog-health/carelog/internal/shared/logger"
)

// SafeGo launches fn on a new goroutine with panic recovery. A panic is
// caught and logged with its stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Recovered(log, name, fn)
}

// Recovered invokes fn on the current goroutine with the same panic
// recovery as SafeGo. Long-running loops wrap each pass in it so a single
// bad iteration cannot take the loop down.
func Recovered(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
