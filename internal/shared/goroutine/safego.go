// Package goroutine runs background work that must not take the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine. A panic is logged with its stack under
// the task name instead of crashing the server. The returned channel is
// closed once fn has returned or panicked.
func SafeGo(log logger.Interface, name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("background task panicked",
					"task", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
	return done
}
