// Package recovery wraps long-running goroutines (PTY I/O, the emulator
// loop, session teardown, Attach's receive loop) with panic recovery so a
// single bad frame or a library edge case cannot take down the whole
// process.
package recovery

import (
	"runtime/debug"

	"github.com/noirtty/noirtty-server/internal/logger"
)

// SafeGo runs fn in a goroutine. A panic inside fn is recovered and logged
// at error level with a stack trace instead of crashing the process.
func SafeGo(name string, fn func()) {
	go func() {
		defer recoverAndLog(name)
		fn()
	}()
}

// SafeGoWithCleanup runs fn in a goroutine, guaranteeing cleanup runs
// whether fn returns normally or panics.
func SafeGoWithCleanup(name string, fn func(), cleanup func()) {
	go func() {
		defer func() {
			if cleanup != nil {
				cleanup()
			}
		}()
		defer recoverAndLog(name)
		fn()
	}()
}

func recoverAndLog(name string) {
	if r := recover(); r != nil {
		logger.Errorf("panic recovered in goroutine %q: %v\n%s", name, r, debug.Stack())
	}
}
