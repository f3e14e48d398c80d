// Package core holds the process-wide panic handling shared by every goroutine of the simulator
package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

var osExit = os.Exit

var (
	mu     sync.Mutex
	screen tcell.Screen
	exit   = osExit
)

// RegisterScreen lets the crash handler restore the terminal, nil unregisters it
func RegisterScreen(s tcell.Screen) {
	mu.Lock()
	screen = s
	mu.Unlock()
}

// HandleCrash restores the terminal, logs the panic with its stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	mu.Lock()
	s := screen
	screen = nil
	mu.Unlock()
	if s != nil {
		s.Fini()
	}

	stack := debug.Stack()
	log.Error().Str("panic", fmt.Sprint(r)).Bytes("stack", stack).Msg("crash")
	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\nStack Trace:\n%s\n", r, stack)
	_ = os.Stderr.Sync()

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the go keyword so a crash restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
