package core

import (
	"sync"
	"testing"
)

// TestGoRecoversPanic verifies a panicking goroutine reaches the crash handler instead of killing the process
func TestGoRecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	code := -1
	exit = func(c int) {
		code = c
		wg.Done()
	}
	defer func() { exit = osExit }()

	Go(func() { panic("boom") })
	wg.Wait()

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

// TestHandleCrashNil verifies a nil recovery value is ignored
func TestHandleCrashNil(t *testing.T) {
	called := false
	exit = func(int) { called = true }
	defer func() { exit = osExit }()

	HandleCrash(nil)
	if called {
		t.Error("HandleCrash(nil) exited")
	}
}
