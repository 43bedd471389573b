// Package invariant reports violated internal invariants.
//
// A violated invariant is a programming error, never a consequence of user
// input: bad input is reported through ordinary error returns. By default a
// violation is logged at fatal level, which terminates the process. Tests
// substitute a handler that records the violation instead:
//
//	restore := invariant.SetHandler(func(v invariant.Violation) { got = append(got, v) })
//	defer restore()
//
// Code that calls [Fail] must still return sensibly when a substituted
// handler returns.
package invariant

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
)

// Violation describes a failed check.
type Violation struct {
	Location string // file:line of the caller of Check or Fail
	Message  string
}

// String formats the violation as "location: message".
func (v Violation) String() string { return v.Location + ": " + v.Message }

// Handler receives violations.
type Handler func(Violation)

// Fatal is the default handler. It logs the violation at fatal level, which
// exits the process with status 1.
func Fatal(v Violation) {
	log.Fatal(v.Message, "location", v.Location)
}

var (
	handler Handler = Fatal
	mu      sync.RWMutex
)

// SetHandler installs h and returns a function restoring the previous
// handler. A nil h is ignored.
func SetHandler(h Handler) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := handler
	if h != nil {
		handler = h
	}
	return func() {
		mu.Lock()
		defer mu.Unlock()
		handler = prev
	}
}

// Check reports a violation if cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		report(fmt.Sprintf(format, args...))
	}
}

// Fail unconditionally reports a violation.
func Fail(format string, args ...any) {
	report(fmt.Sprintf(format, args...))
}

func report(msg string) {
	loc := "unknown"
	// Skip report and Check/Fail.
	if _, file, line, ok := runtime.Caller(2); ok {
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	mu.RLock()
	h := handler
	mu.RUnlock()
	h(Violation{Location: loc, Message: msg})
}
