// Package invariant provides contract assertions for the grammar-to-FST
// compiler and fuzzy decoder.
//
// This package implements Tiger Style safety principles: assertions are a
// force multiplier for discovering bugs. Use Precondition/Postcondition to
// express function contracts, and Invariant for internal consistency
// checks.
//
// All functions panic on violation - these are programming errors, not user
// errors. core/fst uses Precondition to reject malformed arc labels and
// unallocated states; core/compile uses it to reject expression/slot-list
// node kinds with no compilation case; core/passes uses Postcondition to
// confirm a pass actually established the shape it promises.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Use this to validate function arguments and caller expectations.
//
// Example:
//
//	func (f *FST) AddArc(from, to int, in, out string, weight *float64) {
//	    invariant.Precondition(f.HasState(from), "fst: from-state %d not allocated", from)
//	    // ... work ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
// Panics with POSTCONDITION VIOLATION if condition is false.
//
// Use this to validate function results and guarantees to caller.
//
// Example:
//
//	func RemoveSpaces(f *FST) *FST {
//	    out := removeSpaces(f)
//	    invariant.Postcondition(!out.hasSpaceArcs(), "passes: output must carry no <space> arcs")
//	    return out
//	}
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Use this for loop progress checks, state consistency, and internal logic.
//
// Example:
//
//	prevState := cur
//	for _, w := range words {
//	    cur = f.NextEdge(cur, w, fst.Eps, nil)
//	    invariant.Invariant(cur != prevState, "compile: state must advance")
//	    prevState = cur
//	}
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// fail panics with a formatted message including call stack context.
func fail(kind, format string, args ...interface{}) {
	// Capture call stack (skip fail() and wrapper function)
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	// Build violation message
	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	// Add first frame for context (file:line where violation occurred)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
