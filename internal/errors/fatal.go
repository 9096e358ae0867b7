package errors

import (
	"fmt"
	"os"
)

// Bug reports a violated internal invariant and aborts the process. This is
// spec §7's "Fatal" tier: it is reserved for conditions that indicate a
// compiler defect (e.g. a malformed IR graph), never for user-writable
// input — those are Semantic errors reported through ErrorReporter instead.
// Mirrors the original's print_error_and_abort/ENSURE family.
func Bug(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "internal compiler error: %s\n", fmt.Sprintf(format, args...))
	panic(fmt.Sprintf(format, args...))
}

// Assert panics with Bug semantics if cond is false.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		Bug(format, args...)
	}
}
