package raw

import (
	"errors"
	"strings"
)

var (
	// ErrFailed matches every *Error via errors.Is.
	ErrFailed = errors.New("spice: native call failed")

	// ErrNotLinked is returned by every routine when the package was built
	// without the cspice tag.
	ErrNotLinked = errors.New("spice: CSPICE is not linked (build with -tags cspice)")

	// ErrInteriorNUL is returned, before any native call, for a string
	// argument containing a NUL byte.
	ErrInteriorNUL = errors.New("spice: string argument contains NUL")
)

// Error is a failure signalled by the CSPICE error subsystem. It is the only
// failure kind produced by native calls.
type Error struct {
	Routine string // native routine, e.g. "furnsh_c"
	Short   string // short message, e.g. "SPICE(NOSUCHFILE)"
	Explain string // one-line explanation of Short
	Long    string // long message
	Trace   string // CSPICE traceback at the time of failure
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("spice: ")
	b.WriteString(e.Routine)
	if e.Short != "" {
		b.WriteString(": ")
		b.WriteString(e.Short)
	}
	if e.Long != "" {
		b.WriteString(": ")
		b.WriteString(e.Long)
	} else if e.Explain != "" {
		b.WriteString(": ")
		b.WriteString(e.Explain)
	}
	return b.String()
}

// Is reports ErrFailed as a match so callers do not need errors.As for the
// common "did the native layer fail" question.
func (e *Error) Is(target error) bool {
	return target == ErrFailed
}

// ShortCode returns the SPICE(...) short message carried by err, or "" when
// err is not a native failure.
func ShortCode(err error) string {
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Short
	}
	return ""
}

// NewError builds a native-kind failure for conditions the facade detects on
// behalf of the native layer (for example a kdata index past the loaded
// count, which CSPICE reports only through its found flag).
func NewError(routine, short, long string) *Error {
	return &Error{Routine: routine, Short: short, Long: long}
}
