package topograph

import (
	"fmt"

	"github.com/starkandwayne/goutils/ansi"
)

// ErrorKind enumerates the failure categories of spec.md §7. Every fallible
// elaborator operation returns (or wraps) one of these rather than an
// ad-hoc error string, so a caller can match on Kind without parsing text.
type ErrorKind string

const (
	ErrFileOpen ErrorKind = "file_open"
	ErrFileStat ErrorKind = "file_stat"
	ErrFileMap  ErrorKind = "file_map"
	ErrJSON     ErrorKind = "json"
	ErrToken    ErrorKind = "token"
	ErrAlloc    ErrorKind = "alloc"
	ErrEval     ErrorKind = "eval"
	ErrConn     ErrorKind = "conn"
	ErrNoModule ErrorKind = "no_module"
	ErrNoNetwork ErrorKind = "no_network"
	ErrBadGate  ErrorKind = "bad_gate"
	ErrLoop     ErrorKind = "loop"
	ErrRegex    ErrorKind = "regex"
	ErrRoot     ErrorKind = "root"
	ErrUnsupportedProduct ErrorKind = "unsupported_product"
)

// Error is the single error type the elaborator ever returns. It carries a
// Kind (from the table above), a short contextual tail describing where the
// failure happened, and an optional wrapped cause.
//
// Grounded on the teacher's GraftError{Type, Message, Path, Cause} in
// pkg/graft/errors.go.
type Error struct {
	Kind    ErrorKind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ColorError renders the error the way the CLI prints it: a single
// ansi-colored line naming the kind and the contextual tail, matching
// spec.md §6.3's "single line containing the error kind and contextual
// tail" requirement.
func ColorError(err error) string {
	if te, ok := err.(*Error); ok {
		if te.Context != "" {
			return ansi.Sprintf("@R{%s}: %s", te.Kind, te.Context)
		}
		return ansi.Sprintf("@R{%s}", te.Kind)
	}
	return ansi.Sprintf("@R{error}: %s", err.Error())
}

func newErr(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
}

func wrapErr(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	te, ok := err.(*Error)
	return ok && te.Kind == kind
}
