// Package errors defines the failure taxonomy shared by the notebook helpers.
//
// Three kinds of failure exist:
//   - LookupError: the current notebook could not be located (no server,
//     no matching session, ambiguous match, malformed kernel identity)
//   - IOError: a file could not be read, written or created
//   - FormatError: a notebook document failed to decode under nbformat v4
//
// None of them are recovered locally. Callers classify with errors.Is
// against the sentinels or errors.As against the typed errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers only need one errors import.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

var (
	ErrNoServers        = errors.New("no running notebook servers")
	ErrSessionNotFound  = errors.New("no session matches kernel")
	ErrAmbiguousSession = errors.New("multiple sessions match kernel")
	ErrKernelID         = errors.New("connection file does not encode a kernel id")
)

// LookupError reports a failed notebook path resolution.
type LookupError struct {
	KernelID   string
	Candidates []string
	Err        error
}

func (e *LookupError) Error() string {
	var b strings.Builder
	b.WriteString("lookup")
	if e.KernelID != "" {
		fmt.Fprintf(&b, " kernel %s", e.KernelID)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Candidates, ", "))
	}
	return b.String()
}

func (e *LookupError) Unwrap() error { return e.Err }

// NewLookupError wraps err as a lookup failure for kernelID.
func NewLookupError(kernelID string, err error, candidates ...string) *LookupError {
	return &LookupError{KernelID: kernelID, Candidates: candidates, Err: err}
}

// IOError reports a filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err with the operation and path that failed.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// FormatError reports a document that does not parse under the expected schema.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// NewFormatError creates a format failure. err may be nil.
func NewFormatError(path, reason string, err error) *FormatError {
	return &FormatError{Path: path, Reason: reason, Err: err}
}

// IsLookup reports whether err is a lookup failure.
func IsLookup(err error) bool {
	var e *LookupError
	return errors.As(err, &e)
}

// IsIO reports whether err is a filesystem failure.
func IsIO(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// IsFormat reports whether err is a document format failure.
func IsFormat(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}
