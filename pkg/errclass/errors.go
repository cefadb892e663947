// Package errclass defines the stable error classes returned by the resource
// container library. Callers branch on the class with errors.Is rather than
// on message text.
package errclass

import "fmt"

// RCError is a stable, machine-readable error class.
type RCError struct {
	Code    string
	Message string
	Err     error
}

func (e *RCError) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RCError) Is(target error) bool {
	t, ok := target.(*RCError)
	return ok && e.Code == t.Code
}

func (e *RCError) Unwrap() error {
	return e.Err
}

// WithMessage returns a new RCError with the same Code but a specific message.
func (e *RCError) WithMessage(msg string) *RCError {
	return &RCError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new RCError with a formatted message.
func (e *RCError) WithMessagef(format string, args ...any) *RCError {
	return &RCError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new RCError of the same class carrying err as its cause.
func (e *RCError) Wrap(err error, format string, args ...any) *RCError {
	return &RCError{Code: e.Code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Error classes.
var (
	ErrMissingManifest   = &RCError{Code: "E_MISSING_MANIFEST"}
	ErrManifestInvalid   = &RCError{Code: "E_MANIFEST_INVALID"}
	ErrOutdatedFormat    = &RCError{Code: "E_OUTDATED_FORMAT"}
	ErrUnsupportedFormat = &RCError{Code: "E_UNSUPPORTED_FORMAT"}
	ErrMultipleProjects  = &RCError{Code: "E_MULTIPLE_PROJECTS"}
	ErrNotFound          = &RCError{Code: "E_NOT_FOUND"}
	ErrIO                = &RCError{Code: "E_IO"}
	ErrClosed            = &RCError{Code: "E_CLOSED"}
	ErrPathEscape        = &RCError{Code: "E_PATH_ESCAPE"}
	ErrNameInvalid       = &RCError{Code: "E_NAME_INVALID"}
)

// VersionError reports a conformsto version the library cannot open.
// Class is ErrOutdatedFormat or ErrUnsupportedFormat.
type VersionError struct {
	Class    *RCError
	Found    string
	Expected string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: found %s but expected %s", e.Class.Code, e.Found, e.Expected)
}

func (e *VersionError) Unwrap() error {
	return e.Class
}
