package generation

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a generation failure.
// Kinds are string-based so they read well in logs and survive transports unchanged.
type Kind string

const (
	// KindInvalidRequest is a user-correctable problem with one request field.
	KindInvalidRequest Kind = "INVALID_REQUEST"
	// KindIconDecode means the source icon could not be decoded as an image.
	KindIconDecode Kind = "ICON_DECODE_FAILED"
	// KindTemplateMissing means the template installation is incomplete or corrupted.
	KindTemplateMissing Kind = "TEMPLATE_MISSING"
	// KindPermissionPreservation means the runtime executable lost its exec bits.
	KindPermissionPreservation Kind = "PERMISSION_PRESERVATION_FAILED"
	// KindConfigWrite means the runtime configuration could not be written.
	KindConfigWrite Kind = "CONFIG_WRITE_FAILED"
	// KindIO covers disk full, permission denied and similar failures.
	KindIO Kind = "IO_FAILURE"
	// KindPathNotFound means a finalized bundle no longer exists.
	KindPathNotFound Kind = "PATH_NOT_FOUND"
	// KindLaunchFailed means the OS refused to open or launch a bundle.
	KindLaunchFailed Kind = "LAUNCH_FAILED"
	// KindCanceled means the run was canceled before the point of no return.
	KindCanceled Kind = "CANCELED"
)

// Sentinels for errors.Is checks against a Kind.
var (
	ErrInvalidRequest         = &Error{Kind: KindInvalidRequest}
	ErrIconDecode             = &Error{Kind: KindIconDecode}
	ErrTemplateMissing        = &Error{Kind: KindTemplateMissing}
	ErrPermissionPreservation = &Error{Kind: KindPermissionPreservation}
	ErrConfigWrite            = &Error{Kind: KindConfigWrite}
	ErrIO                     = &Error{Kind: KindIO}
	ErrPathNotFound           = &Error{Kind: KindPathNotFound}
	ErrLaunchFailed           = &Error{Kind: KindLaunchFailed}
	ErrCanceled               = &Error{Kind: KindCanceled}
)

// Error is the single typed failure returned by the pipeline and the shell actions.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op names the operation that failed, e.g. "assemble" or "finalize".
	Op string
	// Field is the offending request field for KindInvalidRequest.
	Field string
	// Reason is a human-readable explanation.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}

	b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " ")))

	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}

	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Op == "" && t.Field == "" && t.Reason == "" && t.Err == nil
}

// InvalidRequest builds a KindInvalidRequest error for a request field.
func InvalidRequest(field, reason string) *Error {
	return &Error{
		Kind:   KindInvalidRequest,
		Op:     "validate",
		Field:  field,
		Reason: reason,
	}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind Kind, op string, cause error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Err:  cause,
	}
}

// Wrapf builds an error of the given kind with a formatted reason.
func Wrapf(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
		Err:    cause,
	}
}

// KindOf returns the Kind of err, or "" when err is not a generation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
