// Package core defines the error taxonomy shared by every layer of the
// session + tool-dispatch engine.
package core

import "fmt"

// Kind is a stable, transport-independent error classification. Adapters
// map Kind to HTTP status codes or CLI exit codes; the core never
// downgrades a policy failure (PathEscape, ForbiddenHost, ConfigMissing)
// to a generic error.
type Kind string

const (
	KindSessionNotFound Kind = "session_not_found"
	KindUnknownTool     Kind = "unknown_tool"
	KindBadArgs         Kind = "bad_args"
	KindConfigMissing   Kind = "config_missing"
	KindPathEscape      Kind = "path_escape"
	KindForbiddenHost   Kind = "forbidden_host"
	KindNotFound        Kind = "not_found"
	KindUpstreamFailure Kind = "upstream_failure"
	KindStorageFailure  Kind = "storage_failure"
)

// Error is the error type returned by every core operation. It is never
// silently downgraded: callers that need to distinguish failure modes
// should use errors.As to recover the Kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, core.New(core.KindNotFound, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
