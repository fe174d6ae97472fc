// Package nmerror defines the engine's error taxonomy.
//
// Every error the core returns carries a Kind so callers (the CLI
// exit-code mapper, the apply orchestrator's retry loop) can switch on
// it without parsing strings. The taxonomy mirrors the one real
// nmstate uses: schema/invariant violations, unsupported-but-valid
// combinations, missing references, verification mismatches, checkpoint
// conflicts, retryable transport failures, policy parse/eval errors,
// and internal bugs.
package nmerror

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindInvalidArgument: schema violation, invariant breach, duplicate,
	// cross-field incompatibility. Never retryable.
	KindInvalidArgument Kind = iota
	// KindNotSupported: valid but unimplemented combination.
	KindNotSupported
	// KindNotFound: referenced interface/profile/checkpoint missing.
	KindNotFound
	// KindVerificationError: post-apply state diverges from desired.
	KindVerificationError
	// KindKernelIntegerRounded: a VerificationError within documented
	// kernel-rounding tolerance; auto-recovered by the orchestrator.
	KindKernelIntegerRounded
	// KindCheckpointConflict: another apply is in flight.
	KindCheckpointConflict
	// KindRetryable: transient backend/transport failure; feeds the
	// apply orchestrator's retry loop.
	KindRetryable
	// KindPolicyError: capture/template parse or evaluation failure.
	KindPolicyError
	// KindUserCancelled: apply aborted by signal/cancellation.
	KindUserCancelled
	// KindBug: an internal invariant was violated.
	KindBug
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotSupported:
		return "NotSupported"
	case KindNotFound:
		return "NotFound"
	case KindVerificationError:
		return "VerificationError"
	case KindKernelIntegerRounded:
		return "KernelIntegerRoundedError"
	case KindCheckpointConflict:
		return "CheckpointConflict"
	case KindRetryable:
		return "Retryable"
	case KindPolicyError:
		return "PolicyError"
	case KindUserCancelled:
		return "UserCancelled"
	case KindBug:
		return "Bug"
	default:
		return "Unknown"
	}
}

// Error is the engine's concrete error type.
type Error struct {
	Kind Kind
	// Msg is the human-readable message.
	Msg string
	// Pointer identifies the offending entity, e.g. "eth0 (Ethernet)"
	// or a property path like "interfaces[2].bond.mode".
	Pointer string
	// Line and Char locate a PolicyError in its source text.
	Line int
	Char int
	// Wrapped is the underlying cause, if any.
	Wrapped error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindPolicyError && (e.Line != 0 || e.Char != 0):
		return fmt.Sprintf("%s: %s (line %d, char %d)", e.Kind, e.Msg, e.Line, e.Char)
	case e.Pointer != "":
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Pointer)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }

// CanRetry reports whether the orchestrator's retry loop should act
// on this error.
func (e *Error) CanRetry() bool {
	return e.Kind == KindRetryable
}

// New builds a plain Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a plain Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithPointer returns a copy of e with Pointer set.
func (e *Error) WithPointer(pointer string) *Error {
	c := *e
	c.Pointer = pointer
	return &c
}

// InvalidArgument builds a KindInvalidArgument error pointing at entity.
func InvalidArgument(entity, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...), Pointer: entity}
}

// NotSupported builds a KindNotSupported error.
func NotSupported(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotSupported, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Verification builds a KindVerificationError pointing at a property path.
func Verification(path string, want, got interface{}) *Error {
	return &Error{
		Kind:    KindVerificationError,
		Msg:     fmt.Sprintf("want %v, got %v", want, got),
		Pointer: path,
	}
}

// KernelRounded builds a KindKernelIntegerRounded error for a tolerated
// rounding mismatch.
func KernelRounded(path string, want, got interface{}) *Error {
	return &Error{
		Kind:    KindKernelIntegerRounded,
		Msg:     fmt.Sprintf("want %v, got %v (within kernel rounding tolerance)", want, got),
		Pointer: path,
	}
}

// Retryable builds a KindRetryable error wrapping cause.
func Retryable(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindRetryable, Msg: fmt.Sprintf(format, args...), Wrapped: cause}
}

// CheckpointConflict builds a KindCheckpointConflict error.
func CheckpointConflict(token string) *Error {
	return &Error{Kind: KindCheckpointConflict, Msg: "checkpoint already in flight", Pointer: token}
}

// Policy builds a KindPolicyError with a source position.
func Policy(line, char int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPolicyError, Msg: fmt.Sprintf(format, args...), Line: line, Char: char}
}

// Bug builds a KindBug error for an internal invariant violation.
func Bug(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBug, Msg: fmt.Sprintf(format, args...)}
}

// UserCancelled builds a KindUserCancelled error.
func UserCancelled() *Error {
	return &Error{Kind: KindUserCancelled, Msg: "apply cancelled by user"}
}

// KindOf extracts the Kind from err, defaulting to KindBug when err is
// not one of ours (an invariant we never expect to hit in practice).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBug
}

// ExitCode maps a Kind to the exit-code vocabulary the CLI front-end
// uses; kept here since it's a pure
// function of Kind and cmd/nmstatectl needs it.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindInvalidArgument, KindNotSupported, KindPolicyError:
		return 64 // EX_USAGE
	case KindRetryable:
		return 75 // EX_TEMPFAIL
	case KindCheckpointConflict, KindNotFound:
		return 77 // EX_NOPERM (backend refused)
	default:
		return 70 // EX_SOFTWARE
	}
}
