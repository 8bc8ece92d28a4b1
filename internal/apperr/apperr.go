package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for callers
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidTransition  Kind = "invalid_transition"
	KindSchedulingConflict Kind = "scheduling_conflict"
	KindValidation         Kind = "validation"
	KindInfrastructure     Kind = "infrastructure"
)

// Error is the typed error returned across package boundaries
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition}
	ErrSchedulingConflict = &Error{Kind: KindSchedulingConflict}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInfrastructure     = &Error{Kind: KindInfrastructure}
)

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NotFound(entity, id string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s %s not found", entity, id), nil)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func Infrastructure(message string, cause error) *Error {
	return New(KindInfrastructure, message, cause)
}

// KindOf returns the kind of the first *Error in the chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var t *TransitionError
	if errors.As(err, &t) {
		return KindInvalidTransition
	}
	var c *ConflictError
	if errors.As(err, &c) {
		return KindSchedulingConflict
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether the caller may retry the operation unchanged.
// Only infrastructure failures qualify.
func IsRetryable(err error) bool {
	return IsKind(err, KindInfrastructure)
}

// TransitionError reports a trigger whose precondition did not hold
type TransitionError struct {
	From    string
	Trigger string
	Reason  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s from %s: %s", e.Trigger, e.From, e.Reason)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func InvalidTransition(from, trigger, reason string) *TransitionError {
	return &TransitionError{From: from, Trigger: trigger, Reason: reason}
}

// ConflictError reports a recruiter double booking
type ConflictError struct {
	RecruiterID   string
	InterviewID   string
	CandidateName string
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: recruiter %s already interviews %s from %s to %s",
		e.RecruiterID, e.CandidateName, e.Start.Format("2006-01-02 15:04"), e.End.Format("15:04"))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSchedulingConflict
}
