package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestKindMatching(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		err       error
		sentinel  error
		kind      Kind
		retryable bool
	}{
		{
			name:     "not found",
			err:      NotFound("candidacy", "c-1"),
			sentinel: ErrNotFound,
			kind:     KindNotFound,
		},
		{
			name:     "validation wrapped",
			err:      fmt.Errorf("create job: %w", Validation("vacancies must not be negative")),
			sentinel: ErrValidation,
			kind:     KindValidation,
		},
		{
			name:     "invalid transition",
			err:      InvalidTransition("applied", "select", "status must be hr_passed"),
			sentinel: ErrInvalidTransition,
			kind:     KindInvalidTransition,
		},
		{
			name:     "conflict",
			err:      &ConflictError{CandidateName: "Ada", Start: start, End: start.Add(time.Hour)},
			sentinel: ErrSchedulingConflict,
			kind:     KindSchedulingConflict,
		},
		{
			name:      "infrastructure",
			err:       Infrastructure("store timeout", context.DeadlineExceeded),
			sentinel:  ErrInfrastructure,
			kind:      KindInfrastructure,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if got := KindOf(tt.err); got != tt.kind {
				t.Fatalf("KindOf = %q, want %q", got, tt.kind)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Fatalf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestInfrastructureUnwrapsCause(t *testing.T) {
	err := Infrastructure("begin transaction", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be reachable, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("infrastructure error must not match not found")
	}
}

func TestConflictMessageNamesWindow(t *testing.T) {
	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)
	err := &ConflictError{RecruiterID: "r-1", CandidateName: "Ada", Start: start, End: start.Add(time.Hour)}

	want := "scheduling conflict: recruiter r-1 already interviews Ada from 2025-01-10 14:00 to 15:00"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
