package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/pkg/models"
)

// MaxDurationMinutes caps a single interview at one day
const MaxDurationMinutes = 24 * 60

// InterviewLister returns every interview created by a recruiter
type InterviewLister interface {
	ListInterviewsByRecruiter(ctx context.Context, recruiterID string) ([]*models.Interview, error)
}

// Slot is a proposed interview window on a recruiter's calendar
type Slot struct {
	RecruiterID     string
	StartsAt        time.Time
	DurationMinutes int
	// IgnoreID excludes an interview from the scan, used when it is being superseded.
	IgnoreID string
}

// End returns the exclusive end of the slot
func (s Slot) End() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two half-open intervals [aStart,aEnd) and [bStart,bEnd) intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the earliest-starting interview that overlaps the slot, or nil.
// Superseded interviews no longer hold their window.
func FindConflict(existing []*models.Interview, slot Slot) *models.Interview {
	sorted := make([]*models.Interview, 0, len(existing))
	for _, iv := range existing {
		if iv == nil || iv.SupersededAt != nil || (slot.IgnoreID != "" && iv.ID == slot.IgnoreID) {
			continue
		}
		sorted = append(sorted, iv)
	}
	models.SortInterviews(sorted)

	end := slot.End()
	for _, iv := range sorted {
		if Overlaps(slot.StartsAt, end, iv.StartsAt, iv.End()) {
			return iv
		}
	}
	return nil
}

// Checker tests proposed slots against a recruiter's bookings.
// Callers must run Check and the subsequent insert in the same transaction.
type Checker struct {
	repo InterviewLister
	log  *zap.Logger
}

func NewChecker(repo InterviewLister, log *zap.Logger) *Checker {
	return &Checker{repo: repo, log: logger.OrNop(log)}
}

// Check returns a *apperr.ConflictError when the slot overlaps an existing interview
func (c *Checker) Check(ctx context.Context, slot Slot) error {
	if err := Validate(slot); err != nil {
		return err
	}

	existing, err := c.repo.ListInterviewsByRecruiter(ctx, slot.RecruiterID)
	if err != nil {
		return fmt.Errorf("list interviews for recruiter %s: %w", slot.RecruiterID, err)
	}

	conflict := FindConflict(existing, slot)
	if conflict == nil {
		return nil
	}

	c.log.Info("scheduling conflict",
		zap.String("recruiter_id", slot.RecruiterID),
		zap.Time("proposed_start", slot.StartsAt),
		zap.Int("proposed_minutes", slot.DurationMinutes),
		zap.String("conflicting_interview_id", conflict.ID),
	)

	return &apperr.ConflictError{
		RecruiterID:   slot.RecruiterID,
		InterviewID:   conflict.ID,
		CandidateName: conflict.CandidateName,
		Start:         conflict.StartsAt,
		End:           conflict.End(),
	}
}

// Validate rejects malformed slots
func Validate(slot Slot) error {
	if slot.RecruiterID == "" {
		return apperr.Validation("recruiter is required")
	}
	if slot.StartsAt.IsZero() {
		return apperr.Validation("interview start time is required")
	}
	if slot.DurationMinutes <= 0 {
		return apperr.Validation("interview duration must be positive, got %d minutes", slot.DurationMinutes)
	}
	if slot.DurationMinutes > MaxDurationMinutes {
		return apperr.Validation("interview duration must be at most %d minutes, got %d", MaxDurationMinutes, slot.DurationMinutes)
	}
	return nil
}
