package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/lifecycle"
	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/internal/scheduling"
	"github.com/khrees2412/hireflow/pkg/models"
)

// ScheduleCommand books an interview slot for a candidacy on a recruiter's calendar
type ScheduleCommand struct {
	CandidacyID     string
	RecruiterID     string
	Kind            models.InterviewKind
	StartsAt        time.Time
	DurationMinutes int
	Platform        string
	Link            string
}

// RecordResultCommand records the outcome of the pending interview of a kind
type RecordResultCommand struct {
	CandidacyID string
	Kind        models.InterviewKind
	Passed      bool
	Feedback    string
}

// Schedule books the first interview of a kind
func (s *Service) Schedule(ctx context.Context, cmd ScheduleCommand) (*Result, error) {
	return s.schedule(ctx, cmd, false)
}

// Reschedule replaces the pending interview of a kind with a new slot
func (s *Service) Reschedule(ctx context.Context, cmd ScheduleCommand) (*Result, error) {
	return s.schedule(ctx, cmd, true)
}

func (s *Service) schedule(ctx context.Context, cmd ScheduleCommand, reschedule bool) (*Result, error) {
	trigger, err := lifecycle.ScheduleTrigger(cmd.Kind, reschedule)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := s.validateSlot(cmd); err != nil {
		return nil, err
	}

	return s.update(ctx, string(trigger), func(ctx context.Context, tx Tx, res *Result) error {
		c, job, err := s.loadCandidacy(ctx, tx, cmd.CandidacyID)
		if err != nil {
			return err
		}
		if !containsString(job.Recruiters(), cmd.RecruiterID) {
			return apperr.Validation("recruiter %s is not on the hiring team of job %s", cmd.RecruiterID, job.ID)
		}
		if err := s.machine.Check(c, trigger); err != nil {
			return err
		}

		existing, err := tx.ListInterviewsByCandidacy(ctx, c.ID)
		if err != nil {
			return err
		}
		pending := pendingOfKind(existing, cmd.Kind)
		if !reschedule && pending != nil {
			return apperr.InvalidTransition(string(c.Status), string(trigger),
				fmt.Sprintf("a %s interview is already pending, reschedule it instead", cmd.Kind))
		}

		slot := scheduling.Slot{
			RecruiterID:     cmd.RecruiterID,
			StartsAt:        cmd.StartsAt,
			DurationMinutes: cmd.DurationMinutes,
		}
		if pending != nil {
			slot.IgnoreID = pending.ID
		}
		if err := scheduling.NewChecker(tx, s.log).Check(ctx, slot); err != nil {
			return err
		}

		req := lifecycle.InterviewRequest{
			Kind:            cmd.Kind,
			RecruiterID:     cmd.RecruiterID,
			StartsAt:        cmd.StartsAt,
			DurationMinutes: cmd.DurationMinutes,
			Platform:        strings.TrimSpace(cmd.Platform),
			Link:            strings.TrimSpace(cmd.Link),
		}

		var (
			iv            *models.Interview
			notifications []*models.Notification
		)
		if reschedule {
			iv, notifications, err = s.machine.Reschedule(c, job, pending, req)
			if err != nil {
				return err
			}
			if err := tx.UpdateInterview(ctx, pending); err != nil {
				return err
			}
		} else {
			iv, notifications, err = s.machine.Schedule(c, job, req)
			if err != nil {
				return err
			}
		}

		if err := tx.CreateInterview(ctx, iv); err != nil {
			return err
		}
		if err := tx.UpdateCandidacy(ctx, c); err != nil {
			return err
		}
		s.log.Debug("interview booked", logger.InterviewFields(iv)...)

		res.Candidacy = c
		res.Interview = iv
		res.Notifications = notifications
		return nil
	})
}

// RecordResult stores the outcome of the pending interview of the given kind
func (s *Service) RecordResult(ctx context.Context, cmd RecordResultCommand) (*Result, error) {
	if !cmd.Kind.IsValid() {
		return nil, apperr.Validation("unknown interview kind %q", cmd.Kind)
	}

	return s.update(ctx, "record_result", func(ctx context.Context, tx Tx, res *Result) error {
		c, job, err := s.loadCandidacy(ctx, tx, cmd.CandidacyID)
		if err != nil {
			return err
		}
		existing, err := tx.ListInterviewsByCandidacy(ctx, c.ID)
		if err != nil {
			return err
		}
		iv := pendingOfKind(existing, cmd.Kind)
		if iv == nil {
			trigger, _ := lifecycle.ResultTrigger(cmd.Kind, cmd.Passed)
			return apperr.InvalidTransition(string(c.Status), string(trigger),
				fmt.Sprintf("no pending %s interview", cmd.Kind))
		}

		notifications, err := s.machine.RecordResult(c, job, iv, cmd.Passed, cmd.Feedback)
		if err != nil {
			return err
		}
		if err := tx.UpdateInterview(ctx, iv); err != nil {
			return err
		}
		if err := tx.UpdateCandidacy(ctx, c); err != nil {
			return err
		}
		s.log.Debug("interview result recorded",
			zap.String("interview_id", iv.ID),
			zap.String("result", string(iv.Result)))

		res.Candidacy = c
		res.Interview = iv
		res.Notifications = notifications
		return nil
	})
}

func (s *Service) validateSlot(cmd ScheduleCommand) error {
	if err := scheduling.Validate(scheduling.Slot{
		RecruiterID:     cmd.RecruiterID,
		StartsAt:        cmd.StartsAt,
		DurationMinutes: cmd.DurationMinutes,
	}); err != nil {
		return err
	}
	if cmd.StartsAt.Before(s.now()) {
		return apperr.Validation("interview start %s is in the past", cmd.StartsAt.Format(time.RFC3339))
	}
	return nil
}

func pendingOfKind(interviews []*models.Interview, kind models.InterviewKind) *models.Interview {
	for _, iv := range interviews {
		if iv.Kind == kind && iv.IsPending() {
			return iv
		}
	}
	return nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
