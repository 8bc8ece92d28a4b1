package workflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/lifecycle"
	"github.com/khrees2412/hireflow/pkg/models"
)

// ApplyCommand submits a candidate to a job
type ApplyCommand struct {
	JobID              string
	CandidateID        string
	CandidateName      string
	ExperienceYears    int
	Skills             []string
	RelevantExperience string
	Education          string
	Projects           string
}

// ShortlistCommand moves a scored candidacy forward
type ShortlistCommand struct {
	CandidacyID string
}

// RejectCommand ends a candidacy. Reason is optional.
type RejectCommand struct {
	CandidacyID string
	Reason      string
}

// Apply creates a candidacy in applied and scores it
func (s *Service) Apply(ctx context.Context, cmd ApplyCommand) (*Result, error) {
	candidacy := &models.Candidacy{
		ID:                 uuid.NewString(),
		JobID:              strings.TrimSpace(cmd.JobID),
		CandidateID:        strings.TrimSpace(cmd.CandidateID),
		CandidateName:      strings.TrimSpace(cmd.CandidateName),
		ExperienceYears:    cmd.ExperienceYears,
		Skills:             cleanList(cmd.Skills),
		RelevantExperience: strings.TrimSpace(cmd.RelevantExperience),
		Education:          strings.TrimSpace(cmd.Education),
		Projects:           strings.TrimSpace(cmd.Projects),
		Status:             models.StatusApplied,
	}
	if err := validateApplication(candidacy); err != nil {
		return nil, err
	}

	// The oracle can be slow, so score before taking the write lock.
	var job *models.JobPosting
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		job, err = tx.GetJob(ctx, candidacy.JobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !job.AcceptsApplications(s.now()) {
		return nil, apperr.Validation("job %s is not accepting applications", job.ID)
	}
	score := s.scorer.Score(ctx, job, candidacy)

	return s.update(ctx, "apply", func(ctx context.Context, tx Tx, res *Result) error {
		job, err := tx.GetJob(ctx, candidacy.JobID)
		if err != nil {
			return err
		}
		now := s.now()
		if !job.AcceptsApplications(now) {
			return apperr.Validation("job %s is not accepting applications", job.ID)
		}

		c := *candidacy
		c.AppliedAt = now
		c.UpdatedAt = now
		if err := s.machine.AssignScore(&c, score); err != nil {
			return err
		}
		if err := tx.CreateCandidacy(ctx, &c); err != nil {
			return err
		}
		res.Job = job
		res.Candidacy = &c
		return nil
	})
}

// ScoreCandidacy recomputes and stores the score of an applied candidacy
func (s *Service) ScoreCandidacy(ctx context.Context, candidacyID string) (*Result, error) {
	var (
		job       *models.JobPosting
		candidacy *models.Candidacy
	)
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		candidacy, job, err = s.loadCandidacy(ctx, tx, candidacyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.machine.Check(candidacy, lifecycle.TriggerScore); err != nil {
		return nil, err
	}
	score := s.scorer.Score(ctx, job, candidacy)

	return s.update(ctx, "score", func(ctx context.Context, tx Tx, res *Result) error {
		c, err := tx.GetCandidacy(ctx, candidacyID)
		if err != nil {
			return err
		}
		if err := s.machine.AssignScore(c, score); err != nil {
			return err
		}
		s.log.Debug("score assigned", zap.String("candidacy_id", c.ID), zap.Int("score", score))
		res.Candidacy = c
		return tx.UpdateCandidacy(ctx, c)
	})
}

func (s *Service) Shortlist(ctx context.Context, cmd ShortlistCommand) (*Result, error) {
	return s.update(ctx, "shortlist", func(ctx context.Context, tx Tx, res *Result) error {
		c, job, err := s.loadCandidacy(ctx, tx, cmd.CandidacyID)
		if err != nil {
			return err
		}
		notifications, err := s.machine.Shortlist(c, job)
		if err != nil {
			return err
		}
		res.Candidacy = c
		res.Notifications = notifications
		return tx.UpdateCandidacy(ctx, c)
	})
}

func (s *Service) Reject(ctx context.Context, cmd RejectCommand) (*Result, error) {
	return s.update(ctx, "reject", func(ctx context.Context, tx Tx, res *Result) error {
		c, job, err := s.loadCandidacy(ctx, tx, cmd.CandidacyID)
		if err != nil {
			return err
		}
		notifications, err := s.machine.Reject(c, job, cmd.Reason)
		if err != nil {
			return err
		}
		res.Candidacy = c
		res.Notifications = notifications
		return tx.UpdateCandidacy(ctx, c)
	})
}

func validateApplication(c *models.Candidacy) error {
	if c.JobID == "" {
		return apperr.Validation("job is required")
	}
	if c.CandidateID == "" {
		return apperr.Validation("candidate is required")
	}
	if c.CandidateName == "" {
		return apperr.Validation("candidate name is required")
	}
	if c.ExperienceYears < 0 {
		return apperr.Validation("experience years must not be negative, got %d", c.ExperienceYears)
	}
	if len(c.Skills) == 0 {
		return apperr.Validation("at least one skill is required")
	}
	return nil
}
