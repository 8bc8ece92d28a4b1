package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

// CreateJobCommand opens a new posting
type CreateJobCommand struct {
	Title              string
	Description        string
	RecruiterID        string
	HiringTeam         []string
	ExperienceYears    int
	Skills             []string
	RelevantExperience string
	Location           string
	Vacancies          int
	Deadline           *time.Time
}

// UpdateJobCommand changes a posting. Nil fields are left untouched.
type UpdateJobCommand struct {
	JobID              string
	Title              *string
	Description        *string
	HiringTeam         []string
	ExperienceYears    *int
	Skills             []string
	RelevantExperience *string
	Location           *string
	Vacancies          *int
	Deadline           *time.Time
}

// CloseJobCommand withdraws a posting
type CloseJobCommand struct {
	JobID  string
	Reason string
}

func (s *Service) CreateJob(ctx context.Context, cmd CreateJobCommand) (*models.JobPosting, error) {
	now := s.now()
	job := &models.JobPosting{
		ID:                 uuid.NewString(),
		Title:              strings.TrimSpace(cmd.Title),
		Description:        strings.TrimSpace(cmd.Description),
		RecruiterID:        strings.TrimSpace(cmd.RecruiterID),
		HiringTeam:         cleanList(cmd.HiringTeam),
		ExperienceYears:    cmd.ExperienceYears,
		Skills:             cleanList(cmd.Skills),
		RelevantExperience: strings.TrimSpace(cmd.RelevantExperience),
		Location:           strings.TrimSpace(cmd.Location),
		Vacancies:          cmd.Vacancies,
		Deadline:           cmd.Deadline,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := validateJob(job, now, true); err != nil {
		return nil, err
	}

	res, err := s.update(ctx, "create_job", func(ctx context.Context, tx Tx, res *Result) error {
		res.Job = job
		return tx.CreateJob(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	return res.Job, nil
}

func (s *Service) UpdateJob(ctx context.Context, cmd UpdateJobCommand) (*models.JobPosting, error) {
	res, err := s.update(ctx, "update_job", func(ctx context.Context, tx Tx, res *Result) error {
		job, err := tx.GetJob(ctx, cmd.JobID)
		if err != nil {
			return err
		}
		if job.Closed {
			return apperr.InvalidTransition("closed", "update_job", "job is closed")
		}

		if cmd.Title != nil {
			job.Title = strings.TrimSpace(*cmd.Title)
		}
		if cmd.Description != nil {
			job.Description = strings.TrimSpace(*cmd.Description)
		}
		if cmd.HiringTeam != nil {
			job.HiringTeam = cleanList(cmd.HiringTeam)
		}
		if cmd.ExperienceYears != nil {
			job.ExperienceYears = *cmd.ExperienceYears
		}
		if cmd.Skills != nil {
			job.Skills = cleanList(cmd.Skills)
		}
		if cmd.RelevantExperience != nil {
			job.RelevantExperience = strings.TrimSpace(*cmd.RelevantExperience)
		}
		if cmd.Location != nil {
			job.Location = strings.TrimSpace(*cmd.Location)
		}
		if cmd.Vacancies != nil {
			job.Vacancies = *cmd.Vacancies
		}
		if cmd.Deadline != nil {
			job.Deadline = cmd.Deadline
		}

		now := s.now()
		if err := validateJob(job, now, cmd.Deadline != nil); err != nil {
			return err
		}
		job.UpdatedAt = now
		res.Job = job
		return tx.UpdateJob(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	return res.Job, nil
}

// CloseJob closes the posting and every open candidacy under it
func (s *Service) CloseJob(ctx context.Context, cmd CloseJobCommand) (*Result, error) {
	return s.update(ctx, "close_job", func(ctx context.Context, tx Tx, res *Result) error {
		job, err := tx.GetJob(ctx, cmd.JobID)
		if err != nil {
			return err
		}
		candidacies, err := tx.ListCandidaciesByJob(ctx, job.ID)
		if err != nil {
			return err
		}

		affected, notifications, err := s.machine.CloseJob(job, candidacies, cmd.Reason)
		if err != nil {
			return err
		}
		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}
		for _, c := range affected {
			if err := tx.UpdateCandidacy(ctx, c); err != nil {
				return err
			}
		}

		res.Job = job
		res.Candidacies = affected
		res.Notifications = notifications
		return nil
	})
}

func (s *Service) GetJob(ctx context.Context, id string) (*models.JobPosting, error) {
	var job *models.JobPosting
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		job, err = tx.GetJob(ctx, id)
		return err
	})
	return job, err
}

func (s *Service) ListJobs(ctx context.Context, includeClosed bool) ([]*models.JobPosting, error) {
	var jobs []*models.JobPosting
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		jobs, err = tx.ListJobs(ctx, includeClosed)
		return err
	})
	return jobs, err
}

func validateJob(job *models.JobPosting, now time.Time, checkDeadline bool) error {
	if job.Title == "" {
		return apperr.Validation("job title is required")
	}
	if job.RecruiterID == "" {
		return apperr.Validation("job recruiter is required")
	}
	if job.ExperienceYears < 0 {
		return apperr.Validation("experience years must not be negative, got %d", job.ExperienceYears)
	}
	if job.Vacancies < 0 {
		return apperr.Validation("vacancies must not be negative, got %d", job.Vacancies)
	}
	if len(job.Skills) == 0 {
		return apperr.Validation("at least one skill is required")
	}
	if checkDeadline && job.Deadline != nil && job.Deadline.Before(now) {
		return apperr.Validation("deadline %s is in the past", job.Deadline.Format(time.RFC3339))
	}
	return nil
}

// cleanList trims entries and drops blanks and duplicates, keeping order
func cleanList(items []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
