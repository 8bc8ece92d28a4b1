package workflow

import (
	"context"

	"github.com/khrees2412/hireflow/pkg/models"
)

// Stats counts the candidacies of a job per status
type Stats struct {
	JobID     string                `json:"job_id" yaml:"job_id"`
	Vacancies int                   `json:"vacancies" yaml:"vacancies"`
	Total     int                   `json:"total" yaml:"total"`
	ByStatus  map[models.Status]int `json:"by_status" yaml:"by_status"`
}

func (s *Service) GetCandidacy(ctx context.Context, id string) (*models.Candidacy, error) {
	var c *models.Candidacy
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		c, err = tx.GetCandidacy(ctx, id)
		return err
	})
	return c, err
}

func (s *Service) ListCandidacies(ctx context.Context, jobID string) ([]*models.Candidacy, error) {
	var out []*models.Candidacy
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.GetJob(ctx, jobID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListCandidaciesByJob(ctx, jobID)
		return err
	})
	return out, err
}

func (s *Service) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var iv *models.Interview
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		iv, err = tx.GetInterview(ctx, id)
		return err
	})
	return iv, err
}

// ListInterviews returns a candidacy's interviews, earliest first, superseded ones included
func (s *Service) ListInterviews(ctx context.Context, candidacyID string) ([]*models.Interview, error) {
	var out []*models.Interview
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.GetCandidacy(ctx, candidacyID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListInterviewsByCandidacy(ctx, candidacyID)
		return err
	})
	models.SortInterviews(out)
	return out, err
}

func (s *Service) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	var out []*models.Notification
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		out, err = tx.ListNotifications(ctx, recipientID, unreadOnly)
		return err
	})
	return out, err
}

func (s *Service) MarkNotificationRead(ctx context.Context, id, recipientID string) error {
	_, err := s.update(ctx, "mark_notification_read", func(ctx context.Context, tx Tx, _ *Result) error {
		return tx.MarkNotificationRead(ctx, id, recipientID)
	})
	return err
}

// PipelineStats summarizes where a job's candidacies are in the pipeline
func (s *Service) PipelineStats(ctx context.Context, jobID string) (*Stats, error) {
	stats := &Stats{JobID: jobID, ByStatus: map[models.Status]int{}}
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		job, err := tx.GetJob(ctx, jobID)
		if err != nil {
			return err
		}
		counts, err := tx.CountCandidaciesByStatus(ctx, jobID)
		if err != nil {
			return err
		}
		stats.Vacancies = job.Vacancies
		for _, status := range models.AllStatuses {
			stats.ByStatus[status] = counts[status]
			stats.Total += counts[status]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// InterviewQuestions drafts questions for a candidacy's interviews
func (s *Service) InterviewQuestions(ctx context.Context, candidacyID string) ([]string, error) {
	var (
		job *models.JobPosting
		c   *models.Candidacy
	)
	err := s.view(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		c, job, err = s.loadCandidacy(ctx, tx, candidacyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.questions.Questions(ctx, job, c), nil
}
