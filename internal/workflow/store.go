package workflow

import (
	"context"

	"github.com/khrees2412/hireflow/pkg/models"
)

// JobRepository persists job postings
type JobRepository interface {
	CreateJob(ctx context.Context, job *models.JobPosting) error
	GetJob(ctx context.Context, id string) (*models.JobPosting, error)
	UpdateJob(ctx context.Context, job *models.JobPosting) error
	ListJobs(ctx context.Context, includeClosed bool) ([]*models.JobPosting, error)
}

// CandidacyRepository persists candidacies. CreateCandidacy must refuse a second candidacy
// for the same (job, candidate) pair with a validation error.
type CandidacyRepository interface {
	CreateCandidacy(ctx context.Context, c *models.Candidacy) error
	GetCandidacy(ctx context.Context, id string) (*models.Candidacy, error)
	UpdateCandidacy(ctx context.Context, c *models.Candidacy) error
	ListCandidaciesByJob(ctx context.Context, jobID string) ([]*models.Candidacy, error)
	CountCandidaciesByStatus(ctx context.Context, jobID string) (map[models.Status]int, error)
}

// InterviewRepository persists interviews
type InterviewRepository interface {
	CreateInterview(ctx context.Context, iv *models.Interview) error
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	UpdateInterview(ctx context.Context, iv *models.Interview) error
	ListInterviewsByCandidacy(ctx context.Context, candidacyID string) ([]*models.Interview, error)
	ListInterviewsByRecruiter(ctx context.Context, recruiterID string) ([]*models.Interview, error)
}

// NotificationRepository appends notifications and serves recipients' inboxes
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, recipientID string) error
}

// Tx is the unit of work handed to a transaction callback
type Tx interface {
	JobRepository
	CandidacyRepository
	InterviewRepository
	NotificationRepository
}

// Store runs callbacks against the persistent store.
//
// WithinTx must hold an exclusive write lock from the first read to commit, so preconditions,
// conflict scans and writes are linearized. The callback's error rolls everything back.
// View runs read-only callbacks.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
