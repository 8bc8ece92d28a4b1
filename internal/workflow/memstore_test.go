package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

// memStore is an in-memory Store. Records are copied on the way in and out, and a failed
// transaction restores the maps it started from.
type memStore struct {
	mu sync.Mutex

	jobs          map[string]models.JobPosting
	candidacies   map[string]models.Candidacy
	interviews    map[string]models.Interview
	notifications map[string]models.Notification
	order         []string

	failNotifications error
}

func newMemStore() *memStore {
	return &memStore{
		jobs:          map[string]models.JobPosting{},
		candidacies:   map[string]models.Candidacy{},
		interviews:    map[string]models.Interview{},
		notifications: map[string]models.Notification{},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return apperr.Infrastructure("begin transaction", err)
	}

	snapshot := s.snapshot()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *memStore) View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &memTx{s: s})
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.jobs {
		cp.jobs[k] = v
	}
	for k, v := range s.candidacies {
		cp.candidacies[k] = v
	}
	for k, v := range s.interviews {
		cp.interviews[k] = v
	}
	for k, v := range s.notifications {
		cp.notifications[k] = v
	}
	cp.order = append([]string(nil), s.order...)
	return cp
}

func (s *memStore) restore(cp *memStore) {
	s.jobs = cp.jobs
	s.candidacies = cp.candidacies
	s.interviews = cp.interviews
	s.notifications = cp.notifications
	s.order = cp.order
}

// memTx runs with memStore.mu held
type memTx struct {
	s *memStore
}

func (t *memTx) CreateJob(_ context.Context, job *models.JobPosting) error {
	if _, ok := t.s.jobs[job.ID]; ok {
		return apperr.Validation("job %s already exists", job.ID)
	}
	t.s.jobs[job.ID] = *job
	t.s.order = append(t.s.order, job.ID)
	return nil
}

func (t *memTx) GetJob(_ context.Context, id string) (*models.JobPosting, error) {
	job, ok := t.s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job", id)
	}
	return &job, nil
}

func (t *memTx) UpdateJob(_ context.Context, job *models.JobPosting) error {
	if _, ok := t.s.jobs[job.ID]; !ok {
		return apperr.NotFound("job", job.ID)
	}
	t.s.jobs[job.ID] = *job
	return nil
}

func (t *memTx) ListJobs(_ context.Context, includeClosed bool) ([]*models.JobPosting, error) {
	out := []*models.JobPosting{}
	for _, id := range t.s.order {
		job, ok := t.s.jobs[id]
		if !ok || (job.Closed && !includeClosed) {
			continue
		}
		out = append(out, &job)
	}
	return out, nil
}

func (t *memTx) CreateCandidacy(_ context.Context, c *models.Candidacy) error {
	if _, ok := t.s.jobs[c.JobID]; !ok {
		return apperr.Validation("job %s does not exist", c.JobID)
	}
	for _, existing := range t.s.candidacies {
		if existing.JobID == c.JobID && existing.CandidateID == c.CandidateID {
			return apperr.Validation("candidate %s already applied to job %s", c.CandidateID, c.JobID)
		}
	}
	t.s.candidacies[c.ID] = *c
	t.s.order = append(t.s.order, c.ID)
	return nil
}

func (t *memTx) GetCandidacy(_ context.Context, id string) (*models.Candidacy, error) {
	c, ok := t.s.candidacies[id]
	if !ok {
		return nil, apperr.NotFound("candidacy", id)
	}
	return &c, nil
}

func (t *memTx) UpdateCandidacy(_ context.Context, c *models.Candidacy) error {
	if _, ok := t.s.candidacies[c.ID]; !ok {
		return apperr.NotFound("candidacy", c.ID)
	}
	t.s.candidacies[c.ID] = *c
	return nil
}

func (t *memTx) ListCandidaciesByJob(_ context.Context, jobID string) ([]*models.Candidacy, error) {
	out := []*models.Candidacy{}
	for _, id := range t.s.order {
		c, ok := t.s.candidacies[id]
		if !ok || c.JobID != jobID {
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

func (t *memTx) CountCandidaciesByStatus(_ context.Context, jobID string) (map[models.Status]int, error) {
	counts := map[models.Status]int{}
	for _, c := range t.s.candidacies {
		if c.JobID == jobID {
			counts[c.Status]++
		}
	}
	return counts, nil
}

func (t *memTx) CreateInterview(_ context.Context, iv *models.Interview) error {
	t.s.interviews[iv.ID] = *iv
	t.s.order = append(t.s.order, iv.ID)
	return nil
}

func (t *memTx) GetInterview(_ context.Context, id string) (*models.Interview, error) {
	iv, ok := t.s.interviews[id]
	if !ok {
		return nil, apperr.NotFound("interview", id)
	}
	return &iv, nil
}

func (t *memTx) UpdateInterview(_ context.Context, iv *models.Interview) error {
	if _, ok := t.s.interviews[iv.ID]; !ok {
		return apperr.NotFound("interview", iv.ID)
	}
	t.s.interviews[iv.ID] = *iv
	return nil
}

func (t *memTx) ListInterviewsByCandidacy(_ context.Context, candidacyID string) ([]*models.Interview, error) {
	return t.listInterviews(func(iv models.Interview) bool { return iv.CandidacyID == candidacyID }), nil
}

func (t *memTx) ListInterviewsByRecruiter(_ context.Context, recruiterID string) ([]*models.Interview, error) {
	return t.listInterviews(func(iv models.Interview) bool { return iv.CreatedBy == recruiterID }), nil
}

func (t *memTx) listInterviews(keep func(models.Interview) bool) []*models.Interview {
	out := []*models.Interview{}
	for _, id := range t.s.order {
		iv, ok := t.s.interviews[id]
		if !ok || !keep(iv) {
			continue
		}
		out = append(out, &iv)
	}
	models.SortInterviews(out)
	return out
}

func (t *memTx) CreateNotification(_ context.Context, n *models.Notification) error {
	if t.s.failNotifications != nil {
		return t.s.failNotifications
	}
	t.s.notifications[n.ID] = *n
	t.s.order = append(t.s.order, n.ID)
	return nil
}

func (t *memTx) ListNotifications(_ context.Context, recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	out := []*models.Notification{}
	for _, id := range t.s.order {
		n, ok := t.s.notifications[id]
		if !ok || n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (t *memTx) MarkNotificationRead(_ context.Context, id, recipientID string) error {
	n, ok := t.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return apperr.NotFound("notification", id)
	}
	n.Read = true
	t.s.notifications[id] = n
	return nil
}

var errStoreDown = errors.New("store down")
