package lifecycle

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newMachine() (*Machine, *fixedClock) {
	clock := &fixedClock{now: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
	m := New(Config{}, clock)
	seq := 0
	m.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return m, clock
}

func scored(score int) *int {
	return &score
}

func testJob() *models.JobPosting {
	return &models.JobPosting{
		ID:          "job-1",
		Title:       "Backend Engineer",
		RecruiterID: "r-1",
		HiringTeam:  []string{"r-2", "r-1"},
		Vacancies:   1,
	}
}

func testCandidacy(status models.Status) *models.Candidacy {
	return &models.Candidacy{
		ID:            "c-1",
		JobID:         "job-1",
		CandidateID:   "u-1",
		CandidateName: "Ada",
		Score:         scored(7),
		Status:        status,
	}
}

func technicalRequest(start time.Time) InterviewRequest {
	return InterviewRequest{Kind: models.InterviewTechnical, RecruiterID: "r-1", StartsAt: start, DurationMinutes: 60, Link: "https://meet.example/abc"}
}

func TestHappyPath(t *testing.T) {
	m, clock := newMachine()
	job := testJob()
	c := testCandidacy(models.StatusApplied)

	if _, err := m.Shortlist(c, job); err != nil {
		t.Fatalf("shortlist: %v", err)
	}
	if c.Status != models.StatusShortlisted || c.ShortlistedAt == nil {
		t.Fatalf("expected shortlisted with timestamp, got %+v", c)
	}

	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)
	technical, notes, err := m.Schedule(c, job, technicalRequest(start))
	if err != nil {
		t.Fatalf("schedule technical: %v", err)
	}
	if c.Status != models.StatusInterviewScheduled || technical.CreatedBy != "r-1" {
		t.Fatalf("unexpected state after scheduling: %s, %+v", c.Status, technical)
	}
	if len(notes) != 2 || notes[0].RecipientID != "u-1" || notes[1].RecipientID != "r-1" {
		t.Fatalf("expected candidate and recruiter notifications, got %+v", notes)
	}
	if notes[0].InterviewAt == nil || !notes[0].InterviewAt.Equal(start) || notes[0].InterviewLink == "" {
		t.Fatalf("expected interview metadata on notification, got %+v", notes[0])
	}

	if _, err := m.RecordResult(c, job, technical, true, "solid"); err != nil {
		t.Fatalf("record technical: %v", err)
	}
	if c.Status != models.StatusTechnicalPassed || technical.Result != models.ResultPassed {
		t.Fatalf("expected technical_passed, got %s", c.Status)
	}

	hrReq := InterviewRequest{Kind: models.InterviewHR, RecruiterID: "r-2", StartsAt: start.Add(24 * time.Hour), DurationMinutes: 30}
	hr, _, err := m.Schedule(c, job, hrReq)
	if err != nil {
		t.Fatalf("schedule hr: %v", err)
	}
	if c.Status != models.StatusHRRound || c.HRInterviewAt == nil {
		t.Fatalf("expected hr_round, got %s", c.Status)
	}

	if _, err := m.RecordResult(c, job, hr, true, ""); err != nil {
		t.Fatalf("record hr: %v", err)
	}
	if c.Status != models.StatusHRPassed {
		t.Fatalf("expected hr_passed, got %s", c.Status)
	}

	notes, err = m.Select(c, job, "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	wantDeadline := clock.now.AddDate(0, 0, DefaultWillingnessDays)
	if c.WillingnessDeadline == nil || !c.WillingnessDeadline.Equal(wantDeadline) {
		t.Fatalf("expected deadline %s, got %v", wantDeadline, c.WillingnessDeadline)
	}
	if len(notes) != 2 || notes[1].RecipientID != "r-1" {
		t.Fatalf("expected offer and recruiter notification, got %+v", notes)
	}

	clock.Advance(48 * time.Hour)
	notes, err = m.ConfirmWillingness(c, job, true)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if c.Status != models.StatusHired || c.HiredAt == nil || job.Vacancies != 0 {
		t.Fatalf("expected hired with vacancy consumed, got %s vacancies=%d", c.Status, job.Vacancies)
	}
	// candidate + owner + one extra team member
	if len(notes) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notes))
	}
}

func TestShortlistThreshold(t *testing.T) {
	m, _ := newMachine()
	c := testCandidacy(models.StatusApplied)
	c.Score = scored(4)

	_, err := m.Shortlist(c, testJob())
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if c.Status != models.StatusApplied || c.ShortlistedAt != nil {
		t.Fatalf("candidacy must be unchanged, got %+v", c)
	}

	c.Score = nil
	if _, err := m.Shortlist(c, testJob()); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected unscored candidacy to be refused, got %v", err)
	}

	strict := New(Config{ShortlistThreshold: 8}, nil)
	c.Score = scored(7)
	if _, err := strict.Shortlist(c, testJob()); err == nil {
		t.Fatalf("expected configured threshold to apply")
	}
}

func TestInvalidTransitionsLeaveCandidacyUnchanged(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status models.Status
		apply  func(m *Machine, c *models.Candidacy) error
	}{
		{
			name:   "shortlist twice",
			status: models.StatusShortlisted,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, err := m.Shortlist(c, testJob())
				return err
			},
		},
		{
			name:   "technical before shortlist",
			status: models.StatusApplied,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, _, err := m.Schedule(c, testJob(), technicalRequest(start))
				return err
			},
		},
		{
			name:   "hr before technical passed",
			status: models.StatusInterviewScheduled,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, _, err := m.Schedule(c, testJob(), InterviewRequest{Kind: models.InterviewHR, RecruiterID: "r-1", StartsAt: start, DurationMinutes: 30})
				return err
			},
		},
		{
			name:   "select before hr passed",
			status: models.StatusTechnicalPassed,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, err := m.Select(c, testJob(), "r-1")
				return err
			},
		},
		{
			name:   "confirm before select",
			status: models.StatusHRPassed,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, err := m.ConfirmWillingness(c, testJob(), true)
				return err
			},
		},
		{
			name:   "reject hired",
			status: models.StatusHired,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, err := m.Reject(c, testJob(), "late")
				return err
			},
		},
		{
			name:   "reject twice",
			status: models.StatusRejected,
			apply: func(m *Machine, c *models.Candidacy) error {
				_, err := m.Reject(c, testJob(), "")
				return err
			},
		},
		{
			name:   "score after shortlist",
			status: models.StatusShortlisted,
			apply: func(m *Machine, c *models.Candidacy) error {
				return m.AssignScore(c, 9)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, _ := newMachine()
			c := testCandidacy(tt.status)
			before := *c

			err := tt.apply(m, c)
			if !errors.Is(err, apperr.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition, got %v", err)
			}
			var te *apperr.TransitionError
			if !errors.As(err, &te) || te.From != string(tt.status) {
				t.Fatalf("expected transition error naming %s, got %v", tt.status, err)
			}
			if c.Status != before.Status || c.UpdatedAt != before.UpdatedAt {
				t.Fatalf("candidacy modified: %+v", c)
			}
		})
	}
}

func TestFailedInterviewRejects(t *testing.T) {
	m, _ := newMachine()
	c := testCandidacy(models.StatusShortlisted)
	iv, _, err := m.Schedule(c, testJob(), technicalRequest(time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	notes, err := m.RecordResult(c, testJob(), iv, false, "weak on SQL")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if c.Status != models.StatusRejected || c.RejectionReason != "weak on SQL" || iv.Result != models.ResultFailed {
		t.Fatalf("expected rejection with feedback, got %+v", c)
	}
	if len(notes) != 1 || notes[0].Type != models.NotifyResult {
		t.Fatalf("expected a result notification, got %+v", notes)
	}

	if _, err := m.RecordResult(c, testJob(), iv, true, ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected second result to be refused, got %v", err)
	}
}

func TestRescheduleSupersedes(t *testing.T) {
	m, _ := newMachine()
	c := testCandidacy(models.StatusShortlisted)
	first, _, err := m.Schedule(c, testJob(), technicalRequest(time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	moved := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	second, notes, err := m.Reschedule(c, testJob(), first, technicalRequest(moved))
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if first.SupersededAt == nil || first.IsPending() {
		t.Fatalf("expected first interview superseded")
	}
	if !second.IsPending() || !c.TechnicalInterviewAt.Equal(moved) || c.Status != models.StatusInterviewScheduled {
		t.Fatalf("unexpected state after reschedule: %+v", c)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notes))
	}

	if _, err := m.RecordResult(c, testJob(), first, true, ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("superseded interview must not take a result, got %v", err)
	}
	if _, _, err := m.Reschedule(c, testJob(), first, technicalRequest(moved)); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("superseded interview must not be rescheduled again, got %v", err)
	}
}

func TestConfirmAfterDeadline(t *testing.T) {
	m, clock := newMachine()
	c := testCandidacy(models.StatusHRPassed)
	job := testJob()
	if _, err := m.Select(c, job, "r-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	clock.Advance(8 * 24 * time.Hour)
	_, err := m.ConfirmWillingness(c, job, true)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected deadline expiry to be refused, got %v", err)
	}
	if c.Status != models.StatusSelected || job.Vacancies != 1 {
		t.Fatalf("state must be unchanged, got %s vacancies=%d", c.Status, job.Vacancies)
	}

	if _, err := m.ConfirmWillingness(c, job, false); err != nil {
		t.Fatalf("declining after the deadline should still be recorded: %v", err)
	}
	if c.Status != models.StatusOfferDeclined || job.Vacancies != 1 {
		t.Fatalf("expected offer_declined without vacancy change, got %s", c.Status)
	}
}

func TestConfirmWithoutVacancies(t *testing.T) {
	m, _ := newMachine()
	c := testCandidacy(models.StatusHRPassed)
	job := testJob()
	job.Vacancies = 0
	if _, err := m.Select(c, job, "r-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, err := m.ConfirmWillingness(c, job, true); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected exhausted vacancies to be refused, got %v", err)
	}
	if job.Vacancies != 0 {
		t.Fatalf("vacancies must never go negative, got %d", job.Vacancies)
	}
}

func TestCloseJob(t *testing.T) {
	m, _ := newMachine()
	job := testJob()
	open := testCandidacy(models.StatusShortlisted)
	hired := testCandidacy(models.StatusHired)
	hired.ID = "c-2"
	applied := testCandidacy(models.StatusApplied)
	applied.ID = "c-3"
	applied.CandidateID = "u-3"

	affected, notes, err := m.CloseJob(job, []*models.Candidacy{open, hired, applied}, "budget freeze")
	if err != nil {
		t.Fatalf("close job: %v", err)
	}
	if !job.Closed || job.CloseReason != "budget freeze" {
		t.Fatalf("expected job closed with reason, got %+v", job)
	}
	if len(affected) != 2 || len(notes) != 2 {
		t.Fatalf("expected 2 affected candidacies, got %d/%d", len(affected), len(notes))
	}
	if open.Status != models.StatusPositionClosed || hired.Status != models.StatusHired {
		t.Fatalf("unexpected statuses: %s, %s", open.Status, hired.Status)
	}

	if _, _, err := m.CloseJob(job, nil, ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected closing twice to fail, got %v", err)
	}
}

func TestReachableStatusesStayInTable(t *testing.T) {
	t.Parallel()

	reachable := map[models.Status]bool{models.StatusApplied: true}
	frontier := []models.Status{models.StatusApplied}
	for len(frontier) > 0 {
		from := frontier[0]
		frontier = frontier[1:]
		for _, trigger := range Triggers() {
			to, ok := Next(from, trigger)
			if !ok {
				continue
			}
			if !to.IsValid() {
				t.Fatalf("%s --%s--> unknown status %q", from, trigger, to)
			}
			if !reachable[to] {
				reachable[to] = true
				frontier = append(frontier, to)
			}
		}
	}

	for _, status := range models.AllStatuses {
		if !reachable[status] {
			t.Fatalf("status %s is not reachable from applied", status)
		}
	}
	for _, status := range models.AllStatuses {
		if !status.IsTerminal() {
			continue
		}
		for _, trigger := range Triggers() {
			if _, ok := Next(status, trigger); ok {
				t.Fatalf("terminal status %s must not accept %s", status, trigger)
			}
		}
	}
}

func TestRandomTriggerSequences(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)

	for run := 0; run < 200; run++ {
		m, _ := newMachine()
		job := testJob()
		job.Vacancies = 5
		c := testCandidacy(models.StatusApplied)
		var pending *models.Interview

		for step := 0; step < 12; step++ {
			before := c.Status
			var err error
			switch rng.Intn(8) {
			case 0:
				_, err = m.Shortlist(c, job)
			case 1:
				if rng.Intn(4) == 0 {
					_, err = m.Reject(c, job, "")
				}
			case 2:
				var iv *models.Interview
				iv, _, err = m.Schedule(c, job, technicalRequest(start))
				if err == nil {
					pending = iv
				}
			case 3:
				var iv *models.Interview
				iv, _, err = m.Schedule(c, job, InterviewRequest{Kind: models.InterviewHR, RecruiterID: "r-1", StartsAt: start, DurationMinutes: 30})
				if err == nil {
					pending = iv
				}
			case 4:
				if pending != nil {
					_, err = m.RecordResult(c, job, pending, rng.Intn(3) > 0, "")
				}
			case 5:
				_, err = m.Select(c, job, "r-1")
			case 6:
				_, err = m.ConfirmWillingness(c, job, rng.Intn(2) == 0)
			case 7:
				err = m.AssignScore(c, 1+rng.Intn(10))
			}

			if err != nil {
				if !errors.Is(err, apperr.ErrInvalidTransition) {
					t.Fatalf("unexpected error kind: %v", err)
				}
				if c.Status != before {
					t.Fatalf("failed trigger changed status %s -> %s", before, c.Status)
				}
				continue
			}
			if c.Status != before {
				if !edgeExists(before, c.Status) {
					t.Fatalf("illegal edge %s -> %s", before, c.Status)
				}
			}
		}
		if job.Vacancies < 0 {
			t.Fatalf("vacancies went negative")
		}
	}
}

func edgeExists(from, to models.Status) bool {
	for _, trigger := range Triggers() {
		if next, ok := Next(from, trigger); ok && next == to {
			return true
		}
	}
	return false
}
