package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

const (
	DefaultShortlistThreshold = 5
	DefaultWillingnessDays    = 7
)

// Clock is a source of the current time
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Config tunes the machine's preconditions
type Config struct {
	ShortlistThreshold int
	WillingnessDays    int
}

// Machine validates and applies candidacy transitions. It mutates the records it is given
// and returns the notifications each transition produces; persisting both is the caller's job.
type Machine struct {
	clock Clock
	cfg   Config
	newID func() string
}

func New(cfg Config, clock Clock) *Machine {
	if clock == nil {
		clock = realClock{}
	}
	if cfg.ShortlistThreshold <= 0 {
		cfg.ShortlistThreshold = DefaultShortlistThreshold
	}
	if cfg.WillingnessDays <= 0 {
		cfg.WillingnessDays = DefaultWillingnessDays
	}
	return &Machine{clock: clock, cfg: cfg, newID: uuid.NewString}
}

// Now returns the machine's current time
func (m *Machine) Now() time.Time {
	return m.clock.Now()
}

// Check reports whether trigger may fire on the candidacy in its current status
func (m *Machine) Check(c *models.Candidacy, trigger Trigger) error {
	if _, ok := Next(c.Status, trigger); !ok {
		return apperr.InvalidTransition(string(c.Status), string(trigger), expectedFrom(trigger))
	}
	if trigger == TriggerShortlist {
		if c.Score == nil {
			return apperr.InvalidTransition(string(c.Status), string(trigger), "candidacy has not been scored")
		}
		if *c.Score < m.cfg.ShortlistThreshold {
			return apperr.InvalidTransition(string(c.Status), string(trigger),
				fmt.Sprintf("score %d is below the shortlist threshold %d", *c.Score, m.cfg.ShortlistThreshold))
		}
	}
	return nil
}

func (m *Machine) move(c *models.Candidacy, trigger Trigger) (time.Time, error) {
	if err := m.Check(c, trigger); err != nil {
		return time.Time{}, err
	}
	next, _ := Next(c.Status, trigger)
	now := m.clock.Now()
	c.Status = next
	c.UpdatedAt = now
	return now, nil
}

// AssignScore records a fresh score while the candidacy is still under review
func (m *Machine) AssignScore(c *models.Candidacy, score int) error {
	if score < 1 || score > 10 {
		return apperr.Validation("score must be between 1 and 10, got %d", score)
	}
	if _, err := m.move(c, TriggerScore); err != nil {
		return err
	}
	c.Score = &score
	return nil
}

// Shortlist moves an applied candidacy whose score meets the threshold
func (m *Machine) Shortlist(c *models.Candidacy, job *models.JobPosting) ([]*models.Notification, error) {
	now, err := m.move(c, TriggerShortlist)
	if err != nil {
		return nil, err
	}
	c.ShortlistedAt = &now

	return []*models.Notification{
		m.notify(c.CandidateID, models.NotifyShortlist, "Application shortlisted",
			fmt.Sprintf("Your application for %s has been shortlisted.", jobTitle(job)), now),
	}, nil
}

// Reject ends a non-terminal candidacy with an optional reason
func (m *Machine) Reject(c *models.Candidacy, job *models.JobPosting, reason string) ([]*models.Notification, error) {
	now, err := m.move(c, TriggerReject)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	c.RejectionReason = reason

	message := fmt.Sprintf("Your application for %s was not successful.", jobTitle(job))
	if reason != "" {
		message += " Reason: " + reason
	}
	return []*models.Notification{
		m.notify(c.CandidateID, models.NotifyRejection, "Application update", message, now),
	}, nil
}

// InterviewRequest describes a slot to book for a candidacy
type InterviewRequest struct {
	Kind            models.InterviewKind
	RecruiterID     string
	StartsAt        time.Time
	DurationMinutes int
	Platform        string
	Link            string
}

// Schedule books the first interview of a kind. Conflict checking happens before this call.
func (m *Machine) Schedule(c *models.Candidacy, job *models.JobPosting, req InterviewRequest) (*models.Interview, []*models.Notification, error) {
	trigger, err := ScheduleTrigger(req.Kind, false)
	if err != nil {
		return nil, nil, apperr.Validation("%v", err)
	}
	now, err := m.move(c, trigger)
	if err != nil {
		return nil, nil, err
	}

	iv := m.interview(c, req, now)
	m.stampInterview(c, iv)
	return iv, m.interviewNotifications(c, job, iv, "scheduled", now), nil
}

// Reschedule supersedes the pending interview of the same kind with a new slot
func (m *Machine) Reschedule(c *models.Candidacy, job *models.JobPosting, pending *models.Interview, req InterviewRequest) (*models.Interview, []*models.Notification, error) {
	trigger, err := ScheduleTrigger(req.Kind, true)
	if err != nil {
		return nil, nil, apperr.Validation("%v", err)
	}
	if err := m.Check(c, trigger); err != nil {
		return nil, nil, err
	}
	if pending == nil || pending.CandidacyID != c.ID || pending.Kind != req.Kind || !pending.IsPending() {
		return nil, nil, apperr.InvalidTransition(string(c.Status), string(trigger),
			fmt.Sprintf("no pending %s interview to reschedule", req.Kind))
	}
	now, err := m.move(c, trigger)
	if err != nil {
		return nil, nil, err
	}

	pending.SupersededAt = &now
	iv := m.interview(c, req, now)
	m.stampInterview(c, iv)
	return iv, m.interviewNotifications(c, job, iv, "rescheduled", now), nil
}

// RecordResult stores the outcome of a pending interview and advances or rejects the candidacy
func (m *Machine) RecordResult(c *models.Candidacy, job *models.JobPosting, iv *models.Interview, passed bool, feedback string) ([]*models.Notification, error) {
	trigger, err := ResultTrigger(iv.Kind, passed)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := m.Check(c, trigger); err != nil {
		return nil, err
	}
	if iv.CandidacyID != c.ID || !iv.IsPending() {
		return nil, apperr.InvalidTransition(string(c.Status), string(trigger),
			fmt.Sprintf("interview %s is not the pending %s interview of this candidacy", iv.ID, iv.Kind))
	}
	now, err := m.move(c, trigger)
	if err != nil {
		return nil, err
	}

	feedback = strings.TrimSpace(feedback)
	iv.Feedback = feedback
	round := roundName(iv.Kind)
	if passed {
		iv.Result = models.ResultPassed
		return []*models.Notification{
			m.notify(c.CandidateID, models.NotifyResult, round+" interview passed",
				fmt.Sprintf("You passed the %s interview for %s.", roundLabel(iv.Kind), jobTitle(job)), now),
		}, nil
	}

	iv.Result = models.ResultFailed
	c.RejectionReason = feedback
	message := fmt.Sprintf("Unfortunately you did not pass the %s interview for %s.", roundLabel(iv.Kind), jobTitle(job))
	if feedback != "" {
		message += " Feedback: " + feedback
	}
	return []*models.Notification{
		m.notify(c.CandidateID, models.NotifyResult, round+" interview result", message, now),
	}, nil
}

// Select makes an offer and opens the willingness window
func (m *Machine) Select(c *models.Candidacy, job *models.JobPosting, recruiterID string) ([]*models.Notification, error) {
	now, err := m.move(c, TriggerSelect)
	if err != nil {
		return nil, err
	}
	deadline := now.AddDate(0, 0, m.cfg.WillingnessDays)
	c.SelectedAt = &now
	c.WillingnessDeadline = &deadline

	if recruiterID == "" {
		recruiterID = job.RecruiterID
	}
	return []*models.Notification{
		m.notify(c.CandidateID, models.NotifySelection, "Offer for "+jobTitle(job),
			fmt.Sprintf("You have been selected for %s. Please confirm your willingness to join by %s.",
				jobTitle(job), deadline.Format("2006-01-02 15:04 MST")), now),
		m.notify(recruiterID, models.NotifySelection, "Candidate selected",
			fmt.Sprintf("%s was selected for %s and has until %s to respond.",
				c.CandidateName, jobTitle(job), deadline.Format("2006-01-02 15:04 MST")), now),
	}, nil
}

// ConfirmWillingness records the candidate's answer to an offer. Accepting consumes one vacancy.
func (m *Machine) ConfirmWillingness(c *models.Candidacy, job *models.JobPosting, accept bool) ([]*models.Notification, error) {
	trigger := TriggerDeclineOffer
	if accept {
		trigger = TriggerAcceptOffer
	}
	if err := m.Check(c, trigger); err != nil {
		return nil, err
	}

	now := m.clock.Now()
	if accept {
		if c.WillingnessDeadline != nil && now.After(*c.WillingnessDeadline) {
			return nil, apperr.InvalidTransition(string(c.Status), string(trigger),
				fmt.Sprintf("willingness deadline %s has passed", c.WillingnessDeadline.Format(time.RFC3339)))
		}
		if job.Vacancies <= 0 {
			return nil, apperr.InvalidTransition(string(c.Status), string(trigger), "job has no vacancies left")
		}
	}

	if _, err := m.move(c, trigger); err != nil {
		return nil, err
	}
	c.WillingnessRespondedAt = &now

	var (
		kind           models.NotificationType
		candidateTitle string
		candidateText  string
		recruiterTitle string
		recruiterText  string
	)
	if accept {
		job.Vacancies--
		job.UpdatedAt = now
		c.HiredAt = &now
		kind = models.NotifyHired
		candidateTitle = "Welcome aboard"
		candidateText = fmt.Sprintf("Your acceptance for %s is confirmed.", jobTitle(job))
		recruiterTitle = "Offer accepted"
		recruiterText = fmt.Sprintf("%s accepted the offer for %s. %d vacancies remain.", c.CandidateName, jobTitle(job), job.Vacancies)
	} else {
		kind = models.NotifyOfferResponse
		candidateTitle = "Offer declined"
		candidateText = fmt.Sprintf("You declined the offer for %s.", jobTitle(job))
		recruiterTitle = "Offer declined"
		recruiterText = fmt.Sprintf("%s declined the offer for %s.", c.CandidateName, jobTitle(job))
	}

	out := []*models.Notification{m.notify(c.CandidateID, kind, candidateTitle, candidateText, now)}
	for _, recruiterID := range job.Recruiters() {
		out = append(out, m.notify(recruiterID, kind, recruiterTitle, recruiterText, now))
	}
	return out, nil
}

// CloseJob closes the posting and moves every non-terminal candidacy to position_closed
func (m *Machine) CloseJob(job *models.JobPosting, candidacies []*models.Candidacy, reason string) ([]*models.Candidacy, []*models.Notification, error) {
	if job.Closed {
		return nil, nil, apperr.InvalidTransition("closed", string(TriggerClosePosition), "job is already closed")
	}
	now := m.clock.Now()
	job.Closed = true
	job.CloseReason = strings.TrimSpace(reason)
	job.UpdatedAt = now

	message := fmt.Sprintf("The position %s has been closed.", jobTitle(job))
	if job.CloseReason != "" {
		message += " Reason: " + job.CloseReason
	}

	affected := []*models.Candidacy{}
	notifications := []*models.Notification{}
	for _, c := range candidacies {
		if c.Status.IsTerminal() {
			continue
		}
		if _, err := m.move(c, TriggerClosePosition); err != nil {
			return nil, nil, err
		}
		c.ClosedAt = &now
		affected = append(affected, c)
		notifications = append(notifications,
			m.notify(c.CandidateID, models.NotifyPositionClosed, "Position closed", message, now))
	}
	return affected, notifications, nil
}

func (m *Machine) interview(c *models.Candidacy, req InterviewRequest, now time.Time) *models.Interview {
	return &models.Interview{
		ID:              m.newID(),
		CandidacyID:     c.ID,
		CandidateName:   c.CandidateName,
		Kind:            req.Kind,
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
		Platform:        req.Platform,
		Link:            req.Link,
		CreatedBy:       req.RecruiterID,
		CreatedAt:       now,
	}
}

func (m *Machine) stampInterview(c *models.Candidacy, iv *models.Interview) {
	startsAt := iv.StartsAt
	if iv.Kind == models.InterviewHR {
		c.HRInterviewAt = &startsAt
		return
	}
	c.TechnicalInterviewAt = &startsAt
}

func (m *Machine) interviewNotifications(c *models.Candidacy, job *models.JobPosting, iv *models.Interview, verb string, now time.Time) []*models.Notification {
	round := roundName(iv.Kind)
	when := iv.StartsAt.Format("2006-01-02 15:04 MST")

	candidate := m.notify(c.CandidateID, models.NotifyInterview, round+" interview "+verb,
		fmt.Sprintf("Your %s interview for %s is %s for %s (%d minutes).", roundLabel(iv.Kind), jobTitle(job), verb, when, iv.DurationMinutes), now)
	recruiter := m.notify(iv.CreatedBy, models.NotifyInterview, round+" interview "+verb,
		fmt.Sprintf("%s interview with %s for %s is %s for %s.", round, c.CandidateName, jobTitle(job), verb, when), now)

	for _, n := range []*models.Notification{candidate, recruiter} {
		startsAt := iv.StartsAt
		n.InterviewAt = &startsAt
		n.InterviewLink = iv.Link
	}
	return []*models.Notification{candidate, recruiter}
}

func (m *Machine) notify(recipient string, kind models.NotificationType, title, message string, now time.Time) *models.Notification {
	return &models.Notification{
		ID:          m.newID(),
		RecipientID: recipient,
		Type:        kind,
		Title:       title,
		Message:     message,
		CreatedAt:   now,
	}
}

func roundName(kind models.InterviewKind) string {
	if kind == models.InterviewHR {
		return "HR"
	}
	return "Technical"
}

func roundLabel(kind models.InterviewKind) string {
	if kind == models.InterviewHR {
		return "HR"
	}
	return "technical"
}

func jobTitle(job *models.JobPosting) string {
	if job == nil || job.Title == "" {
		return "the position"
	}
	return job.Title
}
