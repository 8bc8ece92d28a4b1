package models

import (
	"sort"
	"time"
)

// Status is the lifecycle state of a candidacy
type Status string

const (
	StatusApplied            Status = "applied"
	StatusShortlisted        Status = "shortlisted"
	StatusRejected           Status = "rejected"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusTechnicalPassed    Status = "technical_passed"
	StatusHRRound            Status = "hr_round"
	StatusHRPassed           Status = "hr_passed"
	StatusSelected           Status = "selected"
	StatusOfferDeclined      Status = "offer_declined"
	StatusHired              Status = "hired"
	StatusPositionClosed     Status = "position_closed"
)

// AllStatuses lists every status in pipeline order
var AllStatuses = []Status{
	StatusApplied,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusTechnicalPassed,
	StatusHRRound,
	StatusHRPassed,
	StatusSelected,
	StatusHired,
	StatusOfferDeclined,
	StatusRejected,
	StatusPositionClosed,
}

// IsTerminal reports whether no further transition can leave the status
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusOfferDeclined, StatusHired, StatusPositionClosed:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// InterviewKind distinguishes the interview rounds
type InterviewKind string

const (
	InterviewTechnical InterviewKind = "technical"
	InterviewHR        InterviewKind = "hr"
)

func (k InterviewKind) IsValid() bool {
	return k == InterviewTechnical || k == InterviewHR
}

// InterviewResult is the recorded outcome of an interview
type InterviewResult string

const (
	ResultUnset  InterviewResult = ""
	ResultPassed InterviewResult = "passed"
	ResultFailed InterviewResult = "failed"
)

// NotificationType tags what a notification is about
type NotificationType string

const (
	NotifyShortlist      NotificationType = "shortlist"
	NotifyRejection      NotificationType = "rejection"
	NotifyInterview      NotificationType = "interview"
	NotifyResult         NotificationType = "result"
	NotifySelection      NotificationType = "selection"
	NotifyOfferResponse  NotificationType = "offer_response"
	NotifyHired          NotificationType = "hired"
	NotifyPositionClosed NotificationType = "position_closed"
)

// JobPosting represents an open position owned by a recruiter
type JobPosting struct {
	ID                 string     `json:"id" yaml:"id"`
	Title              string     `json:"title" yaml:"title"`
	Description        string     `json:"description" yaml:"description,omitempty"`
	RecruiterID        string     `json:"recruiter_id" yaml:"recruiter_id"`
	HiringTeam         []string   `json:"hiring_team" yaml:"hiring_team,omitempty"`
	ExperienceYears    int        `json:"experience_years" yaml:"experience_years"`
	Skills             []string   `json:"skills" yaml:"skills"`
	RelevantExperience string     `json:"relevant_experience" yaml:"relevant_experience,omitempty"`
	Location           string     `json:"location" yaml:"location,omitempty"`
	Vacancies          int        `json:"vacancies" yaml:"vacancies"`
	Deadline           *time.Time `json:"deadline" yaml:"deadline,omitempty"`
	Closed             bool       `json:"closed" yaml:"closed"`
	CloseReason        string     `json:"close_reason" yaml:"close_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" yaml:"updated_at"`
}

// Recruiters returns the owner followed by the rest of the hiring team, without duplicates
func (j *JobPosting) Recruiters() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range append([]string{j.RecruiterID}, j.HiringTeam...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AcceptsApplications reports whether candidates may still apply at the given time
func (j *JobPosting) AcceptsApplications(now time.Time) bool {
	if j.Closed {
		return false
	}
	return j.Deadline == nil || !now.After(*j.Deadline)
}

// Candidacy is one candidate's application to one job posting
type Candidacy struct {
	ID                     string     `json:"id" yaml:"id"`
	JobID                  string     `json:"job_id" yaml:"job_id"`
	CandidateID            string     `json:"candidate_id" yaml:"candidate_id"`
	CandidateName          string     `json:"candidate_name" yaml:"candidate_name"`
	ExperienceYears        int        `json:"experience_years" yaml:"experience_years"`
	Skills                 []string   `json:"skills" yaml:"skills"`
	RelevantExperience     string     `json:"relevant_experience" yaml:"relevant_experience,omitempty"`
	Education              string     `json:"education" yaml:"education,omitempty"`
	Projects               string     `json:"projects" yaml:"projects,omitempty"`
	Score                  *int       `json:"score" yaml:"score,omitempty"`
	Status                 Status     `json:"status" yaml:"status"`
	AppliedAt              time.Time  `json:"applied_at" yaml:"applied_at"`
	ShortlistedAt          *time.Time `json:"shortlisted_at" yaml:"shortlisted_at,omitempty"`
	TechnicalInterviewAt   *time.Time `json:"technical_interview_at" yaml:"technical_interview_at,omitempty"`
	HRInterviewAt          *time.Time `json:"hr_interview_at" yaml:"hr_interview_at,omitempty"`
	SelectedAt             *time.Time `json:"selected_at" yaml:"selected_at,omitempty"`
	WillingnessDeadline    *time.Time `json:"willingness_deadline" yaml:"willingness_deadline,omitempty"`
	WillingnessRespondedAt *time.Time `json:"willingness_responded_at" yaml:"willingness_responded_at,omitempty"`
	HiredAt                *time.Time `json:"hired_at" yaml:"hired_at,omitempty"`
	ClosedAt               *time.Time `json:"closed_at" yaml:"closed_at,omitempty"`
	RejectionReason        string     `json:"rejection_reason" yaml:"rejection_reason,omitempty"`
	UpdatedAt              time.Time  `json:"updated_at" yaml:"updated_at"`
}

// Interview is a booked slot on a recruiter's calendar
type Interview struct {
	ID              string          `json:"id" yaml:"id"`
	CandidacyID     string          `json:"candidacy_id" yaml:"candidacy_id"`
	CandidateName   string          `json:"candidate_name" yaml:"candidate_name"`
	Kind            InterviewKind   `json:"kind" yaml:"kind"`
	StartsAt        time.Time       `json:"starts_at" yaml:"starts_at"`
	DurationMinutes int             `json:"duration_minutes" yaml:"duration_minutes"`
	Platform        string          `json:"platform" yaml:"platform,omitempty"`
	Link            string          `json:"link" yaml:"link,omitempty"`
	Result          InterviewResult `json:"result" yaml:"result,omitempty"`
	Feedback        string          `json:"feedback" yaml:"feedback,omitempty"`
	CreatedBy       string          `json:"created_by" yaml:"created_by"`
	CreatedAt       time.Time       `json:"created_at" yaml:"created_at"`
	SupersededAt    *time.Time      `json:"superseded_at" yaml:"superseded_at,omitempty"`
}

// End returns the exclusive end of the interview slot
func (i *Interview) End() time.Time {
	return i.StartsAt.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

// IsPending reports whether the interview still awaits a result
func (i *Interview) IsPending() bool {
	return i.Result == ResultUnset && i.SupersededAt == nil
}

// Notification is an outbound message record
type Notification struct {
	ID            string           `json:"id" yaml:"id"`
	RecipientID   string           `json:"recipient_id" yaml:"recipient_id"`
	Type          NotificationType `json:"type" yaml:"type"`
	Title         string           `json:"title" yaml:"title"`
	Message       string           `json:"message" yaml:"message"`
	InterviewAt   *time.Time       `json:"interview_at" yaml:"interview_at,omitempty"`
	InterviewLink string           `json:"interview_link" yaml:"interview_link,omitempty"`
	Read          bool             `json:"read" yaml:"read"`
	CreatedAt     time.Time        `json:"created_at" yaml:"created_at"`
}

// SortInterviews orders interviews by start time, earliest first
func SortInterviews(items []*Interview) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartsAt.Before(items[j].StartsAt)
	})
}
