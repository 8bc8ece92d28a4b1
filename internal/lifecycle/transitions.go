package lifecycle

import (
	"fmt"

	"github.com/khrees2412/hireflow/pkg/models"
)

// Trigger is an event that moves a candidacy between statuses
type Trigger string

const (
	TriggerShortlist           Trigger = "shortlist"
	TriggerReject              Trigger = "reject"
	TriggerScheduleTechnical   Trigger = "schedule_technical"
	TriggerScheduleHR          Trigger = "schedule_hr"
	TriggerRescheduleTechnical Trigger = "reschedule_technical"
	TriggerRescheduleHR        Trigger = "reschedule_hr"
	TriggerTechnicalPassed     Trigger = "record_technical_pass"
	TriggerTechnicalFailed     Trigger = "record_technical_fail"
	TriggerHRPassed            Trigger = "record_hr_pass"
	TriggerHRFailed            Trigger = "record_hr_fail"
	TriggerSelect              Trigger = "select"
	TriggerAcceptOffer         Trigger = "confirm_willingness"
	TriggerDeclineOffer        Trigger = "decline_willingness"
	TriggerClosePosition       Trigger = "close_job"
	TriggerScore               Trigger = "score"
)

type edge struct {
	from    models.Status
	trigger Trigger
}

// transitions lists every fixed edge. reject and close_job leave any non-terminal status
// and are handled by Next.
var transitions = map[edge]models.Status{
	{models.StatusApplied, TriggerShortlist}:                      models.StatusShortlisted,
	{models.StatusApplied, TriggerScore}:                          models.StatusApplied,
	{models.StatusShortlisted, TriggerScheduleTechnical}:          models.StatusInterviewScheduled,
	{models.StatusInterviewScheduled, TriggerRescheduleTechnical}: models.StatusInterviewScheduled,
	{models.StatusInterviewScheduled, TriggerTechnicalPassed}:     models.StatusTechnicalPassed,
	{models.StatusInterviewScheduled, TriggerTechnicalFailed}:     models.StatusRejected,
	{models.StatusTechnicalPassed, TriggerScheduleHR}:             models.StatusHRRound,
	{models.StatusHRRound, TriggerRescheduleHR}:                   models.StatusHRRound,
	{models.StatusHRRound, TriggerHRPassed}:                       models.StatusHRPassed,
	{models.StatusHRRound, TriggerHRFailed}:                       models.StatusRejected,
	{models.StatusHRPassed, TriggerSelect}:                        models.StatusSelected,
	{models.StatusSelected, TriggerAcceptOffer}:                   models.StatusHired,
	{models.StatusSelected, TriggerDeclineOffer}:                  models.StatusOfferDeclined,
}

// Next returns the status a trigger leads to from the given status
func Next(from models.Status, trigger Trigger) (models.Status, bool) {
	switch trigger {
	case TriggerReject:
		if from.IsValid() && !from.IsTerminal() {
			return models.StatusRejected, true
		}
		return "", false
	case TriggerClosePosition:
		if from.IsValid() && !from.IsTerminal() {
			return models.StatusPositionClosed, true
		}
		return "", false
	}
	to, ok := transitions[edge{from, trigger}]
	return to, ok
}

// Triggers lists every trigger
func Triggers() []Trigger {
	return []Trigger{
		TriggerShortlist, TriggerReject, TriggerScheduleTechnical, TriggerScheduleHR,
		TriggerRescheduleTechnical, TriggerRescheduleHR, TriggerTechnicalPassed, TriggerTechnicalFailed,
		TriggerHRPassed, TriggerHRFailed, TriggerSelect, TriggerAcceptOffer, TriggerDeclineOffer,
		TriggerClosePosition, TriggerScore,
	}
}

// ScheduleTrigger maps an interview kind to its scheduling trigger
func ScheduleTrigger(kind models.InterviewKind, reschedule bool) (Trigger, error) {
	switch kind {
	case models.InterviewTechnical:
		if reschedule {
			return TriggerRescheduleTechnical, nil
		}
		return TriggerScheduleTechnical, nil
	case models.InterviewHR:
		if reschedule {
			return TriggerRescheduleHR, nil
		}
		return TriggerScheduleHR, nil
	default:
		return "", fmt.Errorf("unknown interview kind %q", kind)
	}
}

// ResultTrigger maps an interview kind and outcome to its trigger
func ResultTrigger(kind models.InterviewKind, passed bool) (Trigger, error) {
	switch kind {
	case models.InterviewTechnical:
		if passed {
			return TriggerTechnicalPassed, nil
		}
		return TriggerTechnicalFailed, nil
	case models.InterviewHR:
		if passed {
			return TriggerHRPassed, nil
		}
		return TriggerHRFailed, nil
	default:
		return "", fmt.Errorf("unknown interview kind %q", kind)
	}
}

// expectedFrom describes the statuses a trigger accepts, for error messages
func expectedFrom(trigger Trigger) string {
	switch trigger {
	case TriggerReject, TriggerClosePosition:
		return "status must not be terminal"
	}
	for e := range transitions {
		if e.trigger == trigger {
			return fmt.Sprintf("status must be %s", e.from)
		}
	}
	return "unknown trigger"
}
