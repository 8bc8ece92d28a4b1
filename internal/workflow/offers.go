package workflow

import (
	"context"
)

// SelectCommand makes an offer. RecruiterID is notified; it defaults to the job owner.
type SelectCommand struct {
	CandidacyID string
	RecruiterID string
}

// ConfirmCommand carries the candidate's answer to an offer
type ConfirmCommand struct {
	CandidacyID string
	Accept      bool
}

func (s *Service) Select(ctx context.Context, cmd SelectCommand) (*Result, error) {
	return s.update(ctx, "select", func(ctx context.Context, tx Tx, res *Result) error {
		c, job, err := s.loadCandidacy(ctx, tx, cmd.CandidacyID)
		if err != nil {
			return err
		}
		notifications, err := s.machine.Select(c, job, cmd.RecruiterID)
		if err != nil {
			return err
		}
		res.Candidacy = c
		res.Notifications = notifications
		return tx.UpdateCandidacy(ctx, c)
	})
}

// ConfirmWillingness records acceptance or refusal. Acceptance consumes a vacancy in the
// same transaction.
func (s *Service) ConfirmWillingness(ctx context.Context, cmd ConfirmCommand) (*Result, error) {
	return s.update(ctx, "confirm_willingness", func(ctx context.Context, tx Tx, res *Result) error {
		c, job, err := s.loadCandidacy(ctx, tx, cmd.CandidacyID)
		if err != nil {
			return err
		}
		vacancies := job.Vacancies

		notifications, err := s.machine.ConfirmWillingness(c, job, cmd.Accept)
		if err != nil {
			return err
		}
		if job.Vacancies != vacancies {
			if err := tx.UpdateJob(ctx, job); err != nil {
				return err
			}
		}
		if err := tx.UpdateCandidacy(ctx, c); err != nil {
			return err
		}

		res.Job = job
		res.Candidacy = c
		res.Notifications = notifications
		return nil
	})
}
