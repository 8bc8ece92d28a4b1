package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

const candidacyColumns = `id, job_id, candidate_id, candidate_name, experience_years, skills,
	relevant_experience, education, projects, score, status, applied_at, shortlisted_at,
	technical_interview_at, hr_interview_at, selected_at, willingness_deadline,
	willingness_responded_at, hired_at, closed_at, rejection_reason, updated_at`

func (r *repo) CreateCandidacy(ctx context.Context, c *models.Candidacy) error {
	query := `INSERT INTO candidacies (` + candidacyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, c.ID, c.JobID, c.CandidateID, c.CandidateName,
		c.ExperienceYears, encodeList(c.Skills), c.RelevantExperience, c.Education, c.Projects,
		nullInt(c.Score), string(c.Status), c.AppliedAt.UTC(), nullTime(c.ShortlistedAt),
		nullTime(c.TechnicalInterviewAt), nullTime(c.HRInterviewAt), nullTime(c.SelectedAt),
		nullTime(c.WillingnessDeadline), nullTime(c.WillingnessRespondedAt), nullTime(c.HiredAt),
		nullTime(c.ClosedAt), c.RejectionReason, c.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return apperr.Validation("candidate %s already applied to job %s", c.CandidateID, c.JobID)
	}
	return mapError("create candidacy", err)
}

func (r *repo) GetCandidacy(ctx context.Context, id string) (*models.Candidacy, error) {
	query := `SELECT ` + candidacyColumns + ` FROM candidacies WHERE id=?`
	c, err := scanCandidacy(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("candidacy", id)
	}
	if err != nil {
		return nil, mapError("get candidacy", err)
	}
	return c, nil
}

func (r *repo) UpdateCandidacy(ctx context.Context, c *models.Candidacy) error {
	query := `UPDATE candidacies SET score=?, status=?, shortlisted_at=?, technical_interview_at=?,
			  hr_interview_at=?, selected_at=?, willingness_deadline=?, willingness_responded_at=?,
			  hired_at=?, closed_at=?, rejection_reason=?, updated_at=? WHERE id=?`
	res, err := r.q.ExecContext(ctx, query, nullInt(c.Score), string(c.Status), nullTime(c.ShortlistedAt),
		nullTime(c.TechnicalInterviewAt), nullTime(c.HRInterviewAt), nullTime(c.SelectedAt),
		nullTime(c.WillingnessDeadline), nullTime(c.WillingnessRespondedAt), nullTime(c.HiredAt),
		nullTime(c.ClosedAt), c.RejectionReason, c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return mapError("update candidacy", err)
	}
	return expectOne("update candidacy", "candidacy", c.ID, res)
}

func (r *repo) ListCandidaciesByJob(ctx context.Context, jobID string) ([]*models.Candidacy, error) {
	query := `SELECT ` + candidacyColumns + ` FROM candidacies WHERE job_id=? ORDER BY applied_at, rowid`
	rows, err := r.q.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, mapError("list candidacies", err)
	}
	defer rows.Close()

	out := []*models.Candidacy{}
	for rows.Next() {
		c, err := scanCandidacy(rows)
		if err != nil {
			return nil, mapError("scan candidacy", err)
		}
		out = append(out, c)
	}
	return out, mapError("list candidacies", rows.Err())
}

func (r *repo) CountCandidaciesByStatus(ctx context.Context, jobID string) (map[models.Status]int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM candidacies WHERE job_id=? GROUP BY status`, jobID)
	if err != nil {
		return nil, mapError("count candidacies", err)
	}
	defer rows.Close()

	counts := map[models.Status]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, mapError("scan count", err)
		}
		counts[models.Status(status)] = n
	}
	return counts, mapError("count candidacies", rows.Err())
}

func scanCandidacy(row scanner) (*models.Candidacy, error) {
	c := &models.Candidacy{}
	var (
		skills, status                                 string
		score                                          sql.NullInt64
		shortlisted, technical, hr, selected, deadline sql.NullTime
		responded, hired, closed                       sql.NullTime
	)
	err := row.Scan(&c.ID, &c.JobID, &c.CandidateID, &c.CandidateName, &c.ExperienceYears, &skills,
		&c.RelevantExperience, &c.Education, &c.Projects, &score, &status, &c.AppliedAt, &shortlisted,
		&technical, &hr, &selected, &deadline, &responded, &hired, &closed, &c.RejectionReason, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Skills = decodeList(skills)
	c.Score = intPtr(score)
	c.Status = models.Status(status)
	c.AppliedAt = c.AppliedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.ShortlistedAt = timePtr(shortlisted)
	c.TechnicalInterviewAt = timePtr(technical)
	c.HRInterviewAt = timePtr(hr)
	c.SelectedAt = timePtr(selected)
	c.WillingnessDeadline = timePtr(deadline)
	c.WillingnessRespondedAt = timePtr(responded)
	c.HiredAt = timePtr(hired)
	c.ClosedAt = timePtr(closed)
	return c, nil
}
