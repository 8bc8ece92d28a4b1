package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

const jobColumns = `id, title, description, recruiter_id, hiring_team, experience_years, skills,
	relevant_experience, location, vacancies, deadline, closed, close_reason, created_at, updated_at`

func (r *repo) CreateJob(ctx context.Context, job *models.JobPosting) error {
	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, job.ID, job.Title, job.Description, job.RecruiterID,
		encodeList(job.HiringTeam), job.ExperienceYears, encodeList(job.Skills), job.RelevantExperience,
		job.Location, job.Vacancies, nullTime(job.Deadline), job.Closed, job.CloseReason,
		job.CreatedAt.UTC(), job.UpdatedAt.UTC())
	return mapError("create job", err)
}

func (r *repo) GetJob(ctx context.Context, id string) (*models.JobPosting, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id=?`
	job, err := scanJob(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("job", id)
	}
	if err != nil {
		return nil, mapError("get job", err)
	}
	return job, nil
}

func (r *repo) UpdateJob(ctx context.Context, job *models.JobPosting) error {
	query := `UPDATE jobs SET title=?, description=?, hiring_team=?, experience_years=?, skills=?,
			  relevant_experience=?, location=?, vacancies=?, deadline=?, closed=?, close_reason=?, updated_at=?
			  WHERE id=?`
	res, err := r.q.ExecContext(ctx, query, job.Title, job.Description, encodeList(job.HiringTeam),
		job.ExperienceYears, encodeList(job.Skills), job.RelevantExperience, job.Location, job.Vacancies,
		nullTime(job.Deadline), job.Closed, job.CloseReason, job.UpdatedAt.UTC(), job.ID)
	if err != nil {
		return mapError("update job", err)
	}
	return expectOne("update job", "job", job.ID, res)
}

func (r *repo) ListJobs(ctx context.Context, includeClosed bool) ([]*models.JobPosting, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	if !includeClosed {
		query += ` WHERE closed = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list jobs", err)
	}
	defer rows.Close()

	jobs := []*models.JobPosting{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, mapError("scan job", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, mapError("list jobs", rows.Err())
}

func scanJob(row scanner) (*models.JobPosting, error) {
	job := &models.JobPosting{}
	var (
		hiringTeam, skills string
		deadline           sql.NullTime
	)
	err := row.Scan(&job.ID, &job.Title, &job.Description, &job.RecruiterID, &hiringTeam,
		&job.ExperienceYears, &skills, &job.RelevantExperience, &job.Location, &job.Vacancies,
		&deadline, &job.Closed, &job.CloseReason, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.HiringTeam = decodeList(hiringTeam)
	job.Skills = decodeList(skills)
	job.Deadline = timePtr(deadline)
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return job, nil
}
