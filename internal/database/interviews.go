package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/pkg/models"
)

const interviewColumns = `id, candidacy_id, candidate_name, kind, starts_at, duration_minutes, platform,
	link, result, feedback, created_by, created_at, superseded_at`

func (r *repo) CreateInterview(ctx context.Context, iv *models.Interview) error {
	query := `INSERT INTO interviews (` + interviewColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, iv.ID, iv.CandidacyID, iv.CandidateName, string(iv.Kind),
		iv.StartsAt.UTC(), iv.DurationMinutes, iv.Platform, iv.Link, string(iv.Result), iv.Feedback,
		iv.CreatedBy, iv.CreatedAt.UTC(), nullTime(iv.SupersededAt))
	return mapError("create interview", err)
}

func (r *repo) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id=?`
	iv, err := scanInterview(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("interview", id)
	}
	if err != nil {
		return nil, mapError("get interview", err)
	}
	return iv, nil
}

func (r *repo) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	query := `UPDATE interviews SET result=?, feedback=?, superseded_at=? WHERE id=?`
	res, err := r.q.ExecContext(ctx, query, string(iv.Result), iv.Feedback, nullTime(iv.SupersededAt), iv.ID)
	if err != nil {
		return mapError("update interview", err)
	}
	return expectOne("update interview", "interview", iv.ID, res)
}

func (r *repo) ListInterviewsByCandidacy(ctx context.Context, candidacyID string) ([]*models.Interview, error) {
	return r.listInterviews(ctx, "candidacy_id", candidacyID)
}

func (r *repo) ListInterviewsByRecruiter(ctx context.Context, recruiterID string) ([]*models.Interview, error) {
	return r.listInterviews(ctx, "created_by", recruiterID)
}

func (r *repo) listInterviews(ctx context.Context, column, value string) ([]*models.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE ` + column + `=? ORDER BY starts_at, rowid`
	rows, err := r.q.QueryContext(ctx, query, value)
	if err != nil {
		return nil, mapError("list interviews", err)
	}
	defer rows.Close()

	out := []*models.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, mapError("scan interview", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list interviews", err)
	}
	models.SortInterviews(out)
	return out, nil
}

func scanInterview(row scanner) (*models.Interview, error) {
	iv := &models.Interview{}
	var (
		kind, result string
		superseded   sql.NullTime
	)
	err := row.Scan(&iv.ID, &iv.CandidacyID, &iv.CandidateName, &kind, &iv.StartsAt, &iv.DurationMinutes,
		&iv.Platform, &iv.Link, &result, &iv.Feedback, &iv.CreatedBy, &iv.CreatedAt, &superseded)
	if err != nil {
		return nil, err
	}
	iv.Kind = models.InterviewKind(kind)
	iv.Result = models.InterviewResult(result)
	iv.StartsAt = iv.StartsAt.UTC()
	iv.CreatedAt = iv.CreatedAt.UTC()
	iv.SupersededAt = timePtr(superseded)
	return iv, nil
}
