package database

import (
	"context"
	"database/sql"

	"github.com/khrees2412/hireflow/pkg/models"
)

func (r *repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (id, recipient_id, type, title, message, interview_at,
			  interview_link, read, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, n.ID, n.RecipientID, string(n.Type), n.Title, n.Message,
		nullTime(n.InterviewAt), n.InterviewLink, n.Read, n.CreatedAt.UTC())
	return mapError("create notification", err)
}

func (r *repo) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	query := `SELECT id, recipient_id, type, title, message, interview_at, interview_link, read, created_at
			  FROM notifications WHERE recipient_id=?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.q.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	defer rows.Close()

	out := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var (
			kind        string
			interviewAt sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &kind, &n.Title, &n.Message, &interviewAt,
			&n.InterviewLink, &n.Read, &n.CreatedAt); err != nil {
			return nil, mapError("scan notification", err)
		}
		n.Type = models.NotificationType(kind)
		n.InterviewAt = timePtr(interviewAt)
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, mapError("list notifications", rows.Err())
}

func (r *repo) MarkNotificationRead(ctx context.Context, id, recipientID string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id=? AND recipient_id=?`, id, recipientID)
	if err != nil {
		return mapError("mark notification read", err)
	}
	return expectOne("mark notification read", "notification", id, res)
}
