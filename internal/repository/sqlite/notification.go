package sqlite

import (
	"context"
	"fmt"

	"github.com/qalamdan/porsesh/pkg/models"
)

func (r *SQLiteRepo) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("notification is nil")
	}
	payload := n.Payload
	if payload == "" {
		payload = "{}"
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO notifications (user_id, kind, payload, read, created) VALUES (?, ?, ?, 0, ?)`,
		n.UserID, n.Kind, payload, now(),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListNotificationsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, user_id, kind, payload, read, created FROM notifications WHERE user_id = ? ORDER BY created DESC LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Payload, &read, &n.Created); err != nil {
			return nil, err
		}
		n.Read = read != 0

		out = append(out, n)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) MarkNotificationsRead(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE notifications SET read = 1 WHERE user_id = ?`, userID)
	return err
}
