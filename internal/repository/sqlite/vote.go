package sqlite

import (
	"context"
	"database/sql"

	"github.com/qalamdan/porsesh/pkg/models"
)

func (r *SQLiteRepo) GetVote(ctx context.Context, userID int64, kind models.ContentKind, votableID int64) (*models.Vote, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, user_id, votable_type, votable_id, type, last_voted_at FROM votes WHERE user_id = ? AND votable_type = ? AND votable_id = ?`,
		userID, kind, votableID,
	)
	var v models.Vote
	if err := row.Scan(&v.ID, &v.UserID, &v.VotableType, &v.VotableID, &v.Type, &v.LastVotedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &v, nil
}

func (r *SQLiteRepo) CountVotes(ctx context.Context, kind models.ContentKind, votableID int64) (int64, int64, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'up' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'down' THEN 1 ELSE 0 END), 0)
		 FROM votes WHERE votable_type = ? AND votable_id = ?`,
		kind, votableID,
	)
	var up, down int64
	if err := row.Scan(&up, &down); err != nil {
		return 0, 0, err
	}
	return up, down, nil
}
