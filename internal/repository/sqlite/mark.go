package sqlite

import (
	"context"
	"database/sql"

	"github.com/qalamdan/porsesh/pkg/models"
)

func (r *SQLiteRepo) GetMark(ctx context.Context, answerID, markerID int64) (*models.CorrectnessMark, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, answer_id, marker_id, is_correct, created, updated FROM correctness_marks WHERE answer_id = ? AND marker_id = ?`,
		answerID, markerID,
	)
	m, err := scanMark(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *SQLiteRepo) ListMarksByAnswer(ctx context.Context, answerID int64) ([]models.CorrectnessMark, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, answer_id, marker_id, is_correct, created, updated FROM correctness_marks WHERE answer_id = ? ORDER BY created ASC`,
		answerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CorrectnessMark
	for rows.Next() {
		m, err := scanMark(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *m)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountMarksByMarker(ctx context.Context, markerID int64) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM correctness_marks WHERE marker_id = ?`, markerID)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func scanMark(row rowScanner) (*models.CorrectnessMark, error) {
	var m models.CorrectnessMark
	var isCorrect int
	if err := row.Scan(&m.ID, &m.AnswerID, &m.MarkerID, &isCorrect, &m.Created, &m.Updated); err != nil {
		return nil, err
	}
	m.IsCorrect = isCorrect != 0
	return &m, nil
}
