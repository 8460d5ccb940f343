package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
)

const answerCols = `a.id, a.question_id, a.user_id, a.body, a.is_correct, a.published, a.published_at, a.published_by, a.created, a.updated`

func (r *SQLiteRepo) CreateAnswer(ctx context.Context, a *models.Answer) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("answer is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO answers (question_id, user_id, body, is_correct, published, published_at, published_by, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.QuestionID, a.UserID, a.Body, a.IsCorrect, a.Published, a.PublishedAt, a.PublishedBy, ts, ts,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetAnswerByID(ctx context.Context, id int64) (*models.Answer, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+answerCols+` FROM answers a WHERE a.id = ?`, id)
	a, err := scanAnswer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListAnswersByQuestion returns the question's answers the viewer may see,
// correct answers first, then oldest first.
func (r *SQLiteRepo) ListAnswersByQuestion(ctx context.Context, viewer *models.User, questionID int64) ([]models.Answer, error) {
	where, args := policy.VisibilityClause(viewer, "a")
	query := `SELECT ` + answerCols + ` FROM answers a WHERE a.question_id = ? AND ` + where + ` ORDER BY a.is_correct DESC, a.created ASC`
	args = append([]any{questionID}, args...)

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, rows.Err()
}

func scanAnswer(row rowScanner) (*models.Answer, error) {
	var a models.Answer
	var publishedAt, publishedBy sql.NullInt64
	var isCorrect, published int
	if err := row.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Body, &isCorrect, &published, &publishedAt, &publishedBy, &a.Created, &a.Updated); err != nil {
		return nil, err
	}

	a.IsCorrect = isCorrect != 0
	a.Published = published != 0
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Int64
	}
	if publishedBy.Valid {
		a.PublishedBy = &publishedBy.Int64
	}

	return &a, nil
}
