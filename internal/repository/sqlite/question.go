package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
)

const questionCols = `q.id, q.user_id, q.category_id, q.title, q.body, q.published, q.published_at, q.published_by, q.created, q.updated`

func (r *SQLiteRepo) CreateQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("question is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO questions (user_id, category_id, title, body, published, published_at, published_by, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.UserID, q.CategoryID, q.Title, q.Body, q.Published, q.PublishedAt, q.PublishedBy, ts, ts,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+questionCols+` FROM questions q WHERE q.id = ?`, id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return q, err
}

// ListQuestions returns the questions the viewer may see, newest first.
// The visibility rule is compiled into the WHERE clause so listings match
// the per-item predicate exactly.
func (r *SQLiteRepo) ListQuestions(ctx context.Context, viewer *models.User, categoryID int64, tag string, limit, offset int) ([]models.Question, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where, args := questionFilter(viewer, categoryID, tag)
	query := `SELECT ` + questionCols + ` FROM questions q WHERE ` + where + ` ORDER BY q.created DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *q)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountQuestions(ctx context.Context, viewer *models.User, categoryID int64, tag string) (int64, error) {
	where, args := questionFilter(viewer, categoryID, tag)
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM questions q WHERE `+where, args...)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *SQLiteRepo) TagQuestion(ctx context.Context, questionID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := r.conn.Exec(ctx, `INSERT OR IGNORE INTO question_tags (question_id, tag_id) VALUES (?, ?)`, questionID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// IsSolved is a derived query: a question is solved whenever any of its
// answers is marked correct. No separate persisted flag exists.
func (r *SQLiteRepo) IsSolved(ctx context.Context, questionID int64) (bool, error) {
	row := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM answers WHERE question_id = ? AND is_correct = 1)`, questionID)
	var solved int
	if err := row.Scan(&solved); err != nil {
		return false, err
	}
	return solved != 0, nil
}

func questionFilter(viewer *models.User, categoryID int64, tag string) (string, []any) {
	where, args := policy.VisibilityClause(viewer, "q")
	if categoryID > 0 {
		where += ` AND q.category_id = ?`
		args = append(args, categoryID)
	}
	if tag != "" {
		where += ` AND EXISTS (SELECT 1 FROM question_tags qt JOIN tags t ON t.id = qt.tag_id WHERE qt.question_id = q.id AND t.name = ?)`
		args = append(args, tag)
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var categoryID, publishedAt, publishedBy sql.NullInt64
	var published int
	if err := row.Scan(&q.ID, &q.UserID, &categoryID, &q.Title, &q.Body, &published, &publishedAt, &publishedBy, &q.Created, &q.Updated); err != nil {
		return nil, err
	}

	q.Published = published != 0
	if categoryID.Valid {
		q.CategoryID = &categoryID.Int64
	}
	if publishedAt.Valid {
		q.PublishedAt = &publishedAt.Int64
	}
	if publishedBy.Valid {
		q.PublishedBy = &publishedBy.Int64
	}

	return &q, nil
}
