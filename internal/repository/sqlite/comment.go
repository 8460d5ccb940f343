package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
)

const commentCols = `c.id, c.commentable_type, c.commentable_id, c.user_id, c.body, c.published, c.published_at, c.published_by, c.created`

func (r *SQLiteRepo) CreateComment(ctx context.Context, c *models.Comment) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("comment is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO comments (commentable_type, commentable_id, user_id, body, published, published_at, published_by, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CommentableType, c.CommentableID, c.UserID, c.Body, c.Published, c.PublishedAt, c.PublishedBy, now(),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+commentCols+` FROM comments c WHERE c.id = ?`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *SQLiteRepo) ListComments(ctx context.Context, viewer *models.User, kind models.ContentKind, commentableID int64) ([]models.Comment, error) {
	where, args := policy.VisibilityClause(viewer, "c")
	query := `SELECT ` + commentCols + ` FROM comments c WHERE c.commentable_type = ? AND c.commentable_id = ? AND ` + where + ` ORDER BY c.created ASC`
	args = append([]any{kind, commentableID}, args...)

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *c)
	}

	return out, rows.Err()
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var publishedAt, publishedBy sql.NullInt64
	var published int
	if err := row.Scan(&c.ID, &c.CommentableType, &c.CommentableID, &c.UserID, &c.Body, &published, &publishedAt, &publishedBy, &c.Created); err != nil {
		return nil, err
	}

	c.Published = published != 0
	if publishedAt.Valid {
		c.PublishedAt = &publishedAt.Int64
	}
	if publishedBy.Valid {
		c.PublishedBy = &publishedBy.Int64
	}

	return &c, nil
}
