package policy

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/qalamdan/porsesh/pkg/models"
)

// Content creation lives here rather than in the repositories because the
// publish state and reputation rules fire at create time: authors at
// AutoPublishLevel or above go public immediately and earn the publish
// reward; everyone else waits for a moderator.

func (e *Engine) CreateQuestion(ctx context.Context, author *models.User, q *models.Question, tagIDs []int64) (int64, error) {
	if author == nil {
		return 0, ErrUnauthenticated
	}
	q.Title = strings.TrimSpace(q.Title)
	q.Body = strings.TrimSpace(q.Body)
	if q.Title == "" || q.Body == "" {
		return 0, fmt.Errorf("%w: title and body are required", ErrValidation)
	}

	var id int64
	err := e.db.InTx(ctx, func(tx *sql.Tx) error {
		now := nowMillis()
		published, publishedAt, publishedBy := publishFieldsFor(author, now)

		res, err := tx.ExecContext(ctx,
			`INSERT INTO questions (user_id, category_id, title, body, published, published_at, published_by, created, updated)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			author.ID, q.CategoryID, q.Title, q.Body, published, publishedAt, publishedBy, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for _, tagID := range tagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO question_tags (question_id, tag_id) VALUES (?, ?)`, id, tagID,
			); err != nil {
				return fmt.Errorf("tag question: %w", err)
			}
		}

		if published == 1 {
			return addScore(ctx, tx, author.ID, PointsPublish)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (e *Engine) CreateAnswer(ctx context.Context, author *models.User, a *models.Answer) (int64, error) {
	if author == nil {
		return 0, ErrUnauthenticated
	}
	a.Body = strings.TrimSpace(a.Body)
	if a.Body == "" {
		return 0, fmt.Errorf("%w: body is required", ErrValidation)
	}

	var id int64
	err := e.db.InTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM questions WHERE id = ?`, a.QuestionID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: question %d", ErrNotFound, a.QuestionID)
		}

		now := nowMillis()
		published, publishedAt, publishedBy := publishFieldsFor(author, now)

		res, err := tx.ExecContext(ctx,
			`INSERT INTO answers (question_id, user_id, body, is_correct, published, published_at, published_by, created, updated)
			 VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?)`,
			a.QuestionID, author.ID, a.Body, published, publishedAt, publishedBy, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		if published == 1 {
			return addScore(ctx, tx, author.ID, PointsPublish)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateComment posts a comment on a question or answer. The commenter earns
// the comment reward at posting time whether or not the comment is
// immediately visible; auto-publish carries no extra publish reward for
// comments.
func (e *Engine) CreateComment(ctx context.Context, author *models.User, c *models.Comment) (int64, error) {
	if author == nil {
		return 0, ErrUnauthenticated
	}
	if c.CommentableType != models.KindQuestion && c.CommentableType != models.KindAnswer {
		return 0, fmt.Errorf("%w: commentable type %q", ErrValidation, c.CommentableType)
	}
	c.Body = strings.TrimSpace(c.Body)
	if c.Body == "" {
		return 0, fmt.Errorf("%w: body is required", ErrValidation)
	}

	var id int64
	err := e.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := loadContent(ctx, tx, c.CommentableType, c.CommentableID); err != nil {
			return err
		}

		now := nowMillis()
		published, publishedAt, publishedBy := publishFieldsFor(author, now)

		res, err := tx.ExecContext(ctx,
			`INSERT INTO comments (commentable_type, commentable_id, user_id, body, published, published_at, published_by, created)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CommentableType, c.CommentableID, author.ID, c.Body, published, publishedAt, publishedBy, now,
		)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		return addScore(ctx, tx, author.ID, PointsComment)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// publishFieldsFor returns the publish columns for freshly created content:
// authors at AutoPublishLevel or above self-publish on create.
func publishFieldsFor(author *models.User, now int64) (published int, publishedAt, publishedBy any) {
	if author.Level >= AutoPublishLevel {
		return 1, now, author.ID
	}
	return 0, nil, nil
}
