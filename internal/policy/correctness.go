package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/pkg/models"
)

// ToggleCorrectness records or flips marker's correctness mark on an answer
// and resolves the answer's effective correctness by deferring to the
// highest-level marker (ties broken by most recently updated mark, then
// mark id). Returns the answer's effective is_correct after the operation.
//
// Eligibility: marker level >= MarkerMinLevel, never on one's own answer.
// A marker who already holds a mark on the answer may always toggle it. A
// marker placing a first mark on the answer is rejected when a strictly
// higher-level mark already exists, or when they already hold MarkQuota
// marks across all answers. First marks default to correct.
func (e *Engine) ToggleCorrectness(ctx context.Context, marker *models.User, answerID int64) (bool, error) {
	if marker == nil {
		return false, ErrUnauthenticated
	}
	if marker.Level < MarkerMinLevel {
		return false, fmt.Errorf("%w: level %d below marking threshold", ErrForbidden, marker.Level)
	}

	var effective bool
	var ownerID int64
	var becameCorrect bool

	err := e.db.InTx(ctx, func(tx *sql.Tx) error {
		var questionID int64
		var wasCorrect int
		err := tx.QueryRowContext(ctx,
			`SELECT user_id, question_id, is_correct FROM answers WHERE id = ?`, answerID,
		).Scan(&ownerID, &questionID, &wasCorrect)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: answer %d", ErrNotFound, answerID)
			}
			return err
		}
		if ownerID == marker.ID {
			return fmt.Errorf("%w: cannot mark own answer", ErrForbidden)
		}

		// mark timestamps on one answer are kept strictly increasing so
		// "most recently updated wins" stays deterministic even when two
		// toggles land in the same millisecond
		now := nowMillis()
		var latest int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(updated), 0) FROM correctness_marks WHERE answer_id = ?`, answerID,
		).Scan(&latest); err != nil {
			return err
		}
		if now <= latest {
			now = latest + 1
		}

		var markID int64
		var markValue int
		hasMark := true
		err = tx.QueryRowContext(ctx,
			`SELECT id, is_correct FROM correctness_marks WHERE answer_id = ? AND marker_id = ?`,
			answerID, marker.ID,
		).Scan(&markID, &markValue)
		if err == sql.ErrNoRows {
			hasMark = false
		} else if err != nil {
			return err
		}

		if hasMark {
			// toggle in place
			markValue = 1 - markValue
			if _, err := tx.ExecContext(ctx,
				`UPDATE correctness_marks SET is_correct = ?, updated = ? WHERE id = ?`,
				markValue, now, markID,
			); err != nil {
				return fmt.Errorf("toggle mark: %w", err)
			}
		} else {
			var maxLevel int
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(u.level), 0) FROM correctness_marks m JOIN users u ON u.id = m.marker_id WHERE m.answer_id = ?`,
				answerID,
			).Scan(&maxLevel); err != nil {
				return err
			}
			if marker.Level < maxLevel {
				return fmt.Errorf("%w: a higher-level marker already ruled on answer %d", ErrForbidden, answerID)
			}

			var outstanding int64
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM correctness_marks WHERE marker_id = ?`, marker.ID,
			).Scan(&outstanding); err != nil {
				return err
			}
			if outstanding >= MarkQuota {
				return fmt.Errorf("%w: mark quota of %d reached", ErrForbidden, MarkQuota)
			}

			// first mark always defaults to correct
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO correctness_marks (answer_id, marker_id, is_correct, created, updated) VALUES (?, ?, 1, ?, ?)`,
				answerID, marker.ID, now, now,
			); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: concurrent mark on answer %d", ErrConflict, answerID)
				}
				return fmt.Errorf("insert mark: %w", err)
			}
		}

		// effective value = the highest-level marker's mark; ties go to the
		// most recently updated mark, then the later row
		var winner int
		if err := tx.QueryRowContext(ctx,
			`SELECT m.is_correct FROM correctness_marks m JOIN users u ON u.id = m.marker_id
			 WHERE m.answer_id = ? ORDER BY u.level DESC, m.updated DESC, m.id DESC LIMIT 1`,
			answerID,
		).Scan(&winner); err != nil {
			return err
		}
		effective = winner != 0

		if effective != (wasCorrect != 0) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE answers SET is_correct = ?, updated = ? WHERE id = ?`, winner, now, answerID,
			); err != nil {
				return fmt.Errorf("update answer correctness: %w", err)
			}
			delta := PointsCorrect
			if !effective {
				delta = -PointsCorrect
			}
			becameCorrect = effective
			if err := addScore(ctx, tx, ownerID, delta); err != nil {
				return err
			}
		}

		// marker earns the action reward regardless of toggle direction
		return addScore(ctx, tx, marker.ID, PointsMark)
	})
	if err != nil {
		return false, err
	}

	if becameCorrect {
		e.notify(ctx, ownerID, "answer_accepted", map[string]any{"answer_id": answerID, "by": marker.ID})
	}

	return effective, nil
}
