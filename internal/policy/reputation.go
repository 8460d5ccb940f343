package policy

import (
	"context"
	"database/sql"
	"fmt"
)

// Reputation point values and rule thresholds. Every component applies
// deltas through addScore so score updates stay atomic increments.
const (
	// PointsPublish is awarded to whoever publishes a content item,
	// including authors whose level auto-publishes their own content.
	PointsPublish = 2
	// PointsUpvote / PointsDownvote go to the content owner.
	PointsUpvote   = 10
	PointsDownvote = -2
	// PointsComment goes to the commenter when the comment is posted.
	PointsComment = 2
	// PointsCorrect is gained (or lost, negated) by the answer owner when
	// the answer's effective correctness transitions.
	PointsCorrect = 10
	// PointsMark is what a marker earns for any correctness toggle.
	PointsMark = 2

	// AutoPublishLevel is the minimum author level for content to go
	// public immediately on create.
	AutoPublishLevel = 2
	// MarkerMinLevel is the minimum level for marking answer correctness.
	MarkerMinLevel = 4
	// MarkQuota caps how many marks a marker may hold across all answers
	// before new (non-toggle) marks are rejected.
	MarkQuota = 4
)

// addScore applies an atomic score delta inside the operation's transaction.
// Scores have no floor and may go negative.
func addScore(ctx context.Context, tx *sql.Tx, userID int64, delta int) error {
	if delta == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET score = score + ?, updated = ? WHERE id = ?`, delta, nowMillis(), userID); err != nil {
		return fmt.Errorf("apply score delta: %w", err)
	}
	return nil
}
