package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/pkg/models"
)

// VoteState is what a vote operation reports back: current tallies plus the
// caller's own vote (nil after a toggle-off).
type VoteState struct {
	Up       int64            `json:"up"`
	Down     int64            `json:"down"`
	UserVote *models.VoteType `json:"user_vote"`
}

func voteDelta(t models.VoteType) int {
	if t == models.VoteUp {
		return PointsUpvote
	}
	return PointsDownvote
}

// CastVote applies a vote by voter on a content item. Semantics:
//
//   - no prior vote: create one and credit the owner (+10 up, -2 down);
//   - same type again: delete the vote and reverse the original delta;
//   - different type: questions switch the vote in place (reverse old delta,
//     apply new); answers and comments are single-shot once cast and reject
//     the attempt with a conflict carrying the preserved original vote.
//
// The unique index on (user_id, votable_type, votable_id) is the
// authoritative guard: a concurrent duplicate insert surfaces as the same
// conflict. At most one vote row per (voter, votable) exists at all times.
func (e *Engine) CastVote(ctx context.Context, voter *models.User, kind models.ContentKind, votableID int64, vtype models.VoteType) (*VoteState, error) {
	if voter == nil {
		return nil, ErrUnauthenticated
	}
	if !vtype.Valid() {
		return nil, fmt.Errorf("%w: vote type %q", ErrValidation, vtype)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: votable type %q", ErrValidation, kind)
	}

	state := &VoteState{}

	err := e.db.InTx(ctx, func(tx *sql.Tx) error {
		item, err := loadContent(ctx, tx, kind, votableID)
		if err != nil {
			return err
		}

		now := nowMillis()

		existing := &models.Vote{}
		hasVote := true
		err = tx.QueryRowContext(ctx,
			`SELECT id, type, last_voted_at FROM votes WHERE user_id = ? AND votable_type = ? AND votable_id = ?`,
			voter.ID, kind, votableID,
		).Scan(&existing.ID, &existing.Type, &existing.LastVotedAt)
		if err == sql.ErrNoRows {
			hasVote = false
		} else if err != nil {
			return err
		}

		switch {
		case !hasVote:
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO votes (user_id, votable_type, votable_id, type, last_voted_at) VALUES (?, ?, ?, ?, ?)`,
				voter.ID, kind, votableID, vtype, now,
			); err != nil {
				if isUniqueViolation(err) {
					return &ConflictError{}
				}
				return fmt.Errorf("insert vote: %w", err)
			}
			if err := addScore(ctx, tx, item.OwnerID, voteDelta(vtype)); err != nil {
				return err
			}
			v := vtype
			state.UserVote = &v

		case existing.Type == vtype:
			// toggle off: remove the vote and reverse its delta
			if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, existing.ID); err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
			if err := addScore(ctx, tx, item.OwnerID, -voteDelta(vtype)); err != nil {
				return err
			}
			state.UserVote = nil

		case kind == models.KindQuestion:
			// only question votes may switch direction
			if _, err := tx.ExecContext(ctx,
				`UPDATE votes SET type = ?, last_voted_at = ? WHERE id = ?`, vtype, now, existing.ID,
			); err != nil {
				return fmt.Errorf("switch vote: %w", err)
			}
			if err := addScore(ctx, tx, item.OwnerID, voteDelta(vtype)-voteDelta(existing.Type)); err != nil {
				return err
			}
			v := vtype
			state.UserVote = &v

		default:
			existing.UserID = voter.ID
			existing.VotableType = kind
			existing.VotableID = votableID
			return &ConflictError{Vote: existing}
		}

		return tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(CASE WHEN type = 'up' THEN 1 ELSE 0 END), 0),
			        COALESCE(SUM(CASE WHEN type = 'down' THEN 1 ELSE 0 END), 0)
			 FROM votes WHERE votable_type = ? AND votable_id = ?`,
			kind, votableID,
		).Scan(&state.Up, &state.Down)
	})
	if err != nil {
		return nil, err
	}

	if state.UserVote != nil && *state.UserVote == models.VoteUp {
		if owner, lookupErr := e.ownerOf(ctx, kind, votableID); lookupErr == nil && owner != voter.ID {
			e.notify(ctx, owner, "vote_received", map[string]any{"kind": kind, "id": votableID})
		}
	}

	return state, nil
}
