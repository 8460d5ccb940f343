package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/pkg/models"
)

// CanPublish reports whether actor may publish item. Self-publish is always
// denied regardless of level, and admins get no blanket bypass here: only
// the ownership and relative-level rule applies to the publish action.
func CanPublish(actor *models.User, item ContentView) bool {
	if actor == nil || item.Published {
		return false
	}
	if actor.ID == item.OwnerID {
		return false
	}
	return item.OwnerLevel < actor.Level
}

// Publish transitions an unpublished content item to published, records who
// published it and when, and awards the actor the publish reward, all within
// one transaction. Publishing an already-published item, or by an ineligible
// actor, fails with ErrForbidden and mutates nothing, so a second identical
// call can never double-award points.
func (e *Engine) Publish(ctx context.Context, actor *models.User, kind models.ContentKind, id int64) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	err := e.db.InTx(ctx, func(tx *sql.Tx) error {
		item, err := loadContent(ctx, tx, kind, id)
		if err != nil {
			return err
		}
		if !CanPublish(actor, ContentView{OwnerID: item.OwnerID, OwnerLevel: item.OwnerLevel, Published: item.Published}) {
			return fmt.Errorf("%w: cannot publish %s %d", ErrForbidden, kind, id)
		}

		now := nowMillis()
		q := fmt.Sprintf(`UPDATE %s SET published = 1, published_at = ?, published_by = ? WHERE id = ?`, tableFor(kind))
		if _, err := tx.ExecContext(ctx, q, now, actor.ID, id); err != nil {
			return fmt.Errorf("publish %s %d: %w", kind, id, err)
		}

		return addScore(ctx, tx, actor.ID, PointsPublish)
	})
	if err != nil {
		return err
	}

	// owner is looked up outside the tx: a failed notification must not
	// undo the publish
	if owner, lookupErr := e.ownerOf(ctx, kind, id); lookupErr == nil {
		e.notify(ctx, owner, "content_published", map[string]any{"kind": kind, "id": id, "by": actor.ID})
	}

	return nil
}

func (e *Engine) ownerOf(ctx context.Context, kind models.ContentKind, id int64) (int64, error) {
	var owner int64
	q := fmt.Sprintf(`SELECT user_id FROM %s WHERE id = ?`, tableFor(kind))
	if err := e.db.QueryRow(ctx, q, id).Scan(&owner); err != nil {
		return 0, err
	}
	return owner, nil
}
