package policy

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/qalamdan/porsesh/internal/db"
	"github.com/qalamdan/porsesh/pkg/models"
)

// Notifier receives out-of-band notification requests after a policy
// operation commits. Implementations typically enqueue a background job.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind string, payload any)
}

// Engine hosts the forum's rule logic: visibility, publishing, correctness
// consensus, votes and reputation. Every mutating operation runs as one
// transaction: read current state, validate eligibility, write new state,
// write the reputation delta.
type Engine struct {
	db       *db.DB
	logger   *slog.Logger
	notifier Notifier
}

func New(d *db.DB, logger *slog.Logger, notifier Notifier) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{db: d, logger: logger, notifier: notifier}
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// tableFor maps a content kind to its table. Kinds are validated at the API
// boundary; an unknown kind here is a programming error.
func tableFor(kind models.ContentKind) string {
	switch kind {
	case models.KindQuestion:
		return "questions"
	case models.KindAnswer:
		return "answers"
	case models.KindComment:
		return "comments"
	}
	panic(fmt.Sprintf("unknown content kind %q", kind))
}

// contentRow is the slice of a content item the policies need: owner,
// owner level and publish state.
type contentRow struct {
	ID         int64
	OwnerID    int64
	OwnerLevel int
	Published  bool
}

// loadContent reads the policy-relevant fields of a content item inside the
// operation's transaction. Returns ErrNotFound when no row exists.
func loadContent(ctx context.Context, tx *sql.Tx, kind models.ContentKind, id int64) (*contentRow, error) {
	table := tableFor(kind)
	q := fmt.Sprintf(`SELECT c.id, c.user_id, u.level, c.published FROM %s c JOIN users u ON u.id = c.user_id WHERE c.id = ?`, table)
	var row contentRow
	var published int
	if err := tx.QueryRowContext(ctx, q, id).Scan(&row.ID, &row.OwnerID, &row.OwnerLevel, &published); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
		}
		return nil, err
	}
	row.Published = published != 0
	return &row, nil
}

func (e *Engine) notify(ctx context.Context, userID int64, kind string, payload any) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(ctx, userID, kind, payload)
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. The unique indexes are the authoritative guard against races;
// application-level checks are advisory only.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
