package policy

import (
	"fmt"

	"github.com/qalamdan/porsesh/pkg/models"
)

// ContentView is the minimal projection of a content item the visibility
// rule needs. Handlers build it from a loaded row; listing queries use
// VisibilityClause instead, which compiles the same rule to SQL.
type ContentView struct {
	OwnerID    int64
	OwnerLevel int
	Published  bool
}

// Visible decides whether viewer may see item. Rules, in order: published
// content is public; anonymous viewers see only published content; owners
// always see their own; admins see everything; otherwise a viewer sees
// unpublished content only when its owner's level is strictly below theirs.
// Pure function, no side effects.
func Visible(viewer *models.User, item ContentView) bool {
	if item.Published {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.ID == item.OwnerID {
		return true
	}
	if viewer.IsAdmin() {
		return true
	}
	return item.OwnerLevel < viewer.Level
}

// VisibilityClause compiles the Visible rule into a SQL fragment over a
// content table aliased as alias (columns published, user_id). The owner's
// level is resolved with a scalar subquery so callers need no extra join.
// Filtering a listing with this clause yields exactly the rows for which
// Visible returns true.
func VisibilityClause(viewer *models.User, alias string) (string, []any) {
	if viewer == nil {
		return fmt.Sprintf("%s.published = 1", alias), nil
	}
	if viewer.IsAdmin() {
		return "1 = 1", nil
	}
	clause := fmt.Sprintf(
		"(%s.published = 1 OR %s.user_id = ? OR (SELECT level FROM users WHERE id = %s.user_id) < ?)",
		alias, alias, alias,
	)
	return clause, []any{viewer.ID, viewer.Level}
}
