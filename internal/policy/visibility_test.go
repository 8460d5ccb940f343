package policy_test

import (
	"context"
	"testing"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
)

func TestVisiblePredicate(t *testing.T) {
	owner := &models.User{ID: 1, Level: 2}
	sameLevel := &models.User{ID: 2, Level: 2}
	higher := &models.User{ID: 3, Level: 5}
	lower := &models.User{ID: 4, Level: 1}
	admin := &models.User{ID: 5, Level: 1, Role: models.RoleAdmin}

	published := policy.ContentView{OwnerID: 1, OwnerLevel: 2, Published: true}
	unpublished := policy.ContentView{OwnerID: 1, OwnerLevel: 2, Published: false}

	cases := []struct {
		name   string
		viewer *models.User
		item   policy.ContentView
		want   bool
	}{
		{"published visible to anonymous", nil, published, true},
		{"published visible to anyone", lower, published, true},
		{"unpublished hidden from anonymous", nil, unpublished, false},
		{"owner sees own unpublished", owner, unpublished, true},
		{"higher level sees unpublished", higher, unpublished, true},
		{"same level cannot see unpublished", sameLevel, unpublished, false},
		{"lower level cannot see unpublished", lower, unpublished, false},
		{"admin sees unpublished regardless of level", admin, unpublished, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Visible(tc.viewer, tc.item); got != tc.want {
				t.Fatalf("Visible = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestVisibilityClauseMatchesPredicate checks that filtering a listing with
// the compiled SQL clause returns exactly the rows the predicate accepts.
func TestVisibilityClauseMatchesPredicate(t *testing.T) {
	_, repo, _ := setupEngine(t)
	ctx := context.Background()

	users := []*models.User{
		newUser(t, repo, "u-level1", 1),
		newUser(t, repo, "u-level2", 2),
		newUser(t, repo, "u-level3", 3),
		newUser(t, repo, "u-level5", 5),
	}

	// every (owner, published) combination
	type row struct {
		questionID int64
		view       policy.ContentView
	}
	var rows []row
	for _, owner := range users {
		for _, published := range []bool{true, false} {
			id := newQuestion(t, repo, owner, published)
			rows = append(rows, row{id, policy.ContentView{OwnerID: owner.ID, OwnerLevel: owner.Level, Published: published}})
		}
	}

	viewers := append([]*models.User{nil}, users...)
	viewers = append(viewers, &models.User{ID: users[0].ID, Level: 1, Role: models.RoleAdmin})

	for _, viewer := range viewers {
		listed, err := repo.ListQuestions(ctx, viewer, 0, "", 100, 0)
		if err != nil {
			t.Fatalf("list questions: %v", err)
		}
		got := map[int64]bool{}
		for _, q := range listed {
			got[q.ID] = true
		}

		for _, r := range rows {
			want := policy.Visible(viewer, r.view)
			if got[r.questionID] != want {
				t.Fatalf("viewer %+v question %d: listed=%v predicate=%v", viewer, r.questionID, got[r.questionID], want)
			}
		}
	}
}
