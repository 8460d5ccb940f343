package policy_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	forumdb "github.com/qalamdan/porsesh/db"
	"github.com/qalamdan/porsesh/internal/db"
	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/internal/repository/sqlite"
	"github.com/qalamdan/porsesh/pkg/models"
)

// setupEngine opens a uniquely named in-memory database with the real
// migrations applied and returns the policy engine plus the repo for
// fixtures and assertions.
func setupEngine(t *testing.T) (*policy.Engine, *sqlite.SQLiteRepo, *db.DB) {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	d, err := db.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.Migrate(ctx, d, forumdb.Migrations, forumdb.SeedFiles); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := sqlite.New(d)
	return policy.New(d, nil, nil), repo, d
}

// newUser inserts a user at the given level and returns the stored row.
func newUser(t *testing.T, repo *sqlite.SQLiteRepo, name string, level int) *models.User {
	t.Helper()
	ctx := context.Background()

	id, err := repo.CreateUser(ctx, &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Level:        level,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}

	u, err := repo.GetUserByID(ctx, id)
	if err != nil || u == nil {
		t.Fatalf("load user %s: %v", name, err)
	}
	return u
}

// newQuestion inserts a question owned by owner, published or not.
func newQuestion(t *testing.T, repo *sqlite.SQLiteRepo, owner *models.User, published bool) int64 {
	t.Helper()

	q := &models.Question{UserID: owner.ID, Title: "عنوان", Body: "متن پرسش", Published: published}
	if published {
		ts := int64(1)
		q.PublishedAt = &ts
		q.PublishedBy = &owner.ID
	}
	id, err := repo.CreateQuestion(context.Background(), q)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return id
}

// newAnswer inserts a published answer by owner under questionID.
func newAnswer(t *testing.T, repo *sqlite.SQLiteRepo, owner *models.User, questionID int64) int64 {
	t.Helper()

	ts := int64(1)
	id, err := repo.CreateAnswer(context.Background(), &models.Answer{
		QuestionID:  questionID,
		UserID:      owner.ID,
		Body:        "پاسخ",
		Published:   true,
		PublishedAt: &ts,
		PublishedBy: &owner.ID,
	})
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return id
}

func score(t *testing.T, repo *sqlite.SQLiteRepo, userID int64) int64 {
	t.Helper()

	u, err := repo.GetUserByID(context.Background(), userID)
	if err != nil || u == nil {
		t.Fatalf("load user %d: %v", userID, err)
	}
	return u.Score
}
