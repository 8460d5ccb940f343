package policy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
)

// Scenario: a level-3 user publishes a level-1 user's unpublished question.
func TestPublishByHigherLevel(t *testing.T) {
	engine, repo, _ := setupEngine(t)
	ctx := context.Background()

	author := newUser(t, repo, "author", 1)
	moderator := newUser(t, repo, "moderator", 3)
	questionID := newQuestion(t, repo, author, false)

	if err := engine.Publish(ctx, moderator, models.KindQuestion, questionID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	q, err := repo.GetQuestionByID(ctx, questionID)
	if err != nil || q == nil {
		t.Fatalf("load question: %v", err)
	}
	if !q.Published {
		t.Fatal("question not published")
	}
	if q.PublishedBy == nil || *q.PublishedBy != moderator.ID {
		t.Fatalf("published_by = %v, want %d", q.PublishedBy, moderator.ID)
	}
	if q.PublishedAt == nil || *q.PublishedAt == 0 {
		t.Fatal("published_at not set")
	}
	if got := score(t, repo, moderator.ID); got != policy.PointsPublish {
		t.Fatalf("moderator score = %d, want %d", got, policy.PointsPublish)
	}
	if got := score(t, repo, author.ID); got != 0 {
		t.Fatalf("author score = %d, want 0", got)
	}
}

func TestPublishSameLevelForbidden(t *testing.T) {
	engine, repo, _ := setupEngine(t)
	ctx := context.Background()

	author := newUser(t, repo, "author", 2)
	peer := newUser(t, repo, "peer", 2)
	questionID := newQuestion(t, repo, author, false)

	err := engine.Publish(ctx, peer, models.KindQuestion, questionID)
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	q, _ := repo.GetQuestionByID(ctx, questionID)
	if q.Published || q.PublishedBy != nil {
		t.Fatal("question mutated by forbidden publish")
	}
	if got := score(t, repo, peer.ID); got != 0 {
		t.Fatalf("peer score = %d, want 0", got)
	}
}

func TestPublishSelfForbidden(t *testing.T) {
	engine, repo, _ := setupEngine(t)
	ctx := context.Background()

	// even a high-level owner may not publish their own backlog item
	author := newUser(t, repo, "author", 5)
	questionID := newQuestion(t, repo, author, false)

	if err := engine.Publish(ctx, author, models.KindQuestion, questionID); !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

// A second publish must fail and leave published_by/published_at untouched:
// no double-award of points.
func TestPublishTwice(t *testing.T) {
	engine, repo, _ := setupEngine(t)
	ctx := context.Background()

	author := newUser(t, repo, "author", 1)
	first := newUser(t, repo, "first", 3)
	second := newUser(t, repo, "second", 4)
	questionID := newQuestion(t, repo, author, false)

	if err := engine.Publish(ctx, first, models.KindQuestion, questionID); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	before, _ := repo.GetQuestionByID(ctx, questionID)

	if err := engine.Publish(ctx, second, models.KindQuestion, questionID); !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("second publish err = %v, want ErrForbidden", err)
	}

	after, _ := repo.GetQuestionByID(ctx, questionID)
	if *after.PublishedBy != *before.PublishedBy || *after.PublishedAt != *before.PublishedAt {
		t.Fatal("second publish mutated publish fields")
	}
	if got := score(t, repo, second.ID); got != 0 {
		t.Fatalf("second actor score = %d, want 0", got)
	}
}

func TestPublishUnauthenticated(t *testing.T) {
	engine, repo, _ := setupEngine(t)

	author := newUser(t, repo, "author", 1)
	questionID := newQuestion(t, repo, author, false)

	if err := engine.Publish(context.Background(), nil, models.KindQuestion, questionID); !errors.Is(err, policy.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestPublishMissingContent(t *testing.T) {
	engine, repo, _ := setupEngine(t)

	moderator := newUser(t, repo, "moderator", 3)

	if err := engine.Publish(context.Background(), moderator, models.KindAnswer, 999); !errors.Is(err, policy.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
