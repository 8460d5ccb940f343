package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/qalamdan/porsesh/pkg/models"
)

type questionDetailBody struct {
	models.Question
	Solved bool `json:"solved"`
	Votes  struct {
		Up   int64 `json:"up"`
		Down int64 `json:"down"`
	} `json:"votes"`
	UserVote *models.VoteType `json:"user_vote"`
	Answers  []models.Answer  `json:"answers"`
	Comments []models.Comment `json:"comments"`
}

type listBody struct {
	Total int64             `json:"total"`
	Items []models.Question `json:"items"`
}

func userScore(t *testing.T, srv string, id int64) int64 {
	t.Helper()
	status, data := doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/users/%d", srv, id), "", nil)
	if status != http.StatusOK {
		t.Fatalf("get user %d: expected 200 got %d body=%s", id, status, string(data))
	}
	var p struct {
		Score int64 `json:"score"`
	}
	decodeInto(t, data, &p)
	return p.Score
}

// A level-1 author's question stays hidden from anonymous readers until a
// higher-level member publishes it, which also pays the author.
func TestQuestionModerationFlow(t *testing.T) {
	srv, repo := setupServer(t)
	author := seedUser(t, repo, "nevisande", 1)
	publisher := seedUser(t, repo, "modir", 3)

	status, data := doJSON(t, http.MethodPost, srv.URL+"/v1/questions", bearer(t, author.ID),
		map[string]any{"title": "چرا خروجی این تابع تغییر می‌کند؟", "body": "متن کامل پرسش", "tags": []string{"golang"}})
	if status != http.StatusCreated {
		t.Fatalf("create question: expected 201 got %d body=%s", status, string(data))
	}
	var created models.Question
	decodeInto(t, data, &created)
	if created.Published {
		t.Fatal("level-1 author's question must not auto-publish")
	}
	detailURL := fmt.Sprintf("%s/v1/questions/%d", srv.URL, created.ID)

	// hidden from anonymous readers, both in the list and at the detail URL
	status, _ = doJSON(t, http.MethodGet, detailURL, "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("anonymous detail: expected 404 got %d", status)
	}
	status, data = doJSON(t, http.MethodGet, srv.URL+"/v1/questions", "", nil)
	if status != http.StatusOK {
		t.Fatalf("anonymous list: expected 200 got %d", status)
	}
	var list listBody
	decodeInto(t, data, &list)
	if list.Total != 0 || len(list.Items) != 0 {
		t.Fatalf("anonymous list should be empty, got total=%d items=%d", list.Total, len(list.Items))
	}

	// the author and a higher-level member both see the draft
	for _, who := range []*models.User{author, publisher} {
		status, _ = doJSON(t, http.MethodGet, detailURL, bearer(t, who.ID), nil)
		if status != http.StatusOK {
			t.Fatalf("%s detail: expected 200 got %d", who.Name, status)
		}
	}

	// a same-level stranger does not
	stranger := seedUser(t, repo, "gharibe", 1)
	status, _ = doJSON(t, http.MethodGet, detailURL, bearer(t, stranger.ID), nil)
	if status != http.StatusNotFound {
		t.Fatalf("same-level stranger detail: expected 404 got %d", status)
	}

	// the author cannot publish their own question
	status, _ = doJSON(t, http.MethodPost, detailURL+"/publish", bearer(t, author.ID), nil)
	if status != http.StatusForbidden {
		t.Fatalf("self publish: expected 403 got %d", status)
	}

	// a higher-level member can
	status, data = doJSON(t, http.MethodPost, detailURL+"/publish", bearer(t, publisher.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("publish: expected 200 got %d body=%s", status, string(data))
	}
	var published models.Question
	decodeInto(t, data, &published)
	if !published.Published || published.PublishedBy == nil || *published.PublishedBy != publisher.ID {
		t.Fatalf("publish result: %+v", published)
	}
	// the moderator earns the publish reward, not the author
	if got := userScore(t, srv.URL, publisher.ID); got != 2 {
		t.Fatalf("publisher score after publish = %d, want 2", got)
	}
	if got := userScore(t, srv.URL, author.ID); got != 0 {
		t.Fatalf("author score after publish = %d, want 0", got)
	}

	// now anonymous readers see it
	status, data = doJSON(t, http.MethodGet, srv.URL+"/v1/questions", "", nil)
	if status != http.StatusOK {
		t.Fatalf("anonymous list: expected 200 got %d", status)
	}
	decodeInto(t, data, &list)
	if list.Total != 1 {
		t.Fatalf("anonymous list total = %d, want 1", list.Total)
	}

	// publishing twice is refused and mutates nothing
	status, _ = doJSON(t, http.MethodPost, detailURL+"/publish", bearer(t, publisher.ID), nil)
	if status != http.StatusForbidden {
		t.Fatalf("second publish: expected 403 got %d", status)
	}
}

func TestAnswerVotingAndCorrectness(t *testing.T) {
	srv, repo := setupServer(t)
	asker := seedUser(t, repo, "porsande", 2)
	answerer := seedUser(t, repo, "pasokhgu", 2)
	voter := seedUser(t, repo, "raydahande", 2)
	marker := seedUser(t, repo, "davar", 4)

	status, data := doJSON(t, http.MethodPost, srv.URL+"/v1/questions", bearer(t, asker.ID),
		map[string]any{"title": "بهترین روش مدیریت خطا چیست؟", "body": "متن پرسش"})
	if status != http.StatusCreated {
		t.Fatalf("create question: expected 201 got %d body=%s", status, string(data))
	}
	var q models.Question
	decodeInto(t, data, &q)
	if !q.Published {
		t.Fatal("level-2 asker's question should auto-publish")
	}

	status, data = doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/questions/%d/answers", srv.URL, q.ID),
		bearer(t, answerer.ID), map[string]any{"body": "پاسخ کامل"})
	if status != http.StatusCreated {
		t.Fatalf("create answer: expected 201 got %d body=%s", status, string(data))
	}
	var a models.Answer
	decodeInto(t, data, &a)

	voteURL := fmt.Sprintf("%s/v1/answers/%d/vote", srv.URL, a.ID)

	status, data = doJSON(t, http.MethodPost, voteURL, bearer(t, voter.ID), map[string]string{"type": "up"})
	if status != http.StatusOK {
		t.Fatalf("upvote: expected 200 got %d body=%s", status, string(data))
	}
	var state struct {
		Up       int64            `json:"up"`
		Down     int64            `json:"down"`
		UserVote *models.VoteType `json:"user_vote"`
	}
	decodeInto(t, data, &state)
	if state.Up != 1 || state.Down != 0 || state.UserVote == nil || *state.UserVote != models.VoteUp {
		t.Fatalf("vote state after upvote: %+v", state)
	}
	// 2 for the auto-publish, 10 for the upvote
	if got := userScore(t, srv.URL, answerer.ID); got != 12 {
		t.Fatalf("answerer score after upvote = %d, want 12", got)
	}

	// switching a vote on an answer is refused; the original vote survives
	status, data = doJSON(t, http.MethodPost, voteURL, bearer(t, voter.ID), map[string]string{"type": "down"})
	if status != http.StatusConflict {
		t.Fatalf("vote switch: expected 409 got %d body=%s", status, string(data))
	}
	var conflict struct {
		Vote *models.Vote `json:"vote"`
	}
	decodeInto(t, data, &conflict)
	if conflict.Vote == nil || conflict.Vote.Type != models.VoteUp {
		t.Fatalf("conflict body should carry the preserved upvote: %s", string(data))
	}

	// a level-4 member accepts the answer
	status, data = doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/answers/%d/toggle-correctness", srv.URL, a.ID),
		bearer(t, marker.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("toggle correctness: expected 200 got %d body=%s", status, string(data))
	}
	var toggled struct {
		Success   bool `json:"success"`
		IsCorrect bool `json:"is_correct"`
	}
	decodeInto(t, data, &toggled)
	if !toggled.Success || !toggled.IsCorrect {
		t.Fatalf("toggle result: %+v", toggled)
	}
	// 12 from before, 10 for the accepted answer
	if got := userScore(t, srv.URL, answerer.ID); got != 22 {
		t.Fatalf("answerer score after acceptance = %d, want 22", got)
	}

	status, data = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/questions/%d", srv.URL, q.ID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("question detail: expected 200 got %d", status)
	}
	var detail questionDetailBody
	decodeInto(t, data, &detail)
	if !detail.Solved {
		t.Fatal("question with an accepted answer should be solved")
	}
	if len(detail.Answers) != 1 || !detail.Answers[0].IsCorrect {
		t.Fatalf("detail answers: %+v", detail.Answers)
	}
}

func TestQuestionVoteSwitchAllowed(t *testing.T) {
	srv, repo := setupServer(t)
	asker := seedUser(t, repo, "porsande", 2)
	voter := seedUser(t, repo, "raydahande", 2)

	status, data := doJSON(t, http.MethodPost, srv.URL+"/v1/questions", bearer(t, asker.ID),
		map[string]any{"title": "عنوان", "body": "متن"})
	if status != http.StatusCreated {
		t.Fatalf("create question: expected 201 got %d", status)
	}
	var q models.Question
	decodeInto(t, data, &q)

	voteURL := fmt.Sprintf("%s/v1/questions/%d/vote", srv.URL, q.ID)
	if status, _ = doJSON(t, http.MethodPost, voteURL, bearer(t, voter.ID), map[string]string{"type": "up"}); status != http.StatusOK {
		t.Fatalf("upvote: expected 200 got %d", status)
	}

	// unlike answers, a question vote may switch direction
	status, data = doJSON(t, http.MethodPost, voteURL, bearer(t, voter.ID), map[string]string{"type": "down"})
	if status != http.StatusOK {
		t.Fatalf("switch: expected 200 got %d body=%s", status, string(data))
	}
	var state struct {
		Up   int64 `json:"up"`
		Down int64 `json:"down"`
	}
	decodeInto(t, data, &state)
	if state.Up != 0 || state.Down != 1 {
		t.Fatalf("state after switch: %+v", state)
	}
}

func TestRequestValidation(t *testing.T) {
	srv, repo := setupServer(t)
	user := seedUser(t, repo, "karbar", 2)

	// missing title
	status, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/questions", bearer(t, user.ID),
		map[string]any{"body": "متن"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("missing title: expected 422 got %d", status)
	}

	// unknown vote direction
	status, data := doJSON(t, http.MethodPost, srv.URL+"/v1/questions", bearer(t, user.ID),
		map[string]any{"title": "عنوان", "body": "متن"})
	if status != http.StatusCreated {
		t.Fatalf("create question: expected 201 got %d", status)
	}
	var q models.Question
	decodeInto(t, data, &q)
	status, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/questions/%d/vote", srv.URL, q.ID),
		bearer(t, user.ID), map[string]string{"type": "sideways"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("bad vote type: expected 422 got %d", status)
	}

	// creating content requires a token
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/questions", "",
		map[string]any{"title": "عنوان", "body": "متن"})
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401 got %d", status)
	}
}

func TestCommentsOnAnswer(t *testing.T) {
	srv, repo := setupServer(t)
	asker := seedUser(t, repo, "porsande", 2)
	commenter := seedUser(t, repo, "sharhnevis", 2)

	status, data := doJSON(t, http.MethodPost, srv.URL+"/v1/questions", bearer(t, asker.ID),
		map[string]any{"title": "عنوان", "body": "متن"})
	if status != http.StatusCreated {
		t.Fatalf("create question: expected 201 got %d", status)
	}
	var q models.Question
	decodeInto(t, data, &q)

	status, data = doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/questions/%d/comments", srv.URL, q.ID),
		bearer(t, commenter.ID), map[string]string{"body": "نکته‌ای درباره پرسش"})
	if status != http.StatusCreated {
		t.Fatalf("create comment: expected 201 got %d body=%s", status, string(data))
	}
	var c models.Comment
	decodeInto(t, data, &c)
	if c.CommentableType != models.KindQuestion || c.CommentableID != q.ID {
		t.Fatalf("comment target: %+v", c)
	}
	if got := userScore(t, srv.URL, commenter.ID); got != 2 {
		t.Fatalf("commenter score = %d, want 2", got)
	}

	status, data = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/questions/%d", srv.URL, q.ID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("detail: expected 200 got %d", status)
	}
	var detail questionDetailBody
	decodeInto(t, data, &detail)
	if len(detail.Comments) != 1 {
		t.Fatalf("detail comments = %d, want 1", len(detail.Comments))
	}
}
