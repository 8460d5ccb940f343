package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
	"github.com/qalamdan/porsesh/pkg/repository"
)

type QuestionsHandler struct {
	questionRepo repository.QuestionRepo
	answerRepo   repository.AnswerRepo
	commentRepo  repository.CommentRepo
	voteRepo     repository.VoteRepo
	taxonomyRepo repository.TaxonomyRepo
	userRepo     repository.UserRepo
	engine       *policy.Engine
}

func NewQuestionsHandler(
	qr repository.QuestionRepo,
	ar repository.AnswerRepo,
	cr repository.CommentRepo,
	vr repository.VoteRepo,
	tr repository.TaxonomyRepo,
	ur repository.UserRepo,
	engine *policy.Engine,
) *QuestionsHandler {
	return &QuestionsHandler{
		questionRepo: qr,
		answerRepo:   ar,
		commentRepo:  cr,
		voteRepo:     vr,
		taxonomyRepo: tr,
		userRepo:     ur,
		engine:       engine,
	}
}

type createQuestionRequest struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	CategoryID *int64   `json:"category_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if !decodeValid(w, r, "question_create", &req) {
		return
	}

	ctx := r.Context()
	author := currentUser(r)

	var tagIDs []int64
	for _, name := range req.Tags {
		id, err := h.taxonomyRepo.CreateTag(ctx, name)
		if err != nil {
			http.Error(w, "failed to resolve tags", http.StatusInternalServerError)
			return
		}
		tagIDs = append(tagIDs, id)
	}

	q := &models.Question{Title: req.Title, Body: req.Body, CategoryID: req.CategoryID}
	id, err := h.engine.CreateQuestion(ctx, author, q, tagIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.questionRepo.GetQuestionByID(ctx, id)
	if err != nil || created == nil {
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	viewer := currentUser(r)

	var categoryID int64
	if c := q.Get("category_id"); c != "" {
		v, err := strconv.ParseInt(c, 10, 64)
		if err != nil || v <= 0 {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}
		categoryID = v
	}
	tag := q.Get("tag")

	// pagination: limit and offset params
	limit := 20
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	offset := 0
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	ctx := r.Context()
	items, err := h.questionRepo.ListQuestions(ctx, viewer, categoryID, tag, limit, offset)
	if err != nil {
		http.Error(w, "failed to list questions", http.StatusInternalServerError)
		return
	}
	total, err := h.questionRepo.CountQuestions(ctx, viewer, categoryID, tag)
	if err != nil {
		http.Error(w, "failed to count questions", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []models.Question{}
	}

	writeJSON(w, map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	}, http.StatusOK)
}

type questionDetail struct {
	models.Question
	Solved   bool             `json:"solved"`
	Votes    voteCounts       `json:"votes"`
	UserVote *models.VoteType `json:"user_vote,omitempty"`
	Answers  []models.Answer  `json:"answers"`
	Comments []models.Comment `json:"comments"`
}

type voteCounts struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

func (h *QuestionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	viewer := currentUser(r)

	question, err := h.questionRepo.GetQuestionByID(ctx, id)
	if err != nil {
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}
	if question == nil {
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}

	owner, err := h.userRepo.GetUserByID(ctx, question.UserID)
	if err != nil || owner == nil {
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}
	if !policy.Visible(viewer, policy.ContentView{OwnerID: owner.ID, OwnerLevel: owner.Level, Published: question.Published}) {
		// hide existence of unpublished content
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}

	detail := questionDetail{Question: *question}

	if detail.Solved, err = h.questionRepo.IsSolved(ctx, id); err != nil {
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}
	if detail.Votes.Up, detail.Votes.Down, err = h.voteRepo.CountVotes(ctx, models.KindQuestion, id); err != nil {
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}
	if viewer != nil {
		if v, err := h.voteRepo.GetVote(ctx, viewer.ID, models.KindQuestion, id); err == nil && v != nil {
			detail.UserVote = &v.Type
		}
	}
	if detail.Answers, err = h.answerRepo.ListAnswersByQuestion(ctx, viewer, id); err != nil {
		http.Error(w, "failed to load answers", http.StatusInternalServerError)
		return
	}
	if detail.Comments, err = h.commentRepo.ListComments(ctx, viewer, models.KindQuestion, id); err != nil {
		http.Error(w, "failed to load comments", http.StatusInternalServerError)
		return
	}
	if detail.Answers == nil {
		detail.Answers = []models.Answer{}
	}
	if detail.Comments == nil {
		detail.Comments = []models.Comment{}
	}

	writeJSON(w, detail, http.StatusOK)
}

func (h *QuestionsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.engine.Publish(ctx, currentUser(r), models.KindQuestion, id); err != nil {
		writeError(w, err)
		return
	}

	published, err := h.questionRepo.GetQuestionByID(ctx, id)
	if err != nil || published == nil {
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}

	writeJSON(w, published, http.StatusOK)
}

// pathID extracts the {id} route variable. Writes a 400 and returns false
// when it is missing or not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
