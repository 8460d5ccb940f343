package api

import (
	"net/http"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
	"github.com/qalamdan/porsesh/pkg/repository"
)

type AnswersHandler struct {
	answerRepo repository.AnswerRepo
	engine     *policy.Engine
}

func NewAnswersHandler(ar repository.AnswerRepo, engine *policy.Engine) *AnswersHandler {
	return &AnswersHandler{answerRepo: ar, engine: engine}
}

type createAnswerRequest struct {
	Body string `json:"body"`
}

// Create posts an answer under /v1/questions/{id}/answers.
func (h *AnswersHandler) Create(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req createAnswerRequest
	if !decodeValid(w, r, "answer_create", &req) {
		return
	}

	ctx := r.Context()
	a := &models.Answer{QuestionID: questionID, Body: req.Body}
	id, err := h.engine.CreateAnswer(ctx, currentUser(r), a)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.answerRepo.GetAnswerByID(ctx, id)
	if err != nil || created == nil {
		http.Error(w, "failed to load answer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *AnswersHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.engine.Publish(ctx, currentUser(r), models.KindAnswer, id); err != nil {
		writeError(w, err)
		return
	}

	published, err := h.answerRepo.GetAnswerByID(ctx, id)
	if err != nil || published == nil {
		http.Error(w, "failed to load answer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, published, http.StatusOK)
}

type toggleCorrectnessResponse struct {
	Success   bool `json:"success"`
	IsCorrect bool `json:"is_correct"`
}

func (h *AnswersHandler) ToggleCorrectness(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	isCorrect, err := h.engine.ToggleCorrectness(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toggleCorrectnessResponse{Success: true, IsCorrect: isCorrect}, http.StatusOK)
}
