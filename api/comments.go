package api

import (
	"net/http"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
	"github.com/qalamdan/porsesh/pkg/repository"
)

type CommentsHandler struct {
	commentRepo repository.CommentRepo
	engine      *policy.Engine
}

func NewCommentsHandler(cr repository.CommentRepo, engine *policy.Engine) *CommentsHandler {
	return &CommentsHandler{commentRepo: cr, engine: engine}
}

type createCommentRequest struct {
	Body string `json:"body"`
}

// Create returns a handler posting a comment on the given target kind; the
// target id comes from the route.
func (h *CommentsHandler) Create(kind models.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := pathID(w, r)
		if !ok {
			return
		}

		var req createCommentRequest
		if !decodeValid(w, r, "comment_create", &req) {
			return
		}

		ctx := r.Context()
		c := &models.Comment{CommentableType: kind, CommentableID: targetID, Body: req.Body}
		id, err := h.engine.CreateComment(ctx, currentUser(r), c)
		if err != nil {
			writeError(w, err)
			return
		}

		created, err := h.commentRepo.GetCommentByID(ctx, id)
		if err != nil || created == nil {
			http.Error(w, "failed to load comment", http.StatusInternalServerError)
			return
		}

		writeJSON(w, created, http.StatusCreated)
	}
}

func (h *CommentsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.engine.Publish(ctx, currentUser(r), models.KindComment, id); err != nil {
		writeError(w, err)
		return
	}

	published, err := h.commentRepo.GetCommentByID(ctx, id)
	if err != nil || published == nil {
		http.Error(w, "failed to load comment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, published, http.StatusOK)
}
