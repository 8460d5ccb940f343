package api

import (
	"net/http"

	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/pkg/models"
)

type VotesHandler struct {
	engine *policy.Engine
}

func NewVotesHandler(engine *policy.Engine) *VotesHandler {
	return &VotesHandler{engine: engine}
}

type castVoteRequest struct {
	Type models.VoteType `json:"type"`
}

// Cast returns the vote handler for the given votable kind; the votable id
// comes from the route.
func (h *VotesHandler) Cast(kind models.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		votableID, ok := pathID(w, r)
		if !ok {
			return
		}

		var req castVoteRequest
		if !decodeValid(w, r, "vote_cast", &req) {
			return
		}

		state, err := h.engine.CastVote(r.Context(), currentUser(r), kind, votableID, req.Type)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, state, http.StatusOK)
	}
}
