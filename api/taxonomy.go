package api

import (
	"net/http"

	"github.com/qalamdan/porsesh/pkg/models"
	"github.com/qalamdan/porsesh/pkg/repository"
)

type TaxonomyHandler struct {
	taxonomyRepo repository.TaxonomyRepo
}

func NewTaxonomyHandler(tr repository.TaxonomyRepo) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyRepo: tr}
}

func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.taxonomyRepo.ListCategories(r.Context())
	if err != nil {
		http.Error(w, "failed to list categories", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	writeJSON(w, map[string]any{"items": items}, http.StatusOK)
}

func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	items, err := h.taxonomyRepo.ListTags(r.Context())
	if err != nil {
		http.Error(w, "failed to list tags", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Tag{}
	}

	writeJSON(w, map[string]any{"items": items}, http.StatusOK)
}
