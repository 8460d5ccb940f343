package api

import (
	"net/http"
	"strconv"

	"github.com/qalamdan/porsesh/pkg/models"
	"github.com/qalamdan/porsesh/pkg/repository"
)

type UsersHandler struct {
	userRepo         repository.UserRepo
	notificationRepo repository.NotificationRepo
}

func NewUsersHandler(ur repository.UserRepo, nr repository.NotificationRepo) *UsersHandler {
	return &UsersHandler{userRepo: ur, notificationRepo: nr}
}

type userProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Level int    `json:"level"`
	Score int64  `json:"score"`
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	writeJSON(w, userProfile{ID: user.ID, Name: user.Name, Role: user.Role, Level: user.Level, Score: user.Score}, http.StatusOK)
}

// Notifications lists the caller's notifications, newest first, and marks
// them read.
func (h *UsersHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)
	if viewer == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	limit := 50
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
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
	items, err := h.notificationRepo.ListNotificationsByUser(ctx, viewer.ID, limit, offset)
	if err != nil {
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}

	if err := h.notificationRepo.MarkNotificationsRead(ctx, viewer.ID); err != nil {
		logger.Error("mark notifications read", "err", err)
	}

	writeJSON(w, map[string]any{"items": items, "limit": limit, "offset": offset}, http.StatusOK)
}
