package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pincoapp/pinco/internal/metrics"
	"github.com/pincoapp/pinco/internal/store"
)

// LikesHandler provides HTTP handlers for the like toggle.
type LikesHandler struct {
	likes store.LikeStoreIface
}

// NewLikesHandler creates a new LikesHandler.
func NewLikesHandler(likes store.LikeStoreIface) *LikesHandler {
	return &LikesHandler{likes: likes}
}

func registerLikeRoutes(r chi.Router, deps Deps) {
	h := NewLikesHandler(deps.Likes)

	r.Post("/pins/{pinID}/likes/toggle", h.Toggle)
	r.Get("/pins/{pinID}/likes", h.UsersWhoLiked)
	r.Get("/users/{userID}/likes", h.PinsLikedByUser)
}

// Toggle handles POST /pins/{pinID}/likes/toggle. The response carries the
// caller's new like state and the pin's updated count.
func (h *LikesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", "INVALID_INPUT")
		return
	}
	result, err := h.likes.Toggle(r.Context(), chi.URLParam(r, "pinID"), req.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	state := "unliked"
	if result.Liked {
		state = "liked"
	}
	metrics.LikeTogglesTotal.WithLabelValues(state).Inc()
	writeJSON(w, http.StatusOK, result)
}

// UsersWhoLiked handles GET /pins/{pinID}/likes.
func (h *LikesHandler) UsersWhoLiked(w http.ResponseWriter, r *http.Request) {
	users, err := h.likes.UsersWhoLiked(r.Context(), chi.URLParam(r, "pinID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"user_ids": users})
}

// PinsLikedByUser handles GET /users/{userID}/likes.
func (h *LikesHandler) PinsLikedByUser(w http.ResponseWriter, r *http.Request) {
	pins, err := h.likes.PinsLikedByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"pin_ids": pins})
}
