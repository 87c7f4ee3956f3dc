package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pincoapp/pinco/internal/metrics"
	"github.com/pincoapp/pinco/internal/store"
)

// BookmarksHandler provides HTTP handlers for saved pins.
type BookmarksHandler struct {
	bookmarks store.BookmarkStoreIface
}

// NewBookmarksHandler creates a new BookmarksHandler.
func NewBookmarksHandler(bookmarks store.BookmarkStoreIface) *BookmarksHandler {
	return &BookmarksHandler{bookmarks: bookmarks}
}

func registerBookmarkRoutes(r chi.Router, deps Deps) {
	h := NewBookmarksHandler(deps.Bookmarks)

	r.Route("/bookmarks", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Delete("/{bookmarkID}", h.Delete)
		r.Post("/{bookmarkID}/restore", h.Restore)
	})
	r.Get("/users/{userID}/bookmarks", h.ListForUser)
}

// Create handles POST /bookmarks. Re-bookmarking a previously removed pin
// revives the original bookmark row.
func (h *BookmarksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	if req.UserID == "" || req.PinID == "" {
		writeError(w, http.StatusBadRequest, "user_id and pin_id are required", "INVALID_INPUT")
		return
	}
	bm, err := h.bookmarks.Create(r.Context(), req.UserID, req.PinID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.BookmarksTotal.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusCreated, toBookmarkResponse(bm))
}

// Delete handles DELETE /bookmarks/{bookmarkID}?user_id=. Only the owner
// sees the bookmark at all; everyone else gets a 404.
func (h *BookmarksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", "INVALID_INPUT")
		return
	}
	err := h.bookmarks.Delete(r.Context(), userID, chi.URLParam(r, "bookmarkID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.BookmarksTotal.WithLabelValues("deleted").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /bookmarks/{bookmarkID}/restore.
func (h *BookmarksHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req RestoreBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", "INVALID_INPUT")
		return
	}
	err := h.bookmarks.Restore(r.Context(), req.UserID, chi.URLParam(r, "bookmarkID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.BookmarksTotal.WithLabelValues("restored").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// ListForUser handles GET /users/{userID}/bookmarks.
func (h *BookmarksHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.ListActive(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := &BookmarkListResponse{Bookmarks: make([]*BookmarkResponse, 0, len(bookmarks))}
	for _, bm := range bookmarks {
		resp.Bookmarks = append(resp.Bookmarks, toBookmarkResponse(bm))
	}
	writeJSON(w, http.StatusOK, resp)
}
