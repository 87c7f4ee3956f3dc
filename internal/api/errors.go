package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pincoapp/pinco/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps store sentinel errors onto stable HTTP codes. Anything
// unrecognized is an internal failure: logged, never propagated raw.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPinNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "PIN_NOT_FOUND")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, store.ErrTagNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, store.ErrLinkNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "LINK_NOT_FOUND")
	case errors.Is(err, store.ErrBookmarkNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "BOOKMARK_NOT_FOUND")
	case errors.Is(err, store.ErrTagAlreadyLinked):
		writeError(w, http.StatusConflict, err.Error(), "TAG_ALREADY_LINKED")
	case errors.Is(err, store.ErrBookmarkExists):
		writeError(w, http.StatusConflict, err.Error(), "BOOKMARK_EXISTS")
	case errors.Is(err, store.ErrLinkActive):
		writeError(w, http.StatusConflict, err.Error(), "LINK_ACTIVE")
	case errors.Is(err, store.ErrBookmarkActive):
		writeError(w, http.StatusConflict, err.Error(), "BOOKMARK_ACTIVE")
	case errors.Is(err, store.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, store.ErrInvalidCoordinate),
		errors.Is(err, store.ErrInvalidRadius),
		errors.Is(err, store.ErrInvalidContent),
		errors.Is(err, store.ErrInvalidKeyword):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	default:
		log.Printf("store error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
