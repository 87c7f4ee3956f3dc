package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pincoapp/pinco/internal/metrics"
	"github.com/pincoapp/pinco/internal/store"
)

// TagsHandler provides HTTP handlers for the tag catalog and pin-tag links.
type TagsHandler struct {
	tags    store.TagStoreIface
	pinTags store.PinTagStoreIface
}

// NewTagsHandler creates a new TagsHandler.
func NewTagsHandler(tags store.TagStoreIface, pinTags store.PinTagStoreIface) *TagsHandler {
	return &TagsHandler{tags: tags, pinTags: pinTags}
}

func registerTagRoutes(r chi.Router, deps Deps) {
	h := NewTagsHandler(deps.Tags, deps.PinTags)

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/{keyword}/pins", h.PinsByKeyword)
	})

	r.Route("/pins/{pinID}/tags", func(r chi.Router) {
		r.Get("/", h.ListForPin)
		r.Post("/", h.Link)
		r.Delete("/{tagID}", h.Unlink)
		r.Post("/{tagID}/restore", h.Restore)
	})
}

// Search handles GET /tags?q=fragment. Without q it lists the whole catalog.
func (h *TagsHandler) Search(w http.ResponseWriter, r *http.Request) {
	var (
		tags []*store.Tag
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		tags, err = h.tags.SearchByKeyword(r.Context(), q)
	} else {
		tags, err = h.tags.ListAll(r.Context())
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagList(tags))
}

// PinsByKeyword handles GET /tags/{keyword}/pins. Keyword match is
// case-sensitive, same as the catalog itself.
func (h *TagsHandler) PinsByKeyword(w http.ResponseWriter, r *http.Request) {
	pins, err := h.pinTags.ListPinsByKeyword(r.Context(), chi.URLParam(r, "keyword"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinList(pins))
}

// ListForPin handles GET /pins/{pinID}/tags.
func (h *TagsHandler) ListForPin(w http.ResponseWriter, r *http.Request) {
	tags, err := h.pinTags.ListActiveTags(r.Context(), chi.URLParam(r, "pinID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagList(tags))
}

// Link handles POST /pins/{pinID}/tags. The keyword is created in the
// catalog if it does not exist yet.
func (h *TagsHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req LinkTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	link, err := h.pinTags.Link(r.Context(), chi.URLParam(r, "pinID"), req.Keyword)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.TagLinksTotal.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusCreated, &PinTagResponse{
		ID:        link.ID,
		PinID:     link.PinID,
		TagID:     link.TagID,
		CreatedAt: link.CreatedAt,
	})
}

// Unlink handles DELETE /pins/{pinID}/tags/{tagID}.
func (h *TagsHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	err := h.pinTags.Unlink(r.Context(), chi.URLParam(r, "pinID"), chi.URLParam(r, "tagID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.TagLinksTotal.WithLabelValues("unlinked").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /pins/{pinID}/tags/{tagID}/restore.
func (h *TagsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	err := h.pinTags.Restore(r.Context(), chi.URLParam(r, "pinID"), chi.URLParam(r, "tagID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.TagLinksTotal.WithLabelValues("restored").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func toTagList(tags []*store.Tag) *TagListResponse {
	resp := &TagListResponse{Tags: make([]*TagResponse, 0, len(tags))}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, toTagResponse(t))
	}
	return resp
}
