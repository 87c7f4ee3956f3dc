package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pincoapp/pinco/internal/metrics"
	"github.com/pincoapp/pinco/internal/store"
)

// PinsHandler provides HTTP handlers for pin lifecycle and radius search.
type PinsHandler struct {
	pins          store.PinStoreIface
	pinTags       store.PinTagStoreIface
	defaultRadius float64
}

// NewPinsHandler creates a new PinsHandler.
func NewPinsHandler(pins store.PinStoreIface, pinTags store.PinTagStoreIface, defaultRadius float64) *PinsHandler {
	return &PinsHandler{pins: pins, pinTags: pinTags, defaultRadius: defaultRadius}
}

func registerPinRoutes(r chi.Router, deps Deps) {
	h := NewPinsHandler(deps.Pins, deps.PinTags, deps.DefaultRadiusMeters)

	r.Route("/pins", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.ListPublic)
		r.Get("/nearby", h.Nearby)
		r.Route("/{pinID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.UpdateContent)
			r.Delete("/", h.Delete)
			r.Post("/visibility/toggle", h.ToggleVisibility)
		})
	})
}

// Create handles POST /pins. Tag keywords are validated before the pin is
// written so a bad keyword rejects the whole request instead of leaving an
// untagged pin behind.
func (h *PinsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	if req.OwnerID == "" {
		writeError(w, http.StatusBadRequest, "owner_id is required", "INVALID_INPUT")
		return
	}
	for _, k := range req.Tags {
		if _, err := store.NormalizeKeyword(k); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	pin, err := h.pins.Create(r.Context(), req.OwnerID, req.Latitude, req.Longitude, req.Content, isPublic)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.PinsCreatedTotal.Inc()

	resp := toPinResponse(pin)
	if len(req.Tags) > 0 {
		tags, err := h.pinTags.LinkMany(r.Context(), pin.ID, req.Tags)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		for _, t := range tags {
			resp.Tags = append(resp.Tags, t.Keyword)
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /pins/{pinID}.
func (h *PinsHandler) Get(w http.ResponseWriter, r *http.Request) {
	pin, err := h.pins.GetByID(r.Context(), chi.URLParam(r, "pinID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinResponse(pin))
}

// Nearby handles GET /pins/nearby?lat=&lon=&radius=. Radius falls back to
// the configured default when omitted. Results are distance-ascending.
func (h *PinsHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number", "INVALID_INPUT")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number", "INVALID_INPUT")
		return
	}
	radius := h.defaultRadius
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "radius must be a number", "INVALID_INPUT")
			return
		}
	}

	timer := prometheus.NewTimer(metrics.RadiusSearchDuration)
	pins, err := h.pins.FindWithinRadius(r.Context(), lat, lon, radius, true)
	timer.ObserveDuration()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinList(pins))
}

// ListPublic handles GET /pins.
func (h *PinsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	pins, err := h.pins.ListPublic(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinList(pins))
}

// UpdateContent handles PATCH /pins/{pinID}.
func (h *PinsHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req UpdatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_INPUT")
		return
	}
	pin, err := h.pins.UpdateContent(r.Context(), chi.URLParam(r, "pinID"), req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinResponse(pin))
}

// ToggleVisibility handles POST /pins/{pinID}/visibility/toggle.
func (h *PinsHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	pin, err := h.pins.TogglePublic(r.Context(), chi.URLParam(r, "pinID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinResponse(pin))
}

// Delete handles DELETE /pins/{pinID}. The pin is tombstoned, not removed.
func (h *PinsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pins.SoftDelete(r.Context(), chi.URLParam(r, "pinID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toPinList(pins []*store.Pin) *PinListResponse {
	resp := &PinListResponse{Pins: make([]*PinResponse, 0, len(pins))}
	for _, p := range pins {
		resp.Pins = append(resp.Pins, toPinResponse(p))
	}
	return resp
}
