// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ReadHandler serves the read API consumed by UI and hub collaborators.
type ReadHandler struct {
	resolve PanelFunc
}

// NewReadHandler creates a new read handler.
func NewReadHandler(resolve PanelFunc) *ReadHandler {
	return &ReadHandler{resolve: resolve}
}

// HandleGetRecommendation handles GET /recommendation requests. A contract
// still in its default new state reads as 404: readers never see a
// half-populated value.
func (h *ReadHandler) HandleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.resolve(sessionKey(r)).GetCareRecommendation(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_published", ErrNotPublished)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleGetFinancialProfile handles GET /financial-profile requests.
func (h *ReadHandler) HandleGetFinancialProfile(w http.ResponseWriter, r *http.Request) {
	fin, ok := h.resolve(sessionKey(r)).GetFinancialProfile(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_published", ErrNotPublished)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// HandleGetAppointment handles GET /appointment requests.
func (h *ReadHandler) HandleGetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, ok := h.resolve(sessionKey(r)).GetAdvisorAppointment(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_published", ErrNotPublished)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// journeyResponse is the hub-facing journey view.
type journeyResponse struct {
	Phase            string   `json:"phase"`
	UnlockedProducts []string `json:"unlocked_products"`
	RecommendedNext  string   `json:"recommended_next"`
}

// HandleGetJourney handles GET /journey requests.
func (h *ReadHandler) HandleGetJourney(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p := h.resolve(sessionKey(r))
	writeJSON(w, http.StatusOK, journeyResponse{
		Phase:            string(p.GetJourneyPhase(r.Context())),
		UnlockedProducts: p.GetUnlockedProducts(r.Context()),
		RecommendedNext:  p.GetRecommendedNextProduct(r.Context()),
	})
}

// HandleGetEvents handles GET /events requests: the audit view of the log.
func (h *ReadHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.resolve(sessionKey(r)).Events(r.Context()))
}
