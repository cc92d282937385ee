// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/guidepost/panel/internal/domain/contract"
)

// PublishHandler handles contract publications from product collaborators.
type PublishHandler struct {
	resolve PanelFunc
}

// NewPublishHandler creates a new publish handler.
func NewPublishHandler(resolve PanelFunc) *PublishHandler {
	return &PublishHandler{resolve: resolve}
}

// recommendationRequest mirrors the publish payload of the scoring engine.
// Flags may arrive as the canonical list or the legacy id->raised map; both
// shapes are normalized at this boundary.
type recommendationRequest struct {
	Tier         string               `json:"tier"`
	TierScore    float64              `json:"tier_score"`
	TierRankings []contract.TierScore `json:"tier_rankings"`
	Confidence   float64              `json:"confidence"`
	Flags        []contract.Flag      `json:"flags"`
	FlagMap      map[string]bool      `json:"flag_map,omitempty"`
	Rationale    []string             `json:"rationale"`
	NextStep     contract.NextStep    `json:"next_step"`
	Status       string               `json:"status"`
}

// HandlePublishRecommendation handles POST /recommendation requests.
func (h *PublishHandler) HandlePublishRecommendation(w http.ResponseWriter, r *http.Request) {
	const op = "api.publish_recommendation"
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec := contract.CareRecommendation{
		Tier:         contract.Tier(req.Tier),
		TierScore:    req.TierScore,
		TierRankings: req.TierRankings,
		Confidence:   req.Confidence,
		Flags:        contract.NormalizeFlags(contract.FlagInput{List: req.Flags, Map: req.FlagMap}),
		Rationale:    req.Rationale,
		NextStep:     req.NextStep,
		Status:       contract.Status(req.Status),
	}
	if err := h.resolve(sessionKey(r)).PublishCareRecommendation(r.Context(), rec); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "published"})
}

// financialProfileRequest mirrors the publish payload of the financial
// assessment.
type financialProfileRequest struct {
	EstimatedMonthlyCost float64 `json:"estimated_monthly_cost"`
	CoveragePercentage   float64 `json:"coverage_percentage"`
	GapAmount            float64 `json:"gap_amount"`
	RunwayMonths         int     `json:"runway_months"`
	Confidence           float64 `json:"confidence"`
	Status               string  `json:"status"`
}

// HandlePublishFinancialProfile handles POST /financial-profile requests.
func (h *PublishHandler) HandlePublishFinancialProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.publish_financial_profile"
	var req financialProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	fin := contract.FinancialProfile{
		EstimatedMonthlyCost: req.EstimatedMonthlyCost,
		CoveragePercentage:   req.CoveragePercentage,
		GapAmount:            req.GapAmount,
		RunwayMonths:         req.RunwayMonths,
		Confidence:           req.Confidence,
		Status:               contract.Status(req.Status),
	}
	if err := h.resolve(sessionKey(r)).PublishFinancialProfile(r.Context(), fin); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "published"})
}

// appointmentRequest mirrors the publish payload of the scheduler.
type appointmentRequest struct {
	Scheduled bool   `json:"scheduled"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

func (a appointmentRequest) validate() error {
	if a.Scheduled && a.Date != "" {
		if _, err := time.Parse("2006-01-02", a.Date); err != nil {
			return WrapKind("api.publish_appointment", ErrBadRequest, err)
		}
	}
	return nil
}

// HandlePublishAppointment handles POST /appointment requests.
func (h *PublishHandler) HandlePublishAppointment(w http.ResponseWriter, r *http.Request) {
	const op = "api.publish_appointment"
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	appt := contract.AdvisorAppointment{
		Scheduled: req.Scheduled,
		Date:      req.Date,
		Time:      req.Time,
		Type:      contract.AppointmentType(req.Type),
		Status:    contract.Status(req.Status),
	}
	if err := h.resolve(sessionKey(r)).PublishAppointment(r.Context(), appt); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "published"})
}

// prepProgressRequest mirrors the partial prep update.
type prepProgressRequest struct {
	SectionsComplete []string `json:"sections_complete"`
	Progress         int      `json:"progress"`
}

// HandlePrepProgress handles POST /appointment/prep requests.
func (h *PublishHandler) HandlePrepProgress(w http.ResponseWriter, r *http.Request) {
	const op = "api.prep_progress"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req prepProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.resolve(sessionKey(r)).UpdatePrepProgress(r.Context(), req.SectionsComplete, req.Progress); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}
