// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/guidepost/panel/internal/domain/contract"
	"github.com/guidepost/panel/internal/domain/eventlog"
	"github.com/guidepost/panel/internal/domain/journey"
	"github.com/guidepost/panel/internal/panel"
)

// SessionHeader selects which session a request operates on. Requests
// without it fall back to the default session.
const SessionHeader = "X-Session-Key"

// Panel bundles the panel operations the handlers need. Using an interface
// bundle keeps the handler layer loosely coupled to the store implementation.
type Panel interface {
	PublishCareRecommendation(ctx context.Context, rec contract.CareRecommendation) error
	PublishFinancialProfile(ctx context.Context, fin contract.FinancialProfile) error
	PublishAppointment(ctx context.Context, appt contract.AdvisorAppointment) error
	UpdatePrepProgress(ctx context.Context, sections []string, progress int) error
	MarkProductComplete(ctx context.Context, productID string) error
	ForceUnlock(ctx context.Context, productID string) error

	GetCareRecommendation(ctx context.Context) (contract.CareRecommendation, bool)
	GetFinancialProfile(ctx context.Context) (contract.FinancialProfile, bool)
	GetAdvisorAppointment(ctx context.Context) (contract.AdvisorAppointment, bool)
	GetUnlockedProducts(ctx context.Context) []string
	IsProductUnlocked(ctx context.Context, productID string) bool
	GetRecommendedNextProduct(ctx context.Context) string
	GetJourneyPhase(ctx context.Context) journey.Phase
	GetJourney(ctx context.Context) journey.Journey
	GetProductSummary(ctx context.Context, productID string) (panel.Summary, error)
	Events(ctx context.Context) []eventlog.Event
}

// PanelFunc resolves the panel for a session key.
type PanelFunc func(key string) Panel

// Server wires HTTP routes for the panel API.
type Server struct {
	resolve         PanelFunc
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	publishHandler  *PublishHandler
	readHandler     *ReadHandler
	productsHandler *ProductsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(resolve PanelFunc, statsProvider StatsProvider) *Server {
	return &Server{
		resolve:         resolve,
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		publishHandler:  NewPublishHandler(resolve),
		readHandler:     NewReadHandler(resolve),
		productsHandler: NewProductsHandler(resolve),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendation", MetricsMiddleware(s.handleRecommendation, "recommendation"))
	mux.HandleFunc("/financial-profile", MetricsMiddleware(s.handleFinancialProfile, "financial_profile"))
	mux.HandleFunc("/appointment", MetricsMiddleware(s.handleAppointment, "appointment"))
	mux.HandleFunc("/appointment/prep", MetricsMiddleware(s.publishHandler.HandlePrepProgress, "appointment_prep"))
	mux.HandleFunc("/journey", MetricsMiddleware(s.readHandler.HandleGetJourney, "journey"))
	mux.HandleFunc("/events", MetricsMiddleware(s.readHandler.HandleGetEvents, "events"))
	mux.HandleFunc("/products/", MetricsMiddleware(s.productsHandler.HandleProducts, "products"))
}

// handleRecommendation dispatches by method: publish on POST, read on GET.
func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.publishHandler.HandlePublishRecommendation(w, r)
	case http.MethodGet:
		s.readHandler.HandleGetRecommendation(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleFinancialProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.publishHandler.HandlePublishFinancialProfile(w, r)
	case http.MethodGet:
		s.readHandler.HandleGetFinancialProfile(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleAppointment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.publishHandler.HandlePublishAppointment(w, r)
	case http.MethodGet:
		s.readHandler.HandleGetAppointment(w, r)
	default:
		http.NotFound(w, r)
	}
}

// sessionKey extracts the session a request operates on.
func sessionKey(r *http.Request) string {
	if key := r.Header.Get(SessionHeader); key != "" {
		return key
	}
	return "default"
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
