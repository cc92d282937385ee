// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/guidepost/panel/internal/panel"
)

// ProductsHandler serves per-product routes:
//
//	GET  /products/{id}/summary
//	GET  /products/{id}/unlocked
//	POST /products/{id}/complete
//	POST /products/{id}/unlock
type ProductsHandler struct {
	resolve PanelFunc
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(resolve PanelFunc) *ProductsHandler {
	return &ProductsHandler{resolve: resolve}
}

// HandleProducts dispatches /products/{id}/{action} requests.
func (h *ProductsHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	const op = "api.products"

	rest := strings.TrimPrefix(r.URL.Path, "/products/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	productID, action := parts[0], parts[1]
	p := h.resolve(sessionKey(r))

	switch {
	case r.Method == http.MethodGet && action == "summary":
		h.summary(w, r, p, productID)
	case r.Method == http.MethodGet && action == "unlocked":
		writeJSON(w, http.StatusOK, map[string]bool{
			"unlocked": p.IsProductUnlocked(r.Context(), productID),
		})
	case r.Method == http.MethodPost && action == "complete":
		h.mutate(w, r, p.MarkProductComplete, productID, "completed")
	case r.Method == http.MethodPost && action == "unlock":
		h.mutate(w, r, p.ForceUnlock, productID, "unlocked")
	default:
		http.NotFound(w, r)
	}
}

func (h *ProductsHandler) summary(w http.ResponseWriter, r *http.Request, p Panel, productID string) {
	s, err := p.GetProductSummary(r.Context(), productID)
	if err != nil {
		if errors.Is(err, panel.ErrUnknownProduct) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ProductsHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) error, productID, status string) {
	if err := fn(r.Context(), productID); err != nil {
		if errors.Is(err, panel.ErrUnknownProduct) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: status})
}
