package cups

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andeshealth/ipsalud/pkg/logging"
)

// Handler exposes catalog lookups.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Get handles GET /api/cups/{codigo} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	codigo := chi.URLParam(r, "codigo")

	p, err := h.store.Get(r.Context(), codigo)
	if err != nil {
		if errors.Is(err, ErrCodigoNotFound) {
			http.Error(w, "codigo cups not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to resolve codigo cups", "codigo", codigo, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(p)
}
