package citas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andeshealth/ipsalud/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service      *Service
	logger       *logging.Logger
	defaultLimit int
}

// NewHandler creates a new appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		defaultLimit: 50,
	}
}

// WithDefaultLimit overrides the page size used when the listing request
// carries no limit parameter.
func (h *Handler) WithDefaultLimit(limit int) *Handler {
	if limit > 0 {
		h.defaultLimit = limit
	}
	return h
}

// ListCitasResponse is the response for listing pending appointments.
type ListCitasResponse struct {
	Citas  []CitaView `json:"citas"`
	Count  int        `json:"count"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
}

// ListPendientes handles GET /api/pacientes/citas-pendientes requests.
func (h *Handler) ListPendientes(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}

	crit := Criteria{
		Paciente: r.URL.Query().Get("paciente"),
	}
	if estado := r.URL.Query().Get("estado"); estado != "" {
		crit.Estado = NormalizeEstado(estado)
	}
	loc := h.service.Location()
	if s := r.URL.Query().Get("fechaInicio"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			http.Error(w, "invalid fechaInicio, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		crit.FechaInicio = &t
	}
	if s := r.URL.Query().Get("fechaFin"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			http.Error(w, "invalid fechaFin, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		crit.FechaFin = &t
	}

	views, err := h.service.ListPendientes(r.Context(), crit, limit, offset)
	if err != nil {
		h.logger.Error("failed to list citas pendientes", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListCitasResponse{
		Citas:  views,
		Count:  len(views),
		Offset: offset,
		Limit:  limit,
	})
}

// Crear handles POST /api/citas requests.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req CrearCitaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Crear(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPacienteRequerido), errors.Is(err, ErrFechaInvalida):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to create cita", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("ETag", etag(view.Cita.Version))
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/citas/{id} requests. The response carries the
// record version as an ETag for later conditional updates.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := citaID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCitaNotFound) {
			http.Error(w, "cita not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get cita", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", etag(view.Cita.Version))
	writeJSON(w, http.StatusOK, view)
}

// CambiarEstadoRequest is the payload for a status transition.
type CambiarEstadoRequest struct {
	Estado string `json:"estado"`
}

// transitionRejection tells the caller which transitions were legal.
type transitionRejection struct {
	Error       string   `json:"error"`
	Estado      string   `json:"estado"`
	Disponibles []Estado `json:"transicionesDisponibles"`
}

// CambiarEstado handles PATCH /api/citas/{id}/estado requests. An
// If-Match header with the record version enables the conflict check;
// without it the update is unconditional.
func (h *Handler) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	id, ok := citaID(w, r)
	if !ok {
		return
	}

	var req CambiarEstadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Estado == "" {
		http.Error(w, "estado is required", http.StatusBadRequest)
		return
	}

	expectedVersion := -1
	if match := r.Header.Get("If-Match"); match != "" {
		v, err := parseETag(match)
		if err != nil {
			http.Error(w, "invalid If-Match header", http.StatusBadRequest)
			return
		}
		expectedVersion = v
	}

	view, err := h.service.CambiarEstado(r.Context(), id, req.Estado, expectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, ErrCitaNotFound):
			http.Error(w, "cita not found", http.StatusNotFound)
		case errors.Is(err, ErrTransicionInvalida):
			current, getErr := h.service.Get(r.Context(), id)
			rejection := transitionRejection{Error: err.Error()}
			if getErr == nil {
				rejection.Estado = string(current.Documento.Estado)
				rejection.Disponibles = AvailableTransitions(current.Documento.Estado)
			}
			writeJSON(w, http.StatusConflict, rejection)
		case errors.Is(err, ErrVersionConflict):
			http.Error(w, "version conflict: cita was modified concurrently", http.StatusPreconditionFailed)
		default:
			h.logger.Error("failed to change cita estado", "id", id, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("ETag", etag(view.Cita.Version))
	writeJSON(w, http.StatusOK, view)
}

// Estadisticas handles GET /admin/estadisticas/citas requests.
func (h *Handler) Estadisticas(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Estadisticas(r.Context())
	if err != nil {
		h.logger.Error("failed to compute estadisticas", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"porEstado": counts})
}

func citaID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid cita id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func etag(version int) string {
	return fmt.Sprintf("%q", strconv.Itoa(version))
}

func parseETag(raw string) (int, error) {
	v, err := strconv.Unquote(raw)
	if err != nil {
		v = raw
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
