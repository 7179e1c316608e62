package historias

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andeshealth/ipsalud/pkg/logging"
)

// Handler handles HTTP requests for clinical histories.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new clinical-histories handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// GetByPaciente handles GET /api/historias-clinicas/paciente/{id}.
// Absence is a plain 404, distinct from transport failures, so the
// client can branch between "open a history" and "add a consultation"
// without guessing why a call failed.
func (h *Handler) GetByPaciente(w http.ResponseWriter, r *http.Request) {
	pacienteID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	historia, err := h.store.GetByPaciente(r.Context(), pacienteID)
	if err != nil {
		if errors.Is(err, ErrHistoriaNotFound) {
			http.Error(w, "historia clinica not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get historia", "paciente_id", pacienteID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, historia)
}

// Crear handles POST /api/historias-clinicas. One history per patient;
// a duplicate responds 409.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req CrearHistoriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PacienteID <= 0 {
		http.Error(w, "pacienteId is required", http.StatusBadRequest)
		return
	}

	historia, err := h.store.Create(r.Context(), req.PacienteID, req.Observaciones)
	if err != nil {
		if errors.Is(err, ErrHistoriaDuplicada) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("failed to create historia", "paciente_id", req.PacienteID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("historia clinica abierta", "id", historia.ID, "paciente_id", historia.PacienteID)
	writeJSON(w, http.StatusCreated, historia)
}

// AddConsulta handles POST /api/historias-clinicas/{id}/consultas.
func (h *Handler) AddConsulta(w http.ResponseWriter, r *http.Request) {
	historiaID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CrearConsultaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.MotivoConsulta) == "" {
		http.Error(w, "motivoConsulta is required", http.StatusBadRequest)
		return
	}

	fecha := time.Now().UTC()
	if s := strings.TrimSpace(req.FechaConsulta); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid fechaConsulta, expected RFC 3339", http.StatusBadRequest)
			return
		}
		fecha = t
	}

	consulta, err := h.store.AddConsulta(r.Context(), historiaID, ConsultaMedica{
		FechaConsulta:      fecha,
		Medico:             req.Medico,
		Especialidad:       req.Especialidad,
		MotivoConsulta:     req.MotivoConsulta,
		Diagnostico:        req.Diagnostico,
		CodigosDiagnostico: req.CodigosDiagnostico,
		Tratamiento:        req.Tratamiento,
		Notas:              req.Notas,
	})
	if err != nil {
		if errors.Is(err, ErrHistoriaNotFound) {
			http.Error(w, "historia clinica not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to add consulta", "historia_id", historiaID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("consulta registrada", "id", consulta.ID, "historia_id", historiaID)
	writeJSON(w, http.StatusCreated, consulta)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
