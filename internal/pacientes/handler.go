package pacientes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andeshealth/ipsalud/pkg/logging"
)

// Handler handles HTTP requests for patients.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new patients handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// PacienteView is the API shape: the record plus its decoded profile
// and the derived display fields.
type PacienteView struct {
	ID             int64          `json:"id"`
	Activo         bool           `json:"activo"`
	FechaCreacion  time.Time      `json:"fechaCreacion"`
	Perfil         PerfilPaciente `json:"perfil"`
	NombreCompleto string         `json:"nombreCompleto"`
	Edad           string         `json:"edad"`
}

func newPacienteView(p *Paciente) PacienteView {
	perfil := DecodeProfile(p.DatosJSON)
	return PacienteView{
		ID:             p.ID,
		Activo:         p.Activo,
		FechaCreacion:  p.FechaCreacion,
		Perfil:         perfil,
		NombreCompleto: DeriveFullName(perfil.InformacionPersonal),
		Edad:           CalculateAge(perfil.InformacionPersonal.FechaNacimiento, time.Now()),
	}
}

// Registrar handles POST /api/pacientes requests. New patients are
// written in the flat encoding.
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var perfil PerfilPaciente
	if err := json.NewDecoder(r.Body).Decode(&perfil); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if DeriveFullName(perfil.InformacionPersonal) == "N/A" {
		http.Error(w, ErrDatosRequeridos.Error(), http.StatusBadRequest)
		return
	}

	datos, err := EncodeFlat(perfil)
	if err != nil {
		h.logger.Error("failed to encode perfil", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p, err := h.repo.Create(r.Context(), datos)
	if err != nil {
		h.logger.Error("failed to register paciente", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("paciente registrado", "id", p.ID)
	writeJSON(w, http.StatusCreated, newPacienteView(p))
}

// Get handles GET /api/pacientes/{id} requests. Whatever encoding the
// stored document uses, the response is the canonical decoded profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pacienteID(w, r)
	if !ok {
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPacienteNotFound) {
			http.Error(w, "paciente not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get paciente", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newPacienteView(p))
}

// Actualizar handles PUT /api/pacientes/{id} requests. Edits re-encode
// the whole profile flat, migrating nested-form records on first save.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := pacienteID(w, r)
	if !ok {
		return
	}

	var perfil PerfilPaciente
	if err := json.NewDecoder(r.Body).Decode(&perfil); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	datos, err := EncodeFlat(perfil)
	if err != nil {
		h.logger.Error("failed to encode perfil", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p, err := h.repo.Update(r.Context(), id, datos)
	if err != nil {
		if errors.Is(err, ErrPacienteNotFound) {
			http.Error(w, "paciente not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update paciente", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newPacienteView(p))
}

// Eliminar handles DELETE /api/pacientes/{id} requests (soft delete).
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, ok := pacienteID(w, r)
	if !ok {
		return
	}

	if err := h.repo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPacienteNotFound) {
			http.Error(w, "paciente not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete paciente", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("paciente desactivado", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func pacienteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid paciente id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
