package citas

import (
	"encoding/json"
	"strings"
	"time"
)

// Cita is the persisted appointment record. The business fields live in
// DatosJSON, which the persistence layer treats as an opaque document;
// only the codec interprets it. Version backs optimistic locking on
// status transitions.
type Cita struct {
	ID            int64           `json:"id"`
	PacienteID    int64           `json:"pacienteId"`
	DatosJSON     json.RawMessage `json:"datosJson"`
	Version       int             `json:"version"`
	FechaCreacion time.Time       `json:"fechaCreacion"`
}

// InformacionCups carries CUPS billing-code metadata attached to an
// appointment once a procedure code is assigned.
type InformacionCups struct {
	Codigo          string `json:"codigo,omitempty"`
	Nombre          string `json:"nombre,omitempty"`
	Especialidad    string `json:"especialidad,omitempty"`
	Categoria       string `json:"categoria,omitempty"`
	Tipo            string `json:"tipo,omitempty"`
	Ambito          string `json:"ambito,omitempty"`
	EquipoRequerido string `json:"equipo_requerido,omitempty"`
}

// DocumentoCita is the decoded appointment document. MedicoNombre and
// MedicoEspecialidad are typed fields; the legacy "Name - Specialty"
// composite only exists on the wire.
type DocumentoCita struct {
	FechaHoraCita      *time.Time       `json:"fechaHoraCita"`
	Motivo             string           `json:"motivo"`
	MedicoNombre       string           `json:"medicoNombre"`
	MedicoEspecialidad string           `json:"medicoEspecialidad,omitempty"`
	Estado             Estado           `json:"estado"`
	Especialidad       string           `json:"especialidad"`
	CodigoCups         string           `json:"codigoCups,omitempty"`
	InformacionCups    *InformacionCups `json:"informacionCups,omitempty"`
	Notas              string           `json:"notas"`
}

// CrearCitaRequest is the payload for scheduling an appointment.
type CrearCitaRequest struct {
	PacienteID     int64  `json:"pacienteId"`
	FechaHoraCita  string `json:"fechaHoraCita"`
	Motivo         string `json:"motivo"`
	MedicoAsignado string `json:"medicoAsignado"`
	Especialidad   string `json:"especialidad"`
	CodigoCups     string `json:"codigoCups"`
	Notas          string `json:"notas"`
}

// Validate checks the request.
func (r *CrearCitaRequest) Validate() error {
	if r.PacienteID <= 0 {
		return ErrPacienteRequerido
	}
	if strings.TrimSpace(r.FechaHoraCita) != "" {
		if _, ok := parseFechaHora(r.FechaHoraCita); !ok {
			return ErrFechaInvalida
		}
	}
	return nil
}
