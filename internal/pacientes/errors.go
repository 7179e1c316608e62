package pacientes

import "errors"

var (
	// ErrPacienteNotFound signals the patient does not exist or was
	// soft-deleted.
	ErrPacienteNotFound = errors.New("paciente not found")

	// ErrDatosRequeridos signals a registration or edit with no profile
	// document at all.
	ErrDatosRequeridos = errors.New("datos del paciente requeridos")
)
