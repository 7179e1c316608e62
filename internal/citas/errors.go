package citas

import "errors"

var (
	// ErrCitaNotFound is returned when an appointment does not exist.
	ErrCitaNotFound = errors.New("cita not found")

	// ErrPacienteRequerido is returned when a schedule request has no patient.
	ErrPacienteRequerido = errors.New("pacienteId is required")

	// ErrFechaInvalida is returned when a supplied date-time cannot be parsed.
	ErrFechaInvalida = errors.New("fechaHoraCita is not a valid date-time")

	// ErrTransicionInvalida is returned when the requested status change is
	// not in the transition table for the appointment's current state.
	ErrTransicionInvalida = errors.New("estado transition not allowed")

	// ErrVersionConflict is returned when the expected record version does
	// not match the stored one (concurrent transition).
	ErrVersionConflict = errors.New("cita version conflict")
)
