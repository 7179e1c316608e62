package historias

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	// ErrHistoriaNotFound is the typed absence result: only a true
	// zero-row read produces it, never a transport failure.
	ErrHistoriaNotFound = errors.New("historia clinica not found")

	// ErrHistoriaDuplicada signals a second history for the same
	// patient.
	ErrHistoriaDuplicada = errors.New("historia clinica already exists for paciente")
)

// Store persists clinical histories and their consultations.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over the shared database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create opens a clinical history. The unique index on paciente_id
// enforces one history per patient.
func (s *Store) Create(ctx context.Context, pacienteID int64, observaciones string) (*HistoriaClinica, error) {
	h := HistoriaClinica{
		PacienteID:    pacienteID,
		Observaciones: observaciones,
		Consultas:     []ConsultaMedica{},
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO historias_clinicas (paciente_id, observaciones)
		VALUES ($1, $2) RETURNING id, fecha_apertura`,
		pacienteID, observaciones).Scan(&h.ID, &h.FechaApertura)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrHistoriaDuplicada
		}
		return nil, fmt.Errorf("historias: insert failed: %w", err)
	}
	return &h, nil
}

// GetByPaciente returns the patient's history with its consultations,
// oldest consultation first. ErrHistoriaNotFound means the patient has
// no history yet.
func (s *Store) GetByPaciente(ctx context.Context, pacienteID int64) (*HistoriaClinica, error) {
	var h HistoriaClinica
	err := s.db.QueryRowContext(ctx, `
		SELECT id, paciente_id, observaciones, fecha_apertura
		FROM historias_clinicas WHERE paciente_id = $1`, pacienteID).
		Scan(&h.ID, &h.PacienteID, &h.Observaciones, &h.FechaApertura)
	if err == sql.ErrNoRows {
		return nil, ErrHistoriaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("historias: select failed: %w", err)
	}

	consultas, err := s.listConsultas(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	h.Consultas = consultas
	return &h, nil
}

// AddConsulta appends a consultation to a history.
func (s *Store) AddConsulta(ctx context.Context, historiaID int64, c ConsultaMedica) (*ConsultaMedica, error) {
	if c.CodigosDiagnostico == nil {
		c.CodigosDiagnostico = []string{}
	}
	c.HistoriaID = historiaID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO consultas (historia_id, fecha_consulta, medico, especialidad,
		    motivo_consulta, diagnostico, codigos_diagnostico, tratamiento, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		historiaID, c.FechaConsulta, c.Medico, c.Especialidad,
		c.MotivoConsulta, c.Diagnostico, pq.Array(c.CodigosDiagnostico), c.Tratamiento, c.Notas).
		Scan(&c.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrHistoriaNotFound
		}
		return nil, fmt.Errorf("historias: insert consulta failed: %w", err)
	}
	return &c, nil
}

func (s *Store) listConsultas(ctx context.Context, historiaID int64) ([]ConsultaMedica, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, historia_id, fecha_consulta, medico, especialidad,
		       motivo_consulta, diagnostico, codigos_diagnostico, tratamiento, notas
		FROM consultas WHERE historia_id = $1 ORDER BY fecha_consulta ASC, id ASC`, historiaID)
	if err != nil {
		return nil, fmt.Errorf("historias: list consultas failed: %w", err)
	}
	defer rows.Close()

	out := []ConsultaMedica{}
	for rows.Next() {
		var c ConsultaMedica
		var fecha time.Time
		if err := rows.Scan(&c.ID, &c.HistoriaID, &fecha, &c.Medico, &c.Especialidad,
			&c.MotivoConsulta, &c.Diagnostico, pq.Array(&c.CodigosDiagnostico),
			&c.Tratamiento, &c.Notas); err != nil {
			return nil, fmt.Errorf("historias: scan consulta failed: %w", err)
		}
		c.FechaConsulta = fecha
		if c.CodigosDiagnostico == nil {
			c.CodigosDiagnostico = []string{}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlmock and wrapped drivers lose the concrete type.
	return strings.Contains(err.Error(), "duplicate key")
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "foreign key")
}
