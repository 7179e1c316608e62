package citas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	pool querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("citas: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("citas: querier required")
	}
	return &PostgresRepository{pool: q}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, pacienteID int64, datos json.RawMessage) (*Cita, error) {
	query := `
		INSERT INTO citas (paciente_id, datos_json)
		VALUES ($1, $2)
		RETURNING id, version, fecha_creacion
	`
	cita := &Cita{
		PacienteID: pacienteID,
		DatosJSON:  append(json.RawMessage(nil), datos...),
	}
	if err := r.pool.QueryRow(ctx, query, pacienteID, []byte(datos)).
		Scan(&cita.ID, &cita.Version, &cita.FechaCreacion); err != nil {
		return nil, fmt.Errorf("citas: insert failed: %w", err)
	}
	return cita, nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Cita, error) {
	query := `
		SELECT id, paciente_id, datos_json, version, fecha_creacion
		FROM citas
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	cita, err := scanCita(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCitaNotFound
		}
		return nil, fmt.Errorf("citas: select failed: %w", err)
	}
	return cita, nil
}

// List returns appointments newest first. limit <= 0 disables the limit.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Cita, error) {
	query := `
		SELECT id, paciente_id, datos_json, version, fecha_creacion
		FROM citas
		ORDER BY fecha_creacion DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	lim := any(nil) // NULL limit means no limit in Postgres
	if limit > 0 {
		lim = limit
	}
	rows, err := r.pool.Query(ctx, query, lim, offset)
	if err != nil {
		return nil, fmt.Errorf("citas: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Cita
	for rows.Next() {
		cita, err := scanCita(rows)
		if err != nil {
			return nil, fmt.Errorf("citas: scan failed: %w", err)
		}
		out = append(out, cita)
	}
	if out == nil {
		out = []*Cita{}
	}
	return out, rows.Err()
}

// UpdateDocumento replaces the stored document and bumps the version.
// A non-negative expectedVersion turns the update into a compare-and-swap.
func (r *PostgresRepository) UpdateDocumento(ctx context.Context, id int64, datos json.RawMessage, expectedVersion int) (*Cita, error) {
	query := `
		UPDATE citas
		SET datos_json = $2, version = version + 1
		WHERE id = $1
	`
	args := []any{id, []byte(datos)}
	if expectedVersion >= 0 {
		query += ` AND version = $3`
		args = append(args, expectedVersion)
	}
	query += `
		RETURNING id, paciente_id, datos_json, version, fecha_creacion
	`

	row := r.pool.QueryRow(ctx, query, args...)
	cita, err := scanCita(row)
	if err == nil {
		return cita, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("citas: update failed: %w", err)
	}

	// Nothing matched: distinguish a missing row from a version miss.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrVersionConflict
}

func scanCita(row pgx.Row) (*Cita, error) {
	var cita Cita
	var datos []byte
	if err := row.Scan(&cita.ID, &cita.PacienteID, &datos, &cita.Version, &cita.FechaCreacion); err != nil {
		return nil, err
	}
	cita.DatosJSON = append(json.RawMessage(nil), datos...)
	return &cita, nil
}
