package pacientes

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

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	pool querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("pacientes: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("pacientes: querier required")
	}
	return &PostgresRepository{pool: q}
}

func (r *PostgresRepository) Create(ctx context.Context, datos json.RawMessage) (*Paciente, error) {
	query := `
		INSERT INTO pacientes (datos_json)
		VALUES ($1)
		RETURNING id, activo, fecha_creacion
	`
	p := &Paciente{DatosJSON: append(json.RawMessage(nil), datos...)}
	if err := r.pool.QueryRow(ctx, query, []byte(datos)).
		Scan(&p.ID, &p.Activo, &p.FechaCreacion); err != nil {
		return nil, fmt.Errorf("pacientes: insert failed: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Paciente, error) {
	query := `
		SELECT id, datos_json, activo, fecha_creacion
		FROM pacientes
		WHERE id = $1 AND activo
	`
	p, err := scanPaciente(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPacienteNotFound
		}
		return nil, fmt.Errorf("pacientes: select failed: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, datos json.RawMessage) (*Paciente, error) {
	query := `
		UPDATE pacientes
		SET datos_json = $2
		WHERE id = $1 AND activo
		RETURNING id, datos_json, activo, fecha_creacion
	`
	p, err := scanPaciente(r.pool.QueryRow(ctx, query, id, []byte(datos)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPacienteNotFound
		}
		return nil, fmt.Errorf("pacientes: update failed: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE pacientes
		SET activo = FALSE
		WHERE id = $1 AND activo
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pacientes: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPacienteNotFound
	}
	return nil
}

func scanPaciente(row pgx.Row) (*Paciente, error) {
	var p Paciente
	var datos []byte
	if err := row.Scan(&p.ID, &datos, &p.Activo, &p.FechaCreacion); err != nil {
		return nil, err
	}
	p.DatosJSON = append(json.RawMessage(nil), datos...)
	return &p, nil
}
