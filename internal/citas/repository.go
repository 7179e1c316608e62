package citas

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Repository defines appointment storage. Records are never deleted;
// transitions replace the whole document and bump the version.
type Repository interface {
	Create(ctx context.Context, pacienteID int64, datos json.RawMessage) (*Cita, error)
	GetByID(ctx context.Context, id int64) (*Cita, error)
	// List returns records ordered by creation time, newest first.
	// limit <= 0 means no limit.
	List(ctx context.Context, limit, offset int) ([]*Cita, error)
	// UpdateDocumento replaces the stored document. When expectedVersion
	// is non-negative the update only applies if the stored version
	// matches; a mismatch returns ErrVersionConflict.
	UpdateDocumento(ctx context.Context, id int64, datos json.RawMessage, expectedVersion int) (*Cita, error)
}

// InMemoryRepository backs the API when no database is configured, and
// the handler tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	citas  map[int64]*Cita
	order  []int64
	nextID int64
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{citas: make(map[int64]*Cita)}
}

func (r *InMemoryRepository) Create(ctx context.Context, pacienteID int64, datos json.RawMessage) (*Cita, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	cita := &Cita{
		ID:            r.nextID,
		PacienteID:    pacienteID,
		DatosJSON:     append(json.RawMessage(nil), datos...),
		Version:       1,
		FechaCreacion: time.Now().UTC(),
	}
	r.citas[cita.ID] = cita
	r.order = append(r.order, cita.ID)

	out := *cita
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Cita, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cita, ok := r.citas[id]
	if !ok {
		return nil, ErrCitaNotFound
	}
	out := *cita
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context, limit, offset int) ([]*Cita, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first, matching the Postgres ordering.
	out := make([]*Cita, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		c := *r.citas[r.order[i]]
		out = append(out, &c)
	}

	if offset > 0 {
		if offset >= len(out) {
			return []*Cita{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateDocumento(ctx context.Context, id int64, datos json.RawMessage, expectedVersion int) (*Cita, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cita, ok := r.citas[id]
	if !ok {
		return nil, ErrCitaNotFound
	}
	if expectedVersion >= 0 && cita.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	cita.DatosJSON = append(json.RawMessage(nil), datos...)
	cita.Version++

	out := *cita
	return &out, nil
}
