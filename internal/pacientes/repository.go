package pacientes

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Repository defines patient storage. Deletion is logical: rows flip
// activo to false and disappear from reads.
type Repository interface {
	Create(ctx context.Context, datos json.RawMessage) (*Paciente, error)
	GetByID(ctx context.Context, id int64) (*Paciente, error)
	Update(ctx context.Context, id int64, datos json.RawMessage) (*Paciente, error)
	SoftDelete(ctx context.Context, id int64) error
}

// InMemoryRepository backs the API when no database is configured, and
// the handler tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	pacientes map[int64]*Paciente
	nextID    int64
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{pacientes: make(map[int64]*Paciente)}
}

func (r *InMemoryRepository) Create(ctx context.Context, datos json.RawMessage) (*Paciente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p := &Paciente{
		ID:            r.nextID,
		DatosJSON:     append(json.RawMessage(nil), datos...),
		Activo:        true,
		FechaCreacion: time.Now().UTC(),
	}
	r.pacientes[p.ID] = p

	out := *p
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Paciente, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pacientes[id]
	if !ok || !p.Activo {
		return nil, ErrPacienteNotFound
	}
	out := *p
	return &out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int64, datos json.RawMessage) (*Paciente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pacientes[id]
	if !ok || !p.Activo {
		return nil, ErrPacienteNotFound
	}
	p.DatosJSON = append(json.RawMessage(nil), datos...)

	out := *p
	return &out, nil
}

func (r *InMemoryRepository) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pacientes[id]
	if !ok || !p.Activo {
		return ErrPacienteNotFound
	}
	p.Activo = false
	return nil
}
