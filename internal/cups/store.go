package cups

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andeshealth/ipsalud/internal/citas"
)

// cacheTTL bounds staleness when the catalog is updated out of band.
const cacheTTL = 24 * time.Hour

// Store is the CUPS catalog with a Redis cache in front of the embedded
// seed. A nil client degrades to seed-only, so the service runs without
// Redis in development.
type Store struct {
	redis *redis.Client
}

// NewStore creates a catalog store. redisClient may be nil.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) key(codigo string) string {
	return fmt.Sprintf("cups:codigo:%s", codigo)
}

// Get resolves a CUPS code, cache first, seed second.
func (s *Store) Get(ctx context.Context, codigo string) (*Procedimiento, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, ErrCodigoNotFound
	}

	if s.redis != nil {
		data, err := s.redis.Get(ctx, s.key(codigo)).Bytes()
		if err == nil {
			var p Procedimiento
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
			// A corrupt cache entry falls through to the seed.
		} else if err != redis.Nil {
			return nil, fmt.Errorf("cups: get codigo: %w", err)
		}
	}

	p, ok := lookupSeed(codigo)
	if !ok {
		return nil, ErrCodigoNotFound
	}

	if s.redis != nil {
		if data, err := json.Marshal(p); err == nil {
			// Cache misses are filled best-effort.
			s.redis.Set(ctx, s.key(codigo), data, cacheTTL)
		}
	}
	return &p, nil
}

// Put writes a catalog entry into the cache, overriding the seed.
func (s *Store) Put(ctx context.Context, p Procedimiento) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cups: marshal codigo: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(p.Codigo), data, cacheTTL).Err(); err != nil {
		return fmt.Errorf("cups: set codigo: %w", err)
	}
	return nil
}

// Buscar implements the appointment service's catalog interface. A
// missing code is (nil, false, nil): scheduling proceeds without
// metadata rather than failing.
func (s *Store) Buscar(ctx context.Context, codigo string) (*citas.InformacionCups, bool, error) {
	p, err := s.Get(ctx, codigo)
	if err != nil {
		if err == ErrCodigoNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &citas.InformacionCups{
		Codigo:          p.Codigo,
		Nombre:          p.Nombre,
		Especialidad:    p.Especialidad,
		Categoria:       p.Categoria,
		Tipo:            p.Tipo,
		Ambito:          p.Ambito,
		EquipoRequerido: p.EquipoRequerido,
	}, true, nil
}
