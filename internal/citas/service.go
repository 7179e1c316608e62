package citas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/andeshealth/ipsalud/internal/observability/metrics"
	"github.com/andeshealth/ipsalud/pkg/logging"
)

var tracer = otel.Tracer("ipsalud/citas")

// PacienteDirectory resolves the searchable identity of a patient so the
// filter engine can match free text against it. Implemented by the
// pacientes service.
type PacienteDirectory interface {
	Resumen(ctx context.Context, pacienteID int64) (nombre, documento, telefono string, err error)
}

// CatalogoCups resolves CUPS procedure-code metadata at scheduling time.
type CatalogoCups interface {
	Buscar(ctx context.Context, codigo string) (*InformacionCups, bool, error)
}

// EventRecorder persists a transition event for asynchronous delivery.
type EventRecorder interface {
	RecordTransition(ctx context.Context, citaID int64, pacienteID int64, from, to Estado) error
}

// Service orchestrates the appointment lifecycle: scheduling, listing,
// and status transitions.
type Service struct {
	repo      Repository
	directory PacienteDirectory
	catalogo  CatalogoCups
	recorder  EventRecorder
	metrics   *metrics.CitasMetrics
	logger    *logging.Logger
	loc       *time.Location
}

// ServiceConfig wires the service's collaborators. Directory, Catalogo,
// Recorder and Metrics are optional.
type ServiceConfig struct {
	Repo      Repository
	Directory PacienteDirectory
	Catalogo  CatalogoCups
	Recorder  EventRecorder
	Metrics   *metrics.CitasMetrics
	Logger    *logging.Logger
	Location  *time.Location
}

// NewService creates the appointment service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Repo == nil {
		panic("citas: repository required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      cfg.Repo,
		directory: cfg.Directory,
		catalogo:  cfg.Catalogo,
		recorder:  cfg.Recorder,
		metrics:   cfg.Metrics,
		logger:    logger,
		loc:       loc,
	}
}

// Location returns the timezone used for calendar-date comparisons.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Crear schedules an appointment. When a CUPS code is supplied the
// catalog metadata is attached so the decoded document resolves its
// specialty from the authoritative source.
func (s *Service) Crear(ctx context.Context, req CrearCitaRequest) (*CitaView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc := DefaultDocumento()
	if t, ok := parseFechaHora(req.FechaHoraCita); ok {
		doc.FechaHoraCita = &t
	}
	if strings.TrimSpace(req.Motivo) != "" {
		doc.Motivo = req.Motivo
	}
	if strings.TrimSpace(req.MedicoAsignado) != "" {
		doc.MedicoNombre, doc.MedicoEspecialidad = splitMedicoAsignado(req.MedicoAsignado)
	}
	if strings.TrimSpace(req.Especialidad) != "" {
		doc.Especialidad = req.Especialidad
	}
	if strings.TrimSpace(req.Notas) != "" {
		doc.Notas = req.Notas
	}
	if codigo := strings.TrimSpace(req.CodigoCups); codigo != "" {
		doc.CodigoCups = codigo
		if s.catalogo != nil {
			info, found, err := s.catalogo.Buscar(ctx, codigo)
			if err != nil {
				s.logger.Warn("cups lookup failed, scheduling without metadata", "codigo", codigo, "error", err)
			} else if found {
				doc.InformacionCups = info
				if strings.TrimSpace(info.Especialidad) != "" {
					doc.Especialidad = info.Especialidad
				}
			}
		}
	}

	datos, err := EncodeDocumento(doc)
	if err != nil {
		return nil, fmt.Errorf("citas: encode documento: %w", err)
	}

	cita, err := s.repo.Create(ctx, req.PacienteID, datos)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cita creada", "id", cita.ID, "paciente_id", cita.PacienteID, "estado", doc.Estado)
	view := s.view(ctx, cita)
	return &view, nil
}

// Get returns one appointment with its decoded document.
func (s *Service) Get(ctx context.Context, id int64) (*CitaView, error) {
	cita, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(ctx, cita)
	return &view, nil
}

// ListPendientes returns non-terminal appointments narrowed by the given
// criteria, newest first, paginated after filtering.
func (s *Service) ListPendientes(ctx context.Context, crit Criteria, limit, offset int) ([]CitaView, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLatency("list_pendientes", time.Since(start).Seconds())
	}()

	registros, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	views := make([]CitaView, 0, len(registros))
	for _, cita := range registros {
		view := s.view(ctx, cita)
		if IsTerminal(view.Documento.Estado) {
			continue
		}
		views = append(views, view)
	}

	crit.Location = s.loc
	views = Filter(views, crit)

	if offset > 0 {
		if offset >= len(views) {
			return []CitaView{}, nil
		}
		views = views[offset:]
	}
	if limit > 0 && limit < len(views) {
		views = views[:limit]
	}
	return views, nil
}

// CambiarEstado executes a status transition. The target must be legal
// for the appointment's current normalized state. expectedVersion >= 0
// enables the optimistic-locking check; pass -1 to keep last-write-wins.
// On success the full updated record is returned so callers can refresh
// their local copy.
func (s *Service) CambiarEstado(ctx context.Context, id int64, target string, expectedVersion int) (*CitaView, error) {
	ctx, span := tracer.Start(ctx, "citas.CambiarEstado")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.ObserveLatency("cambiar_estado", time.Since(start).Seconds())
	}()

	cita, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := s.decode(cita.DatosJSON)
	from := doc.Estado
	to := NormalizeEstado(target)
	span.SetAttributes(
		attribute.Int64("cita.id", id),
		attribute.String("estado.from", string(from)),
		attribute.String("estado.to", string(to)),
	)

	if !CanTransition(from, to) {
		s.metrics.ObserveTransition(string(from), string(to), "rejected")
		return nil, fmt.Errorf("%w: %s -> %s", ErrTransicionInvalida, from, to)
	}

	doc.Estado = to
	datos, err := EncodeDocumento(doc)
	if err != nil {
		return nil, fmt.Errorf("citas: encode documento: %w", err)
	}

	updated, err := s.repo.UpdateDocumento(ctx, id, datos, expectedVersion)
	if err != nil {
		s.metrics.ObserveTransition(string(from), string(to), "error")
		return nil, err
	}

	s.metrics.ObserveTransition(string(from), string(to), "ok")
	s.logger.Info("cita estado cambiado", "id", id, "from", from, "to", to, "version", updated.Version)

	// The transition is already committed; a failed event insert loses a
	// notification, not the state change.
	if s.recorder != nil {
		if err := s.recorder.RecordTransition(ctx, updated.ID, updated.PacienteID, from, to); err != nil {
			s.logger.Error("failed to record transition event", "id", id, "error", err)
		}
	}

	view := s.view(ctx, updated)
	return &view, nil
}

// Estadisticas counts appointments per normalized estado. Non-canonical
// values are reported under their own label rather than folded away.
func (s *Service) Estadisticas(ctx context.Context) (map[string]int, error) {
	registros, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, cita := range registros {
		doc := s.decode(cita.DatosJSON)
		counts[string(doc.Estado)]++
	}
	return counts, nil
}

func (s *Service) decode(raw json.RawMessage) DocumentoCita {
	if len(raw) > 0 && !json.Valid(raw) {
		s.metrics.ObserveDecodeFallback("cita")
	}
	return DecodeDocumento(raw)
}

func (s *Service) view(ctx context.Context, cita *Cita) CitaView {
	view := CitaView{
		Cita:      *cita,
		Documento: s.decode(cita.DatosJSON),
	}
	if s.directory != nil {
		nombre, documento, telefono, err := s.directory.Resumen(ctx, cita.PacienteID)
		if err != nil {
			s.logger.Debug("paciente resumen unavailable", "paciente_id", cita.PacienteID, "error", err)
		} else {
			view.PacienteNombre = nombre
			view.PacienteDocumento = documento
			view.PacienteTelefono = telefono
		}
	}
	return view
}
