// Package router assembles the HTTP surface of the service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andeshealth/ipsalud/internal/citas"
	"github.com/andeshealth/ipsalud/internal/cups"
	"github.com/andeshealth/ipsalud/internal/historias"
	httpmiddleware "github.com/andeshealth/ipsalud/internal/http/middleware"
	"github.com/andeshealth/ipsalud/internal/pacientes"
	"github.com/andeshealth/ipsalud/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	CitasHandler       *citas.Handler
	PacientesHandler   *pacientes.Handler
	HistoriasHandler   *historias.Handler
	CupsHandler        *cups.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.CitasHandler != nil {
			api.Get("/pacientes/citas-pendientes", cfg.CitasHandler.ListPendientes)
			api.Route("/citas", func(r chi.Router) {
				r.Post("/", cfg.CitasHandler.Crear)
				r.Get("/{id}", cfg.CitasHandler.Get)
				r.Patch("/{id}/estado", cfg.CitasHandler.CambiarEstado)
			})
		}
		if cfg.PacientesHandler != nil {
			api.Route("/pacientes", func(r chi.Router) {
				r.Post("/", cfg.PacientesHandler.Registrar)
				r.Get("/{id}", cfg.PacientesHandler.Get)
				r.Put("/{id}", cfg.PacientesHandler.Actualizar)
				r.Delete("/{id}", cfg.PacientesHandler.Eliminar)
			})
		}
		if cfg.HistoriasHandler != nil {
			api.Route("/historias-clinicas", func(r chi.Router) {
				r.Post("/", cfg.HistoriasHandler.Crear)
				r.Get("/paciente/{id}", cfg.HistoriasHandler.GetByPaciente)
				r.Post("/{id}/consultas", cfg.HistoriasHandler.AddConsulta)
			})
		}
		if cfg.CupsHandler != nil {
			api.Get("/cups/{codigo}", cfg.CupsHandler.Get)
		}
	})

	// Admin routes (protected by HMAC JWT).
	if cfg.AdminAuthSecret != "" && cfg.CitasHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/estadisticas/citas", cfg.CitasHandler.Estadisticas)
		})
	}

	return r
}
