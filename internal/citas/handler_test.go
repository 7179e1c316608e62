package citas

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeshealth/ipsalud/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	svc := NewService(ServiceConfig{
		Repo:   repo,
		Logger: logging.New("error"),
	})
	return NewHandler(svc, logging.New("error")), repo
}

func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/pacientes/citas-pendientes", h.ListPendientes)
	r.Post("/api/citas", h.Crear)
	r.Get("/api/citas/{id}", h.Get)
	r.Patch("/api/citas/{id}/estado", h.CambiarEstado)
	r.Get("/admin/estadisticas/citas", h.Estadisticas)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCrearAndGet(t *testing.T) {
	h, _ := newTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/api/citas", CrearCitaRequest{
		PacienteID:    7,
		FechaHoraCita: "2026-04-02T08:00:00Z",
		Motivo:        "Valoración",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))

	var created CitaView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, EstadoProgramado, created.Documento.Estado)
	assert.Equal(t, "Valoración", created.Documento.Motivo)

	rec = doJSON(t, router, http.MethodGet, "/api/citas/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))
}

func TestHandlerCrearRejectsBadRequests(t *testing.T) {
	h, _ := newTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/api/citas", CrearCitaRequest{PacienteID: 0}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/citas", CrearCitaRequest{
		PacienteID:    7,
		FechaHoraCita: "pasado mañana",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodGet, "/api/citas/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/citas/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCambiarEstado(t *testing.T) {
	h, _ := newTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/api/citas", CrearCitaRequest{PacienteID: 7}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/citas/1/estado",
		CambiarEstadoRequest{Estado: "en sala"},
		map[string]string{"If-Match": `"1"`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))

	var updated CitaView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, EstadoEnSala, updated.Documento.Estado)
	assert.Equal(t, 2, updated.Cita.Version)
}

func TestHandlerCambiarEstadoConflicts(t *testing.T) {
	h, _ := newTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/api/citas", CrearCitaRequest{PacienteID: 7}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Illegal move responds 409 and names the legal ones.
	rec = doJSON(t, router, http.MethodPatch, "/api/citas/1/estado",
		CambiarEstadoRequest{Estado: "ATENDIDO"}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var rejection transitionRejection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejection))
	assert.Equal(t, "PROGRAMADO", rejection.Estado)
	assert.ElementsMatch(t, []Estado{EstadoEnSala, EstadoNoSePresento}, rejection.Disponibles)

	// Stale If-Match responds 412.
	rec = doJSON(t, router, http.MethodPatch, "/api/citas/1/estado",
		CambiarEstadoRequest{Estado: "EN_SALA"},
		map[string]string{"If-Match": `"99"`})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	// Missing body field responds 400.
	rec = doJSON(t, router, http.MethodPatch, "/api/citas/1/estado",
		CambiarEstadoRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown appointment responds 404.
	rec = doJSON(t, router, http.MethodPatch, "/api/citas/999/estado",
		CambiarEstadoRequest{Estado: "EN_SALA"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerListPendientes(t *testing.T) {
	h, repo := newTestHandler(t)
	router := testRouter(h)

	seed := []DocumentoCita{
		{Estado: EstadoProgramado, Motivo: "Control", MedicoNombre: "N/A", Especialidad: "N/A", Notas: "Sin notas"},
		{Estado: EstadoEnSala, Motivo: "Urgencia", MedicoNombre: "N/A", Especialidad: "N/A", Notas: "Sin notas"},
		{Estado: EstadoAtendido, Motivo: "Cerrada", MedicoNombre: "N/A", Especialidad: "N/A", Notas: "Sin notas"},
	}
	for _, doc := range seed {
		datos, err := EncodeDocumento(doc)
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), 7, datos)
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/pacientes/citas-pendientes", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListCitasResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	rec = doJSON(t, router, http.MethodGet, "/api/pacientes/citas-pendientes?estado=en%20sala", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, EstadoEnSala, resp.Citas[0].Documento.Estado)

	rec = doJSON(t, router, http.MethodGet, "/api/pacientes/citas-pendientes?fechaInicio=not-a-date", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerEstadisticas(t *testing.T) {
	h, repo := newTestHandler(t)
	router := testRouter(h)

	_, err := repo.Create(context.Background(), 7, json.RawMessage(`{"estado":"PROGRAMADA"}`))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), 8, json.RawMessage(`{"estado":"ATENDIDA"}`))
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/admin/estadisticas/citas", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PorEstado map[string]int `json:"porEstado"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.PorEstado["PROGRAMADO"])
	assert.Equal(t, 1, resp.PorEstado["ATENDIDO"])
}
