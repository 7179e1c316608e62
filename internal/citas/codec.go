package citas

import (
	"encoding/json"
	"strings"
	"time"
)

// Wire defaults. Stored documents predate the service and omit fields
// freely, so every field falls back independently.
const (
	defaultMotivo = "N/A"
	defaultMedico = "N/A"
	defaultEspec  = "N/A"
	defaultNotas  = "Sin notas"
)

// documentoCitaWire mirrors the stored JSON shape. Pointer fields
// distinguish "absent" from "empty".
type documentoCitaWire struct {
	FechaHoraCita   *string          `json:"fechaHoraCita"`
	Motivo          *string          `json:"motivo"`
	MedicoAsignado  *string          `json:"medicoAsignado"`
	Estado          *string          `json:"estado"`
	Especialidad    *string          `json:"especialidad"`
	CodigoCups      *string          `json:"codigoCups"`
	InformacionCups *InformacionCups `json:"informacionCups"`
	Notas           *string          `json:"notas"`
}

// fechaHoraLayouts are the timestamp spellings observed in stored
// documents, most specific first.
var fechaHoraLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseFechaHora(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range fechaHoraLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DefaultDocumento is the fully-defaulted appointment document used when
// a stored blob is absent or unparseable.
func DefaultDocumento() DocumentoCita {
	return DocumentoCita{
		Motivo:       defaultMotivo,
		MedicoNombre: defaultMedico,
		Estado:       EstadoProgramado,
		Especialidad: defaultEspec,
		Notas:        defaultNotas,
	}
}

// DecodeDocumento decodes a raw datosJson blob into a DocumentoCita. It
// is total: nil, empty, or malformed input yields DefaultDocumento, and
// each present field is defaulted on its own, so one bad field never
// poisons the rest. Raw estado values never leak past this boundary.
func DecodeDocumento(raw json.RawMessage) DocumentoCita {
	doc := DefaultDocumento()

	if len(raw) == 0 {
		return doc
	}

	var wire documentoCitaWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		// Some legacy rows double-encode the document as a JSON string.
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return doc
		}
		if err := json.Unmarshal([]byte(inner), &wire); err != nil {
			return doc
		}
	}

	if wire.FechaHoraCita != nil {
		if t, ok := parseFechaHora(*wire.FechaHoraCita); ok {
			doc.FechaHoraCita = &t
		}
	}
	if wire.Motivo != nil && strings.TrimSpace(*wire.Motivo) != "" {
		doc.Motivo = *wire.Motivo
	}
	if wire.MedicoAsignado != nil && strings.TrimSpace(*wire.MedicoAsignado) != "" {
		doc.MedicoNombre, doc.MedicoEspecialidad = splitMedicoAsignado(*wire.MedicoAsignado)
	}
	if wire.Estado != nil {
		doc.Estado = NormalizeEstado(*wire.Estado)
	}
	if wire.CodigoCups != nil {
		doc.CodigoCups = strings.TrimSpace(*wire.CodigoCups)
	}
	doc.InformacionCups = wire.InformacionCups

	// CUPS metadata is the authoritative specialty source once a
	// procedure code is attached; the form-entered field is the fallback.
	switch {
	case wire.InformacionCups != nil && strings.TrimSpace(wire.InformacionCups.Especialidad) != "":
		doc.Especialidad = wire.InformacionCups.Especialidad
	case wire.Especialidad != nil && strings.TrimSpace(*wire.Especialidad) != "":
		doc.Especialidad = *wire.Especialidad
	}

	if wire.Notas != nil && strings.TrimSpace(*wire.Notas) != "" {
		doc.Notas = *wire.Notas
	}

	return doc
}

// EncodeDocumento writes a DocumentoCita back to the wire shape. The
// round trip is field-for-field, not byte-for-byte: the composite
// medicoAsignado spelling is re-emitted for compatibility with readers
// that still parse it.
func EncodeDocumento(doc DocumentoCita) (json.RawMessage, error) {
	wire := map[string]any{
		"motivo":         doc.Motivo,
		"medicoAsignado": joinMedicoAsignado(doc.MedicoNombre, doc.MedicoEspecialidad),
		"estado":         string(doc.Estado),
		"especialidad":   doc.Especialidad,
		"notas":          doc.Notas,
	}
	if doc.FechaHoraCita != nil {
		wire["fechaHoraCita"] = doc.FechaHoraCita.Format(time.RFC3339)
	}
	if doc.CodigoCups != "" {
		wire["codigoCups"] = doc.CodigoCups
	}
	if doc.InformacionCups != nil {
		wire["informacionCups"] = doc.InformacionCups
	}
	return json.Marshal(wire)
}

// splitMedicoAsignado parses the legacy "Name - Specialty" composite.
// Only the first " - " separates; physician names keep their own hyphens.
func splitMedicoAsignado(raw string) (nombre, especialidad string) {
	raw = strings.TrimSpace(raw)
	if nombre, especialidad, ok := strings.Cut(raw, " - "); ok {
		return strings.TrimSpace(nombre), strings.TrimSpace(especialidad)
	}
	return raw, ""
}

func joinMedicoAsignado(nombre, especialidad string) string {
	if especialidad == "" {
		return nombre
	}
	return nombre + " - " + especialidad
}
