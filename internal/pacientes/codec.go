package pacientes

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Two profile encodings exist in the wild. Existing patients carry the
// nested form, where datosJson has a single "datosJson" property whose
// value is a JSON string holding all five sections. Patients registered
// by this service carry the flat form: sibling "*Json" string fields,
// one per section, each independently encoded.

type perfilNested struct {
	DatosJSON *string `json:"datosJson"`
}

type perfilFlat struct {
	InformacionPersonalJSON     *string `json:"informacionPersonalJson"`
	InformacionContactoJSON     *string `json:"informacionContactoJson"`
	InformacionMedicaJSON       *string `json:"informacionMedicaJson"`
	ContactoEmergenciaJSON      *string `json:"contactoEmergenciaJson"`
	ConsentimientoInformadoJSON *string `json:"consentimientoInformadoJson"`
}

type seccionesWire struct {
	InformacionPersonal     *InformacionPersonal     `json:"informacionPersonal"`
	InformacionContacto     *InformacionContacto     `json:"informacionContacto"`
	InformacionMedica       *InformacionMedica       `json:"informacionMedica"`
	ContactoEmergencia      *ContactoEmergencia      `json:"contactoEmergencia"`
	ConsentimientoInformado *ConsentimientoInformado `json:"consentimientoInformado"`
}

// DefaultPerfil is the all-default profile: empty strings everywhere
// except the locale defaults.
func DefaultPerfil() PerfilPaciente {
	var p PerfilPaciente
	p.InformacionPersonal.Nacionalidad = "Colombiana"
	p.InformacionContacto.Pais = "Colombia"
	return p
}

// DecodeProfile decodes a raw patient datosJson blob. It is total:
// malformed or missing JSON degrades to defaults section by section, so
// one corrupt section never hides the others.
func DecodeProfile(raw json.RawMessage) PerfilPaciente {
	perfil := DefaultPerfil()
	if len(raw) == 0 {
		return perfil
	}

	// Nested form: the whole profile is double-encoded under one key.
	var nested perfilNested
	if err := json.Unmarshal(raw, &nested); err == nil && nested.DatosJSON != nil {
		var wire seccionesWire
		if err := json.Unmarshal([]byte(*nested.DatosJSON), &wire); err == nil {
			applySecciones(&perfil, wire)
		}
		return perfil
	}

	// Flat form: each section is its own encoded string.
	var flat perfilFlat
	if err := json.Unmarshal(raw, &flat); err != nil {
		return perfil
	}
	var wire seccionesWire
	decodeSeccion(flat.InformacionPersonalJSON, &wire.InformacionPersonal)
	decodeSeccion(flat.InformacionContactoJSON, &wire.InformacionContacto)
	decodeSeccion(flat.InformacionMedicaJSON, &wire.InformacionMedica)
	decodeSeccion(flat.ContactoEmergenciaJSON, &wire.ContactoEmergencia)
	decodeSeccion(flat.ConsentimientoInformadoJSON, &wire.ConsentimientoInformado)
	applySecciones(&perfil, wire)
	return perfil
}

func decodeSeccion[T any](raw *string, dst **T) {
	if raw == nil {
		return
	}
	var v T
	if err := json.Unmarshal([]byte(*raw), &v); err != nil {
		return
	}
	*dst = &v
}

func applySecciones(perfil *PerfilPaciente, wire seccionesWire) {
	if wire.InformacionPersonal != nil {
		perfil.InformacionPersonal = *wire.InformacionPersonal
	}
	if wire.InformacionContacto != nil {
		perfil.InformacionContacto = *wire.InformacionContacto
	}
	if wire.InformacionMedica != nil {
		perfil.InformacionMedica = *wire.InformacionMedica
	}
	if wire.ContactoEmergencia != nil {
		perfil.ContactoEmergencia = *wire.ContactoEmergencia
	}
	if wire.ConsentimientoInformado != nil {
		perfil.ConsentimientoInformado = *wire.ConsentimientoInformado
	}
	if strings.TrimSpace(perfil.InformacionPersonal.Nacionalidad) == "" {
		perfil.InformacionPersonal.Nacionalidad = "Colombiana"
	}
	if strings.TrimSpace(perfil.InformacionContacto.Pais) == "" {
		perfil.InformacionContacto.Pais = "Colombia"
	}
}

// EncodeFlat writes the profile in the flat form used for new patients.
func EncodeFlat(perfil PerfilPaciente) (json.RawMessage, error) {
	personal, err := json.Marshal(perfil.InformacionPersonal)
	if err != nil {
		return nil, err
	}
	contacto, err := json.Marshal(perfil.InformacionContacto)
	if err != nil {
		return nil, err
	}
	medica, err := json.Marshal(perfil.InformacionMedica)
	if err != nil {
		return nil, err
	}
	emergencia, err := json.Marshal(perfil.ContactoEmergencia)
	if err != nil {
		return nil, err
	}
	consentimiento, err := json.Marshal(perfil.ConsentimientoInformado)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]string{
		"informacionPersonalJson":     string(personal),
		"informacionContactoJson":     string(contacto),
		"informacionMedicaJson":       string(medica),
		"contactoEmergenciaJson":      string(emergencia),
		"consentimientoInformadoJson": string(consentimiento),
	})
}

// EncodeNested writes the legacy nested form. Kept for compatibility
// tests and data backfills; the service itself always writes flat.
func EncodeNested(perfil PerfilPaciente) (json.RawMessage, error) {
	inner, err := json.Marshal(seccionesWire{
		InformacionPersonal:     &perfil.InformacionPersonal,
		InformacionContacto:     &perfil.InformacionContacto,
		InformacionMedica:       &perfil.InformacionMedica,
		ContactoEmergencia:      &perfil.ContactoEmergencia,
		ConsentimientoInformado: &perfil.ConsentimientoInformado,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]string{"datosJson": string(inner)})
}

// DeriveFullName joins the four name parts, skipping blanks. An empty
// result collapses to "N/A" so list rows always render something.
func DeriveFullName(personal InformacionPersonal) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{
		personal.PrimerNombre,
		personal.SegundoNombre,
		personal.PrimerApellido,
		personal.SegundoApellido,
	} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, " ")
}

var fechaNacimientoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// CalculateAge returns the whole-year age at the reference time, or
// "N/A" when the birth date cannot be parsed.
func CalculateAge(fechaNacimiento string, now time.Time) string {
	s := strings.TrimSpace(fechaNacimiento)
	if s == "" {
		return "N/A"
	}
	var birth time.Time
	parsed := false
	for _, layout := range fechaNacimientoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			birth = t
			parsed = true
			break
		}
	}
	if !parsed || birth.After(now) {
		return "N/A"
	}

	years := now.Year() - birth.Year()
	// Birthday not yet reached this year.
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return strconv.Itoa(years)
}
