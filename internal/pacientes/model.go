package pacientes

import (
	"encoding/json"
	"time"
)

// Paciente is the persisted patient record. Like appointments, the
// profile lives in an opaque datosJson document; Activo implements soft
// delete, rows are never removed.
type Paciente struct {
	ID            int64           `json:"id"`
	DatosJSON     json.RawMessage `json:"datosJson"`
	Activo        bool            `json:"activo"`
	FechaCreacion time.Time       `json:"fechaCreacion"`
}

// PerfilPaciente is the canonical decoded profile: five named sections,
// every field defaulted so the caller never sees a partially-nil shape.
type PerfilPaciente struct {
	InformacionPersonal     InformacionPersonal     `json:"informacionPersonal"`
	InformacionContacto     InformacionContacto     `json:"informacionContacto"`
	InformacionMedica       InformacionMedica       `json:"informacionMedica"`
	ContactoEmergencia      ContactoEmergencia      `json:"contactoEmergencia"`
	ConsentimientoInformado ConsentimientoInformado `json:"consentimientoInformado"`
}

type InformacionPersonal struct {
	PrimerNombre    string `json:"primerNombre"`
	SegundoNombre   string `json:"segundoNombre"`
	PrimerApellido  string `json:"primerApellido"`
	SegundoApellido string `json:"segundoApellido"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	FechaNacimiento string `json:"fechaNacimiento"`
	Genero          string `json:"genero"`
	Nacionalidad    string `json:"nacionalidad"`
}

type InformacionContacto struct {
	Telefono     string `json:"telefono"`
	Correo       string `json:"correo"`
	Direccion    string `json:"direccion"`
	Ciudad       string `json:"ciudad"`
	Departamento string `json:"departamento"`
	Pais         string `json:"pais"`
}

// InformacionMedica carries the Colombian insurance-affiliation fields
// alongside the clinical basics.
type InformacionMedica struct {
	EPS               string `json:"eps"`
	RegimenAfiliacion string `json:"regimenAfiliacion"`
	GrupoSanguineo    string `json:"grupoSanguineo"`
	Alergias          string `json:"alergias"`
	Antecedentes      string `json:"antecedentes"`
}

type ContactoEmergencia struct {
	Nombre     string `json:"nombre"`
	Parentesco string `json:"parentesco"`
	Telefono   string `json:"telefono"`
}

type ConsentimientoInformado struct {
	AceptaTratamientoDatos bool   `json:"aceptaTratamientoDatos"`
	AceptaNotificaciones   bool   `json:"aceptaNotificaciones"`
	FechaAceptacion        string `json:"fechaAceptacion"`
}
