package historias

import "time"

// HistoriaClinica is a patient's clinical history. Exactly one exists
// per patient; consultations hang off it.
type HistoriaClinica struct {
	ID            int64            `json:"id"`
	PacienteID    int64            `json:"pacienteId"`
	Observaciones string           `json:"observaciones"`
	FechaApertura time.Time        `json:"fechaApertura"`
	Consultas     []ConsultaMedica `json:"consultas"`
}

// ConsultaMedica is one consultation entry in a clinical history.
type ConsultaMedica struct {
	ID                 int64     `json:"id"`
	HistoriaID         int64     `json:"historiaId"`
	FechaConsulta      time.Time `json:"fechaConsulta"`
	Medico             string    `json:"medico"`
	Especialidad       string    `json:"especialidad"`
	MotivoConsulta     string    `json:"motivoConsulta"`
	Diagnostico        string    `json:"diagnostico"`
	CodigosDiagnostico []string  `json:"codigosDiagnostico"`
	Tratamiento        string    `json:"tratamiento"`
	Notas              string    `json:"notas"`
}

// CrearHistoriaRequest opens a clinical history for a patient.
type CrearHistoriaRequest struct {
	PacienteID    int64  `json:"pacienteId"`
	Observaciones string `json:"observaciones"`
}

// CrearConsultaRequest appends a consultation to an existing history.
type CrearConsultaRequest struct {
	FechaConsulta      string   `json:"fechaConsulta"`
	Medico             string   `json:"medico"`
	Especialidad       string   `json:"especialidad"`
	MotivoConsulta     string   `json:"motivoConsulta"`
	Diagnostico        string   `json:"diagnostico"`
	CodigosDiagnostico []string `json:"codigosDiagnostico"`
	Tratamiento        string   `json:"tratamiento"`
	Notas              string   `json:"notas"`
}
