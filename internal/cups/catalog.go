// Package cups resolves CUPS procedure codes (the Colombian billing
// coding standard) to their metadata. Lookups hit Redis first; the
// embedded seed covers the codes the IPS bills most and answers when
// the cache has nothing.
package cups

import (
	"errors"
	"strings"
)

// ErrCodigoNotFound signals a code absent from both cache and seed.
var ErrCodigoNotFound = errors.New("codigo cups not found")

// Procedimiento is the catalog entry for one CUPS code.
type Procedimiento struct {
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	Especialidad    string `json:"especialidad"`
	Categoria       string `json:"categoria"`
	Tipo            string `json:"tipo"`
	Ambito          string `json:"ambito"`
	EquipoRequerido string `json:"equipo_requerido"`
}

// seedCatalog is the baseline catalog shipped with the binary.
var seedCatalog = map[string]Procedimiento{
	"890201": {
		Codigo:       "890201",
		Nombre:       "Consulta de primera vez por medicina general",
		Especialidad: "Medicina General",
		Categoria:    "Consulta",
		Tipo:         "Ambulatorio",
		Ambito:       "Consulta externa",
	},
	"890202": {
		Codigo:       "890202",
		Nombre:       "Consulta de primera vez por medicina especializada",
		Especialidad: "Medicina Especializada",
		Categoria:    "Consulta",
		Tipo:         "Ambulatorio",
		Ambito:       "Consulta externa",
	},
	"890301": {
		Codigo:       "890301",
		Nombre:       "Consulta de control o seguimiento por medicina general",
		Especialidad: "Medicina General",
		Categoria:    "Consulta",
		Tipo:         "Ambulatorio",
		Ambito:       "Consulta externa",
	},
	"890305": {
		Codigo:       "890305",
		Nombre:       "Consulta de control por medicina especializada",
		Especialidad: "Medicina Especializada",
		Categoria:    "Consulta",
		Tipo:         "Ambulatorio",
		Ambito:       "Consulta externa",
	},
	"890701": {
		Codigo:       "890701",
		Nombre:       "Consulta de primera vez por cardiología",
		Especialidad: "Cardiología",
		Categoria:    "Consulta",
		Tipo:         "Ambulatorio",
		Ambito:       "Consulta externa",
	},
	"895100": {
		Codigo:          "895100",
		Nombre:          "Electrocardiograma de ritmo o de superficie",
		Especialidad:    "Cardiología",
		Categoria:       "Diagnóstico",
		Tipo:            "Ambulatorio",
		Ambito:          "Consulta externa",
		EquipoRequerido: "Electrocardiógrafo",
	},
	"881201": {
		Codigo:          "881201",
		Nombre:          "Ecografía de abdomen total",
		Especialidad:    "Radiología",
		Categoria:       "Diagnóstico",
		Tipo:            "Ambulatorio",
		Ambito:          "Consulta externa",
		EquipoRequerido: "Ecógrafo",
	},
	"902210": {
		Codigo:       "902210",
		Nombre:       "Hemograma IV (hemoglobina, hematocrito y leucograma)",
		Especialidad: "Laboratorio Clínico",
		Categoria:    "Laboratorio",
		Tipo:         "Ambulatorio",
		Ambito:       "Consulta externa",
	},
}

func lookupSeed(codigo string) (Procedimiento, bool) {
	p, ok := seedCatalog[strings.TrimSpace(codigo)]
	return p, ok
}
