package citas

import (
	"sort"
	"strings"
	"time"
)

// CitaView pairs a stored record with its decoded document and the owning
// patient's searchable identity. The filter engine operates on views so
// the free-text patient criterion has something to match against.
type CitaView struct {
	Cita              Cita          `json:"cita"`
	Documento         DocumentoCita `json:"documento"`
	PacienteNombre    string        `json:"pacienteNombre,omitempty"`
	PacienteDocumento string        `json:"pacienteDocumento,omitempty"`
	PacienteTelefono  string        `json:"pacienteTelefono,omitempty"`
}

// Criteria narrows an appointment collection. Zero-valued fields are
// ignored; set fields compose with logical AND.
type Criteria struct {
	// FechaInicio/FechaFin are inclusive calendar-date bounds on the
	// decoded fechaHoraCita. An appointment without a date fails any
	// range check: an undated appointment cannot be said to fall
	// within a range.
	FechaInicio *time.Time
	FechaFin    *time.Time

	// Estado matches the normalized canonical state exactly.
	Estado Estado

	// Paciente is a case-insensitive substring matched against the
	// patient's full name, document number, or phone.
	Paciente string

	// Location controls which calendar day a timestamp belongs to.
	// Nil means UTC.
	Location *time.Location
}

func (c Criteria) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}

// Filter returns the views matching the criteria. It preserves input
// order and never reorders, only removes.
func Filter(views []CitaView, c Criteria) []CitaView {
	out := make([]CitaView, 0, len(views))
	for _, v := range views {
		if matches(v, c) {
			out = append(out, v)
		}
	}
	return out
}

func matches(v CitaView, c Criteria) bool {
	if c.FechaInicio != nil || c.FechaFin != nil {
		if v.Documento.FechaHoraCita == nil {
			return false
		}
		day := dateOnly(*v.Documento.FechaHoraCita, c.location())
		if c.FechaInicio != nil && day.Before(dateOnly(*c.FechaInicio, c.location())) {
			return false
		}
		if c.FechaFin != nil && day.After(dateOnly(*c.FechaFin, c.location())) {
			return false
		}
	}

	if c.Estado != "" && v.Documento.Estado != c.Estado {
		return false
	}

	if c.Paciente != "" {
		needle := strings.ToLower(strings.TrimSpace(c.Paciente))
		if needle != "" &&
			!strings.Contains(strings.ToLower(v.PacienteNombre), needle) &&
			!strings.Contains(strings.ToLower(v.PacienteDocumento), needle) &&
			!strings.Contains(strings.ToLower(v.PacienteTelefono), needle) {
			return false
		}
	}

	return true
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SortCitas orders views by scheduled date-time, ascending by default.
// The sort is stable; undated appointments sink to the end regardless of
// direction.
func SortCitas(views []CitaView, descending bool) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Documento.FechaHoraCita, views[j].Documento.FechaHoraCita
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		if descending {
			return a.After(*b)
		}
		return a.Before(*b)
	})
}

// GroupByDate partitions views by calendar day ("2006-01-02" keys),
// preserving per-group insertion order. Undated views group under "".
func GroupByDate(views []CitaView, loc *time.Location) map[string][]CitaView {
	if loc == nil {
		loc = time.UTC
	}
	groups := make(map[string][]CitaView)
	for _, v := range views {
		key := ""
		if v.Documento.FechaHoraCita != nil {
			key = v.Documento.FechaHoraCita.In(loc).Format("2006-01-02")
		}
		groups[key] = append(groups[key], v)
	}
	return groups
}
