package citas

import "strings"

// Estado is an appointment status. The canonical set is the four constants
// below; anything else is a legacy or future value that survived
// normalization and is kept visible instead of being coerced.
type Estado string

const (
	EstadoProgramado   Estado = "PROGRAMADO"
	EstadoEnSala       Estado = "EN_SALA"
	EstadoAtendido     Estado = "ATENDIDO"
	EstadoNoSePresento Estado = "NO_SE_PRESENTO"
)

// sinonimosEstado folds the spellings that exist in stored documents:
// gender variants, spacing variants and accented forms. Values outside the
// canonical set (CANCELADO) are still folded so repeated normalization is
// stable.
var sinonimosEstado = map[string]Estado{
	"PROGRAMADA":      EstadoProgramado,
	"EN SALA":         EstadoEnSala,
	"ATENDIDA":        EstadoAtendido,
	"COMPLETADO":      EstadoAtendido,
	"COMPLETADA":      EstadoAtendido,
	"NO SE PRESENTO":  EstadoNoSePresento,
	"NO SE PRESENTÓ":  EstadoNoSePresento,
	"NO_SE_PRESENTÓ":  EstadoNoSePresento,
	"CANCELADA":       Estado("CANCELADO"),
}

// transiciones is the legal transition table. Terminal states have no
// entry and therefore no outgoing transitions.
var transiciones = map[Estado][]Estado{
	EstadoProgramado: {EstadoEnSala, EstadoNoSePresento},
	EstadoEnSala:     {EstadoAtendido},
}

// NormalizeEstado maps a raw status string onto its canonical form.
// Empty input means the appointment was just scheduled. Unknown values
// pass through uppercased so they stay visible for debugging instead of
// being misreported as PROGRAMADO.
func NormalizeEstado(raw string) Estado {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return EstadoProgramado
	}
	if canonical, ok := sinonimosEstado[s]; ok {
		return canonical
	}
	return Estado(s)
}

// IsCanonical reports whether e belongs to the canonical set.
func IsCanonical(e Estado) bool {
	switch e {
	case EstadoProgramado, EstadoEnSala, EstadoAtendido, EstadoNoSePresento:
		return true
	}
	return false
}

// IsTerminal reports whether e admits no further transitions. Unknown
// states are treated as terminal: the machine refuses to move what it
// does not understand.
func IsTerminal(e Estado) bool {
	return len(transiciones[e]) == 0
}

// AvailableTransitions returns the states reachable from the given one.
// Terminal and unknown states yield an empty slice.
func AvailableTransitions(from Estado) []Estado {
	targets := transiciones[from]
	out := make([]Estado, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Estado) bool {
	for _, t := range transiciones[from] {
		if t == to {
			return true
		}
	}
	return false
}
