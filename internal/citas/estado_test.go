package citas

import "testing"

func TestNormalizeEstado(t *testing.T) {
	cases := []struct {
		in   string
		want Estado
	}{
		{"PROGRAMADO", EstadoProgramado},
		{"PROGRAMADA", EstadoProgramado},
		{"programada", EstadoProgramado},
		{"  programado  ", EstadoProgramado},
		{"", EstadoProgramado},
		{"   ", EstadoProgramado},
		{"EN SALA", EstadoEnSala},
		{"en sala", EstadoEnSala},
		{"EN_SALA", EstadoEnSala},
		{"ATENDIDA", EstadoAtendido},
		{"atendido", EstadoAtendido},
		{"COMPLETADO", EstadoAtendido},
		{"completada", EstadoAtendido},
		{"NO SE PRESENTO", EstadoNoSePresento},
		{"no se presentó", EstadoNoSePresento},
		{"NO_SE_PRESENTÓ", EstadoNoSePresento},
		{"NO_SE_PRESENTO", EstadoNoSePresento},
		{"cancelada", Estado("CANCELADO")},
		{"CANCELADO", Estado("CANCELADO")},
		{"reagendado", Estado("REAGENDADO")},
	}
	for _, tc := range cases {
		if got := NormalizeEstado(tc.in); got != tc.want {
			t.Errorf("NormalizeEstado(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEstadoIdempotent(t *testing.T) {
	inputs := []string{
		"PROGRAMADA", "en sala", "Completado", "no se presentó",
		"cancelada", "REAGENDADO", "", "ATENDIDO",
	}
	for _, in := range inputs {
		once := NormalizeEstado(in)
		twice := NormalizeEstado(string(once))
		if once != twice {
			t.Errorf("NormalizeEstado not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTransitionsClosedOverCanonicalSet(t *testing.T) {
	for from, targets := range transiciones {
		if !IsCanonical(from) {
			t.Errorf("transition source %q is not canonical", from)
		}
		for _, to := range targets {
			if !IsCanonical(to) {
				t.Errorf("transition target %q from %q is not canonical", to, from)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Estado
		want     bool
	}{
		{EstadoProgramado, EstadoEnSala, true},
		{EstadoProgramado, EstadoNoSePresento, true},
		{EstadoProgramado, EstadoAtendido, false},
		{EstadoProgramado, EstadoProgramado, false},
		{EstadoEnSala, EstadoAtendido, true},
		{EstadoEnSala, EstadoProgramado, false},
		{EstadoEnSala, EstadoNoSePresento, false},
		{EstadoAtendido, EstadoEnSala, false},
		{EstadoNoSePresento, EstadoProgramado, false},
		{Estado("CANCELADO"), EstadoProgramado, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(EstadoProgramado) || IsTerminal(EstadoEnSala) {
		t.Error("active states must not be terminal")
	}
	if !IsTerminal(EstadoAtendido) || !IsTerminal(EstadoNoSePresento) {
		t.Error("final states must be terminal")
	}
	if !IsTerminal(Estado("CANCELADO")) {
		t.Error("unknown states must be terminal")
	}
}

func TestAvailableTransitionsReturnsCopy(t *testing.T) {
	first := AvailableTransitions(EstadoProgramado)
	if len(first) != 2 {
		t.Fatalf("expected 2 transitions from PROGRAMADO, got %d", len(first))
	}
	first[0] = Estado("MUTATED")

	second := AvailableTransitions(EstadoProgramado)
	if second[0] == Estado("MUTATED") {
		t.Error("AvailableTransitions must not expose internal slice")
	}

	if got := AvailableTransitions(EstadoAtendido); len(got) != 0 {
		t.Errorf("expected no transitions from ATENDIDO, got %v", got)
	}
}
