package pacientes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePerfil() PerfilPaciente {
	return PerfilPaciente{
		InformacionPersonal: InformacionPersonal{
			PrimerNombre:    "Ana",
			SegundoNombre:   "María",
			PrimerApellido:  "Rodríguez",
			SegundoApellido: "López",
			TipoDocumento:   "CC",
			NumeroDocumento: "1020304050",
			FechaNacimiento: "1990-06-15",
			Genero:          "F",
			Nacionalidad:    "Colombiana",
		},
		InformacionContacto: InformacionContacto{
			Telefono:     "3001234567",
			Correo:       "ana@example.com",
			Direccion:    "Calle 10 # 5-23",
			Ciudad:       "Medellín",
			Departamento: "Antioquia",
			Pais:         "Colombia",
		},
		InformacionMedica: InformacionMedica{
			EPS:               "Sura",
			RegimenAfiliacion: "Contributivo",
			GrupoSanguineo:    "O+",
			Alergias:          "Penicilina",
			Antecedentes:      "Ninguno",
		},
		ContactoEmergencia: ContactoEmergencia{
			Nombre:     "Luis Rodríguez",
			Parentesco: "Hermano",
			Telefono:   "3109876543",
		},
		ConsentimientoInformado: ConsentimientoInformado{
			AceptaTratamientoDatos: true,
			AceptaNotificaciones:   false,
			FechaAceptacion:        "2026-01-10",
		},
	}
}

func TestDecodeProfileDefaults(t *testing.T) {
	cases := []struct {
		name string
		raw  json.RawMessage
	}{
		{"nil", nil},
		{"garbage", json.RawMessage("{broken")},
		{"empty object", json.RawMessage("{}")},
		{"nested with broken inner", json.RawMessage(`{"datosJson": "{not json"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perfil := DecodeProfile(tc.raw)
			assert.Equal(t, "Colombiana", perfil.InformacionPersonal.Nacionalidad)
			assert.Equal(t, "Colombia", perfil.InformacionContacto.Pais)
			assert.Equal(t, "", perfil.InformacionPersonal.PrimerNombre)
			assert.False(t, perfil.ConsentimientoInformado.AceptaTratamientoDatos)
		})
	}
}

func TestDecodeProfileNestedForm(t *testing.T) {
	inner := `{"informacionPersonal":{"primerNombre":"Ana"}}`
	raw, err := json.Marshal(map[string]string{"datosJson": inner})
	require.NoError(t, err)

	perfil := DecodeProfile(raw)
	assert.Equal(t, "Ana", perfil.InformacionPersonal.PrimerNombre)
	assert.Equal(t, "Ana", DeriveFullName(perfil.InformacionPersonal))
	// Absent sections keep their locale defaults.
	assert.Equal(t, "Colombiana", perfil.InformacionPersonal.Nacionalidad)
	assert.Equal(t, "Colombia", perfil.InformacionContacto.Pais)
}

func TestDecodeProfileFlatFormSectionsIndependent(t *testing.T) {
	raw := json.RawMessage(`{
		"informacionPersonalJson": "{\"primerNombre\":\"Carlos\",\"primerApellido\":\"Pérez\"}",
		"informacionMedicaJson": "{broken",
		"contactoEmergenciaJson": "{\"nombre\":\"Marta\"}"
	}`)
	perfil := DecodeProfile(raw)

	assert.Equal(t, "Carlos Pérez", DeriveFullName(perfil.InformacionPersonal))
	assert.Equal(t, "Marta", perfil.ContactoEmergencia.Nombre)
	// The corrupt section degrades alone.
	assert.Equal(t, "", perfil.InformacionMedica.EPS)
	assert.Equal(t, "Colombia", perfil.InformacionContacto.Pais)
}

func TestEncodeNestedRoundTrip(t *testing.T) {
	want := samplePerfil()

	raw, err := EncodeNested(want)
	require.NoError(t, err)

	got := DecodeProfile(raw)
	assert.Equal(t, want, got)
}

func TestEncodeFlatRoundTrip(t *testing.T) {
	want := samplePerfil()

	raw, err := EncodeFlat(want)
	require.NoError(t, err)

	got := DecodeProfile(raw)
	assert.Equal(t, want, got)
}

func TestDeriveFullName(t *testing.T) {
	cases := []struct {
		personal InformacionPersonal
		want     string
	}{
		{InformacionPersonal{PrimerNombre: "Ana", SegundoNombre: "María", PrimerApellido: "Rodríguez", SegundoApellido: "López"}, "Ana María Rodríguez López"},
		{InformacionPersonal{PrimerNombre: "Ana", PrimerApellido: "Rodríguez"}, "Ana Rodríguez"},
		{InformacionPersonal{PrimerNombre: "  Ana  "}, "Ana"},
		{InformacionPersonal{}, "N/A"},
		{InformacionPersonal{PrimerNombre: "   ", SegundoApellido: " "}, "N/A"},
	}
	for _, tc := range cases {
		if got := DeriveFullName(tc.personal); got != tc.want {
			t.Errorf("DeriveFullName(%+v) = %q, want %q", tc.personal, got, tc.want)
		}
	}
}

func TestCalculateAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		want string
	}{
		{"1990-06-15", "36"},
		{"1990-08-28", "36"},
		{"1990-08-29", "35"},
		{"1990-12-01", "35"},
		{"15/06/1990", "36"},
		{"2030-01-01", "N/A"},
		{"no es fecha", "N/A"},
		{"", "N/A"},
	}
	for _, tc := range cases {
		if got := CalculateAge(tc.in, now); got != tc.want {
			t.Errorf("CalculateAge(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
