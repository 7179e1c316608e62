package pacientes

import "context"

// Directory adapts the repository into the searchable-identity lookup
// the appointments service filters with.
type Directory struct {
	repo Repository
}

// NewDirectory wraps a repository.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// Resumen returns the patient's derived full name, document number and
// phone for free-text matching.
func (d *Directory) Resumen(ctx context.Context, pacienteID int64) (nombre, documento, telefono string, err error) {
	p, err := d.repo.GetByID(ctx, pacienteID)
	if err != nil {
		return "", "", "", err
	}
	perfil := DecodeProfile(p.DatosJSON)
	return DeriveFullName(perfil.InformacionPersonal),
		perfil.InformacionPersonal.NumeroDocumento,
		perfil.InformacionContacto.Telefono,
		nil
}
