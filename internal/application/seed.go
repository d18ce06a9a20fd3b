package application

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

// Seed populates an empty catalog with sample rows. It is a no-op when any
// campus already exists, so it is safe to run on every start.
func Seed(ctx context.Context, campuses domain.CampusRepository, faculties domain.FacultyRepository, degreeTypes domain.DegreeTypeRepository, programs domain.ProgramRepository) error {
	existing, err := campuses.ObserveAll(ctx, domain.SortNameAsc)
	if err != nil {
		return fmt.Errorf("check existing campuses: %w", err)
	}
	rows := <-existing.Updates()
	existing.Close()
	if len(rows) > 0 {
		return nil
	}

	campusIngenierias, err := campuses.Insert(ctx, domain.Campus{Name: "Ingenierías"})
	if err != nil {
		return fmt.Errorf("seed campus: %w", err)
	}
	campusSociales, err := campuses.Insert(ctx, domain.Campus{Name: "Sociales"})
	if err != nil {
		return fmt.Errorf("seed campus: %w", err)
	}

	fips, err := faculties.Insert(ctx, domain.Faculty{Name: "Facultad de Ingeniería de Producción y Servicios"})
	if err != nil {
		return fmt.Errorf("seed faculty: %w", err)
	}
	sociales, err := faculties.Insert(ctx, domain.Faculty{Name: "Facultad de Ciencias Histórico Sociales"})
	if err != nil {
		return fmt.Errorf("seed faculty: %w", err)
	}
	if _, err := faculties.Insert(ctx, domain.Faculty{Name: "Facultad de Ciencias Naturales y Formales"}); err != nil {
		return fmt.Errorf("seed faculty: %w", err)
	}

	profesional, err := degreeTypes.Insert(ctx, domain.DegreeType{Name: "Maestria Profesional"})
	if err != nil {
		return fmt.Errorf("seed degree type: %w", err)
	}
	academica, err := degreeTypes.Insert(ctx, domain.DegreeType{Name: "Maestria Academica"})
	if err != nil {
		return fmt.Errorf("seed degree type: %w", err)
	}

	_, err = programs.Insert(ctx, domain.Program{
		Name:             "Maestría en Ciencia de Datos",
		DegreeTypeCodigo: profesional,
		FacultyCodigo:    fips,
		CampusCodigo:     campusIngenierias,
	})
	if err != nil {
		return fmt.Errorf("seed program: %w", err)
	}
	_, err = programs.Insert(ctx, domain.Program{
		Name:             "Maestría en Ciencias: con mención en Comunicación",
		DegreeTypeCodigo: academica,
		FacultyCodigo:    sociales,
		CampusCodigo:     campusSociales,
	})
	if err != nil {
		return fmt.Errorf("seed program: %w", err)
	}
	return nil
}
