package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
	"github.com/atvirokodosprendimai/gradcatalog/internal/livequery"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) (*gorm.DB, *livequery.Hub) {
	t.Helper()
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "gradcatalog_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db, livequery.NewHub()
}

func recvSnapshot[T any](t *testing.T, live domain.LiveList[T]) []T {
	t.Helper()
	select {
	case rows, ok := <-live.Updates():
		if !ok {
			t.Fatalf("live list closed before emitting")
		}
		return rows
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for live list emission")
	}
	return nil
}

func snapshot[T any](t *testing.T, live domain.LiveList[T], err error) []T {
	t.Helper()
	if err != nil {
		t.Fatalf("open live list: %v", err)
	}
	rows := recvSnapshot(t, live)
	live.Close()
	return rows
}

func TestCampusLifecycle(t *testing.T) {
	ctx := context.Background()
	db, hub := openTestStore(t)
	repo := NewCampusRepository(db, hub)

	ingenierias, err := repo.Insert(ctx, domain.Campus{Name: "Ingenierías"})
	if err != nil {
		t.Fatalf("insert campus: %v", err)
	}
	if ingenierias != 1 {
		t.Fatalf("expected first codigo to be 1, got %d", ingenierias)
	}
	sociales, err := repo.Insert(ctx, domain.Campus{Name: "Sociales"})
	if err != nil {
		t.Fatalf("insert campus: %v", err)
	}

	allLive, allErr := repo.ObserveAll(ctx, domain.SortNameAsc)
	all := snapshot(t, allLive, allErr)
	if len(all) != 2 || all[0].Name != "Ingenierías" || all[1].Name != "Sociales" {
		t.Fatalf("unexpected full listing: %+v", all)
	}
	if all[0].State != domain.StateActive {
		t.Fatalf("expected new row to be active, got %q", all[0].State)
	}

	if err := repo.Inactivate(ctx, ingenierias); err != nil {
		t.Fatalf("inactivate: %v", err)
	}
	activeLive, activeErr := repo.ObserveActive(ctx)
	active := snapshot(t, activeLive, activeErr)
	if len(active) != 1 || active[0].Codigo != sociales {
		t.Fatalf("expected only sociales active, got %+v", active)
	}
	allLive, allErr = repo.ObserveAll(ctx, domain.SortNameAsc)
	all = snapshot(t, allLive, allErr)
	if len(all) != 2 || all[0].State != domain.StateInactive {
		t.Fatalf("inactive row should stay visible in full listing: %+v", all)
	}

	if err := repo.Reactivate(ctx, ingenierias); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	row, ok, err := repo.GetByCodigo(ctx, ingenierias)
	if err != nil || !ok {
		t.Fatalf("get after reactivate: ok=%v err=%v", ok, err)
	}
	if row.State != domain.StateActive {
		t.Fatalf("expected active after reactivate, got %q", row.State)
	}

	if err := repo.Delete(ctx, sociales); err != nil {
		t.Fatalf("delete: %v", err)
	}
	allLive, allErr = repo.ObserveAll(ctx, domain.SortNameAsc)
	all = snapshot(t, allLive, allErr)
	if len(all) != 1 || all[0].Codigo != ingenierias {
		t.Fatalf("deleted row should leave listings: %+v", all)
	}
	row, ok, err = repo.GetByCodigo(ctx, sociales)
	if err != nil || !ok {
		t.Fatalf("deleted row should stay addressable: ok=%v err=%v", ok, err)
	}
	if row.State != domain.StateDeleted {
		t.Fatalf("expected deleted state, got %q", row.State)
	}

	if _, ok, err := repo.GetByCodigo(ctx, 99); err != nil || ok {
		t.Fatalf("missing codigo should report not found: ok=%v err=%v", ok, err)
	}
}

func TestLiveListReEmitsAfterMutation(t *testing.T) {
	ctx := context.Background()
	db, hub := openTestStore(t)
	repo := NewFacultyRepository(db, hub)

	live, err := repo.ObserveAll(ctx, domain.SortNameAsc)
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	defer live.Close()

	if rows := recvSnapshot(t, live); len(rows) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", rows)
	}

	if _, err := repo.Insert(ctx, domain.Faculty{Name: "Facultad de Ingeniería de Producción y Servicios"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rows := recvSnapshot(t, live)
	if len(rows) != 1 || rows[0].Name != "Facultad de Ingeniería de Producción y Servicios" {
		t.Fatalf("expected re-emission with the new row, got %+v", rows)
	}

	if err := repo.Inactivate(ctx, rows[0].Codigo); err != nil {
		t.Fatalf("inactivate: %v", err)
	}
	rows = recvSnapshot(t, live)
	if len(rows) != 1 || rows[0].State != domain.StateInactive {
		t.Fatalf("expected re-emission after state change, got %+v", rows)
	}
}

func TestSearchMatchesSubstringCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db, hub := openTestStore(t)
	repo := NewDegreeTypeRepository(db, hub)

	profesional, err := repo.Insert(ctx, domain.DegreeType{Name: "Maestria Profesional"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	academica, err := repo.Insert(ctx, domain.DegreeType{Name: "Maestria Academica"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, domain.DegreeType{Name: "Doctorado"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	searchLive, searchErr := repo.Search(ctx, "MAESTRIA", domain.SortNameAsc)
	rows := snapshot(t, searchLive, searchErr)
	if len(rows) != 2 {
		t.Fatalf("expected 2 matches, got %+v", rows)
	}
	if rows[0].Codigo != academica || rows[1].Codigo != profesional {
		t.Fatalf("expected name ascending order, got %+v", rows)
	}

	searchLive, searchErr = repo.Search(ctx, "maestria", domain.SortCodigoDesc)
	rows = snapshot(t, searchLive, searchErr)
	if len(rows) != 2 || rows[0].Codigo != academica {
		t.Fatalf("expected codigo descending order, got %+v", rows)
	}

	if err := repo.Delete(ctx, academica); err != nil {
		t.Fatalf("delete: %v", err)
	}
	searchLive, searchErr = repo.Search(ctx, "maestria", domain.SortNameAsc)
	rows = snapshot(t, searchLive, searchErr)
	if len(rows) != 1 || rows[0].Codigo != profesional {
		t.Fatalf("deleted rows should not match search, got %+v", rows)
	}
}

func TestSortOptions(t *testing.T) {
	ctx := context.Background()
	db, hub := openTestStore(t)
	repo := NewCampusRepository(db, hub)

	for _, name := range []string{"beta", "Alfa", "gamma"} {
		if _, err := repo.Insert(ctx, domain.Campus{Name: name}); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	obsLive, obsErr := repo.ObserveAll(ctx, domain.SortNameAsc)
	rows := snapshot(t, obsLive, obsErr)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", rows)
	}
	if rows[0].Name != "Alfa" || rows[1].Name != "beta" || rows[2].Name != "gamma" {
		t.Fatalf("name ascending should ignore case, got %+v", rows)
	}

	obsLive, obsErr = repo.ObserveAll(ctx, domain.SortNameDesc)
	rows = snapshot(t, obsLive, obsErr)
	if rows[0].Name != "gamma" || rows[2].Name != "Alfa" {
		t.Fatalf("unexpected name descending order: %+v", rows)
	}

	obsLive, obsErr = repo.ObserveAll(ctx, domain.SortCodigoDesc)
	rows = snapshot(t, obsLive, obsErr)
	if rows[0].Codigo != 3 || rows[2].Codigo != 1 {
		t.Fatalf("unexpected codigo descending order: %+v", rows)
	}
}

func TestInsertWithExistingCodigoReplaces(t *testing.T) {
	ctx := context.Background()
	db, hub := openTestStore(t)
	repo := NewCampusRepository(db, hub)

	codigo, err := repo.Insert(ctx, domain.Campus{Name: "Ingenierías"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, domain.Campus{Codigo: codigo, Name: "Área de Ingenierías"}); err != nil {
		t.Fatalf("replace insert: %v", err)
	}

	obsLive, obsErr := repo.ObserveAll(ctx, domain.SortNameAsc)
	rows := snapshot(t, obsLive, obsErr)
	if len(rows) != 1 || rows[0].Name != "Área de Ingenierías" {
		t.Fatalf("expected replacement to keep a single row, got %+v", rows)
	}
}

func TestProgramDetailJoinAndForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, hub := openTestStore(t)
	campuses := NewCampusRepository(db, hub)
	faculties := NewFacultyRepository(db, hub)
	degreeTypes := NewDegreeTypeRepository(db, hub)
	programs := NewProgramRepository(db, hub)

	campus, err := campuses.Insert(ctx, domain.Campus{Name: "Ingenierías"})
	if err != nil {
		t.Fatalf("insert campus: %v", err)
	}
	faculty, err := faculties.Insert(ctx, domain.Faculty{Name: "Facultad de Ingeniería de Producción y Servicios"})
	if err != nil {
		t.Fatalf("insert faculty: %v", err)
	}
	degreeType, err := degreeTypes.Insert(ctx, domain.DegreeType{Name: "Maestria Profesional"})
	if err != nil {
		t.Fatalf("insert degree type: %v", err)
	}

	codigo, err := programs.Insert(ctx, domain.Program{
		Name:             "Maestría en Ciencia de Datos",
		DegreeTypeCodigo: degreeType,
		FacultyCodigo:    faculty,
		CampusCodigo:     campus,
	})
	if err != nil {
		t.Fatalf("insert program: %v", err)
	}

	live, err := programs.ObserveAll(ctx, domain.SortNameAsc)
	if err != nil {
		t.Fatalf("observe programs: %v", err)
	}
	defer live.Close()

	rows := recvSnapshot(t, live)
	if len(rows) != 1 {
		t.Fatalf("expected one program, got %+v", rows)
	}
	detail := rows[0]
	if detail.DegreeTypeName != "Maestria Profesional" || detail.FacultyName != "Facultad de Ingeniería de Producción y Servicios" || detail.CampusName != "Ingenierías" {
		t.Fatalf("join did not resolve reference names: %+v", detail)
	}

	if _, err := programs.Insert(ctx, domain.Program{
		Name:             "Programa Huérfano",
		DegreeTypeCodigo: degreeType,
		FacultyCodigo:    faculty,
		CampusCodigo:     99,
	}); err == nil {
		t.Fatalf("expected foreign key violation for missing campus")
	}
	afterLive, afterErr := programs.ObserveAll(ctx, domain.SortNameAsc)
	after := snapshot(t, afterLive, afterErr)
	if len(after) != 1 {
		t.Fatalf("rejected insert must not change listing: %+v", after)
	}

	if err := campuses.Update(ctx, domain.Campus{Codigo: campus, Name: "Área de Ingenierías", State: domain.StateActive}); err != nil {
		t.Fatalf("rename campus: %v", err)
	}
	rows = recvSnapshot(t, live)
	if len(rows) != 1 || rows[0].CampusName != "Área de Ingenierías" {
		t.Fatalf("program stream should pick up campus rename, got %+v", rows)
	}

	program, ok, err := programs.GetByCodigo(ctx, codigo)
	if err != nil || !ok {
		t.Fatalf("get program: ok=%v err=%v", ok, err)
	}
	if program.DegreeTypeCodigo != degreeType || program.FacultyCodigo != faculty || program.CampusCodigo != campus {
		t.Fatalf("unexpected program references: %+v", program)
	}
}
