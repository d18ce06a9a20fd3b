package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
	"github.com/atvirokodosprendimai/gradcatalog/internal/livequery"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	_ "modernc.org/sqlite"
)

const (
	tableCampus     = "campus"
	tableFaculty    = "faculty"
	tableDegreeType = "degree_type"
	tableProgram    = "program"
)

// programTables lists every table a program join query reads; live program
// queries must refresh when any of them changes.
var programTables = []string{tableProgram, tableDegreeType, tableFaculty, tableCampus}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}, &gorm.Config{})
}

func orderExpr(sort domain.SortOption, prefix string) string {
	switch sort {
	case domain.SortNameDesc:
		return prefix + "name COLLATE NOCASE DESC"
	case domain.SortCodigoAsc:
		return prefix + "codigo ASC"
	case domain.SortCodigoDesc:
		return prefix + "codigo DESC"
	default:
		return prefix + "name COLLATE NOCASE ASC"
	}
}

func defaultState(s domain.RecordState) string {
	if s == "" {
		return string(domain.StateActive)
	}
	return string(s)
}

// setState performs the single-column lifecycle transition shared by all
// tables. A missing codigo is a no-op and does not notify.
func setState(ctx context.Context, db *gorm.DB, hub *livequery.Hub, table string, codigo uint, state domain.RecordState) error {
	res := db.WithContext(ctx).Table(table).Where("codigo = ?", codigo).Updates(map[string]any{
		"state":      string(state),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("set %s state: %w", table, res.Error)
	}
	if res.RowsAffected > 0 {
		hub.Notify(table)
	}
	return nil
}

type CampusRepository struct {
	db  *gorm.DB
	hub *livequery.Hub
}

func NewCampusRepository(db *gorm.DB, hub *livequery.Hub) *CampusRepository {
	return &CampusRepository{db: db, hub: hub}
}

func (r *CampusRepository) list(ctx context.Context, where string, args []any, sort domain.SortOption) ([]domain.Campus, error) {
	rows := make([]CampusModel, 0)
	if err := r.db.WithContext(ctx).Where(where, args...).Order(orderExpr(sort, "")).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Campus, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.Campus{Codigo: m.Codigo, Name: m.Name, State: domain.RecordState(m.State), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt})
	}
	return result, nil
}

func (r *CampusRepository) ObserveAll(ctx context.Context, sort domain.SortOption) (domain.LiveList[domain.Campus], error) {
	return livequery.Open(ctx, r.hub, []string{tableCampus}, func(ctx context.Context) ([]domain.Campus, error) {
		return r.list(ctx, "state <> ?", []any{string(domain.StateDeleted)}, sort)
	})
}

func (r *CampusRepository) ObserveActive(ctx context.Context) (domain.LiveList[domain.Campus], error) {
	return livequery.Open(ctx, r.hub, []string{tableCampus}, func(ctx context.Context) ([]domain.Campus, error) {
		return r.list(ctx, "state = ?", []any{string(domain.StateActive)}, domain.SortNameAsc)
	})
}

func (r *CampusRepository) Search(ctx context.Context, name string, sort domain.SortOption) (domain.LiveList[domain.Campus], error) {
	like := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return livequery.Open(ctx, r.hub, []string{tableCampus}, func(ctx context.Context) ([]domain.Campus, error) {
		return r.list(ctx, "LOWER(name) LIKE ? AND state <> ?", []any{like, string(domain.StateDeleted)}, sort)
	})
}

func (r *CampusRepository) GetByCodigo(ctx context.Context, codigo uint) (domain.Campus, bool, error) {
	var m CampusModel
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Campus{}, false, nil
	}
	if err != nil {
		return domain.Campus{}, false, err
	}
	return domain.Campus{Codigo: m.Codigo, Name: m.Name, State: domain.RecordState(m.State), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}, true, nil
}

func (r *CampusRepository) Insert(ctx context.Context, value domain.Campus) (uint, error) {
	m := CampusModel{Codigo: value.Codigo, Name: value.Name, State: defaultState(value.State)}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
		return 0, err
	}
	r.hub.Notify(tableCampus)
	return m.Codigo, nil
}

func (r *CampusRepository) Update(ctx context.Context, value domain.Campus) error {
	res := r.db.WithContext(ctx).Model(&CampusModel{}).Where("codigo = ?", value.Codigo).Updates(map[string]any{
		"name":  value.Name,
		"state": defaultState(value.State),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.hub.Notify(tableCampus)
	}
	return nil
}

func (r *CampusRepository) Delete(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableCampus, codigo, domain.StateDeleted)
}

func (r *CampusRepository) Inactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableCampus, codigo, domain.StateInactive)
}

func (r *CampusRepository) Reactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableCampus, codigo, domain.StateActive)
}

type FacultyRepository struct {
	db  *gorm.DB
	hub *livequery.Hub
}

func NewFacultyRepository(db *gorm.DB, hub *livequery.Hub) *FacultyRepository {
	return &FacultyRepository{db: db, hub: hub}
}

func (r *FacultyRepository) list(ctx context.Context, where string, args []any, sort domain.SortOption) ([]domain.Faculty, error) {
	rows := make([]FacultyModel, 0)
	if err := r.db.WithContext(ctx).Where(where, args...).Order(orderExpr(sort, "")).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Faculty, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.Faculty{Codigo: m.Codigo, Name: m.Name, State: domain.RecordState(m.State), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt})
	}
	return result, nil
}

func (r *FacultyRepository) ObserveAll(ctx context.Context, sort domain.SortOption) (domain.LiveList[domain.Faculty], error) {
	return livequery.Open(ctx, r.hub, []string{tableFaculty}, func(ctx context.Context) ([]domain.Faculty, error) {
		return r.list(ctx, "state <> ?", []any{string(domain.StateDeleted)}, sort)
	})
}

func (r *FacultyRepository) ObserveActive(ctx context.Context) (domain.LiveList[domain.Faculty], error) {
	return livequery.Open(ctx, r.hub, []string{tableFaculty}, func(ctx context.Context) ([]domain.Faculty, error) {
		return r.list(ctx, "state = ?", []any{string(domain.StateActive)}, domain.SortNameAsc)
	})
}

func (r *FacultyRepository) Search(ctx context.Context, name string, sort domain.SortOption) (domain.LiveList[domain.Faculty], error) {
	like := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return livequery.Open(ctx, r.hub, []string{tableFaculty}, func(ctx context.Context) ([]domain.Faculty, error) {
		return r.list(ctx, "LOWER(name) LIKE ? AND state <> ?", []any{like, string(domain.StateDeleted)}, sort)
	})
}

func (r *FacultyRepository) GetByCodigo(ctx context.Context, codigo uint) (domain.Faculty, bool, error) {
	var m FacultyModel
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Faculty{}, false, nil
	}
	if err != nil {
		return domain.Faculty{}, false, err
	}
	return domain.Faculty{Codigo: m.Codigo, Name: m.Name, State: domain.RecordState(m.State), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}, true, nil
}

func (r *FacultyRepository) Insert(ctx context.Context, value domain.Faculty) (uint, error) {
	m := FacultyModel{Codigo: value.Codigo, Name: value.Name, State: defaultState(value.State)}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
		return 0, err
	}
	r.hub.Notify(tableFaculty)
	return m.Codigo, nil
}

func (r *FacultyRepository) Update(ctx context.Context, value domain.Faculty) error {
	res := r.db.WithContext(ctx).Model(&FacultyModel{}).Where("codigo = ?", value.Codigo).Updates(map[string]any{
		"name":  value.Name,
		"state": defaultState(value.State),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.hub.Notify(tableFaculty)
	}
	return nil
}

func (r *FacultyRepository) Delete(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableFaculty, codigo, domain.StateDeleted)
}

func (r *FacultyRepository) Inactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableFaculty, codigo, domain.StateInactive)
}

func (r *FacultyRepository) Reactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableFaculty, codigo, domain.StateActive)
}

type DegreeTypeRepository struct {
	db  *gorm.DB
	hub *livequery.Hub
}

func NewDegreeTypeRepository(db *gorm.DB, hub *livequery.Hub) *DegreeTypeRepository {
	return &DegreeTypeRepository{db: db, hub: hub}
}

func (r *DegreeTypeRepository) list(ctx context.Context, where string, args []any, sort domain.SortOption) ([]domain.DegreeType, error) {
	rows := make([]DegreeTypeModel, 0)
	if err := r.db.WithContext(ctx).Where(where, args...).Order(orderExpr(sort, "")).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DegreeType, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.DegreeType{Codigo: m.Codigo, Name: m.Name, State: domain.RecordState(m.State), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt})
	}
	return result, nil
}

func (r *DegreeTypeRepository) ObserveAll(ctx context.Context, sort domain.SortOption) (domain.LiveList[domain.DegreeType], error) {
	return livequery.Open(ctx, r.hub, []string{tableDegreeType}, func(ctx context.Context) ([]domain.DegreeType, error) {
		return r.list(ctx, "state <> ?", []any{string(domain.StateDeleted)}, sort)
	})
}

func (r *DegreeTypeRepository) ObserveActive(ctx context.Context) (domain.LiveList[domain.DegreeType], error) {
	return livequery.Open(ctx, r.hub, []string{tableDegreeType}, func(ctx context.Context) ([]domain.DegreeType, error) {
		return r.list(ctx, "state = ?", []any{string(domain.StateActive)}, domain.SortNameAsc)
	})
}

func (r *DegreeTypeRepository) Search(ctx context.Context, name string, sort domain.SortOption) (domain.LiveList[domain.DegreeType], error) {
	like := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return livequery.Open(ctx, r.hub, []string{tableDegreeType}, func(ctx context.Context) ([]domain.DegreeType, error) {
		return r.list(ctx, "LOWER(name) LIKE ? AND state <> ?", []any{like, string(domain.StateDeleted)}, sort)
	})
}

func (r *DegreeTypeRepository) GetByCodigo(ctx context.Context, codigo uint) (domain.DegreeType, bool, error) {
	var m DegreeTypeModel
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DegreeType{}, false, nil
	}
	if err != nil {
		return domain.DegreeType{}, false, err
	}
	return domain.DegreeType{Codigo: m.Codigo, Name: m.Name, State: domain.RecordState(m.State), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}, true, nil
}

func (r *DegreeTypeRepository) Insert(ctx context.Context, value domain.DegreeType) (uint, error) {
	m := DegreeTypeModel{Codigo: value.Codigo, Name: value.Name, State: defaultState(value.State)}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
		return 0, err
	}
	r.hub.Notify(tableDegreeType)
	return m.Codigo, nil
}

func (r *DegreeTypeRepository) Update(ctx context.Context, value domain.DegreeType) error {
	res := r.db.WithContext(ctx).Model(&DegreeTypeModel{}).Where("codigo = ?", value.Codigo).Updates(map[string]any{
		"name":  value.Name,
		"state": defaultState(value.State),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.hub.Notify(tableDegreeType)
	}
	return nil
}

func (r *DegreeTypeRepository) Delete(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableDegreeType, codigo, domain.StateDeleted)
}

func (r *DegreeTypeRepository) Inactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableDegreeType, codigo, domain.StateInactive)
}

func (r *DegreeTypeRepository) Reactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableDegreeType, codigo, domain.StateActive)
}

type ProgramRepository struct {
	db  *gorm.DB
	hub *livequery.Hub
}

func NewProgramRepository(db *gorm.DB, hub *livequery.Hub) *ProgramRepository {
	return &ProgramRepository{db: db, hub: hub}
}

type programDetailRow struct {
	Codigo           uint
	Name             string
	DegreeTypeCodigo uint
	DegreeTypeName   string
	FacultyCodigo    uint
	FacultyName      string
	CampusCodigo     uint
	CampusName       string
	State            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const programDetailSelect = `
SELECT p.codigo,
       p.name,
       p.degree_type_codigo,
       dt.name AS degree_type_name,
       p.faculty_codigo,
       f.name AS faculty_name,
       p.campus_codigo,
       c.name AS campus_name,
       p.state,
       p.created_at,
       p.updated_at
FROM program p
INNER JOIN degree_type dt ON dt.codigo = p.degree_type_codigo
INNER JOIN faculty f ON f.codigo = p.faculty_codigo
INNER JOIN campus c ON c.codigo = p.campus_codigo
`

func (r *ProgramRepository) listDetail(ctx context.Context, where string, args []any, sort domain.SortOption) ([]domain.ProgramDetail, error) {
	q := fmt.Sprintf("%sWHERE %s\nORDER BY %s", programDetailSelect, where, orderExpr(sort, "p."))
	rows := make([]programDetailRow, 0)
	if err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ProgramDetail, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.ProgramDetail{
			Codigo:           m.Codigo,
			Name:             m.Name,
			DegreeTypeCodigo: m.DegreeTypeCodigo,
			DegreeTypeName:   m.DegreeTypeName,
			FacultyCodigo:    m.FacultyCodigo,
			FacultyName:      m.FacultyName,
			CampusCodigo:     m.CampusCodigo,
			CampusName:       m.CampusName,
			State:            domain.RecordState(m.State),
			CreatedAt:        m.CreatedAt,
			UpdatedAt:        m.UpdatedAt,
		})
	}
	return result, nil
}

func (r *ProgramRepository) ObserveAll(ctx context.Context, sort domain.SortOption) (domain.LiveList[domain.ProgramDetail], error) {
	return livequery.Open(ctx, r.hub, programTables, func(ctx context.Context) ([]domain.ProgramDetail, error) {
		return r.listDetail(ctx, "p.state <> ?", []any{string(domain.StateDeleted)}, sort)
	})
}

func (r *ProgramRepository) ObserveActive(ctx context.Context) (domain.LiveList[domain.ProgramDetail], error) {
	return livequery.Open(ctx, r.hub, programTables, func(ctx context.Context) ([]domain.ProgramDetail, error) {
		return r.listDetail(ctx, "p.state = ?", []any{string(domain.StateActive)}, domain.SortNameAsc)
	})
}

func (r *ProgramRepository) Search(ctx context.Context, name string, sort domain.SortOption) (domain.LiveList[domain.ProgramDetail], error) {
	like := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return livequery.Open(ctx, r.hub, programTables, func(ctx context.Context) ([]domain.ProgramDetail, error) {
		return r.listDetail(ctx, "LOWER(p.name) LIKE ? AND p.state <> ?", []any{like, string(domain.StateDeleted)}, sort)
	})
}

func (r *ProgramRepository) GetByCodigo(ctx context.Context, codigo uint) (domain.Program, bool, error) {
	var m ProgramModel
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Program{}, false, nil
	}
	if err != nil {
		return domain.Program{}, false, err
	}
	return domain.Program{
		Codigo:           m.Codigo,
		Name:             m.Name,
		DegreeTypeCodigo: m.DegreeTypeCodigo,
		FacultyCodigo:    m.FacultyCodigo,
		CampusCodigo:     m.CampusCodigo,
		State:            domain.RecordState(m.State),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, true, nil
}

func (r *ProgramRepository) Insert(ctx context.Context, value domain.Program) (uint, error) {
	m := ProgramModel{
		Codigo:           value.Codigo,
		Name:             value.Name,
		DegreeTypeCodigo: value.DegreeTypeCodigo,
		FacultyCodigo:    value.FacultyCodigo,
		CampusCodigo:     value.CampusCodigo,
		State:            defaultState(value.State),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
		return 0, err
	}
	r.hub.Notify(tableProgram)
	return m.Codigo, nil
}

func (r *ProgramRepository) Update(ctx context.Context, value domain.Program) error {
	res := r.db.WithContext(ctx).Model(&ProgramModel{}).Where("codigo = ?", value.Codigo).Updates(map[string]any{
		"name":               value.Name,
		"degree_type_codigo": value.DegreeTypeCodigo,
		"faculty_codigo":     value.FacultyCodigo,
		"campus_codigo":      value.CampusCodigo,
		"state":              defaultState(value.State),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.hub.Notify(tableProgram)
	}
	return nil
}

func (r *ProgramRepository) Delete(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableProgram, codigo, domain.StateDeleted)
}

func (r *ProgramRepository) Inactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableProgram, codigo, domain.StateInactive)
}

func (r *ProgramRepository) Reactivate(ctx context.Context, codigo uint) error {
	return setState(ctx, r.db, r.hub, tableProgram, codigo, domain.StateActive)
}
