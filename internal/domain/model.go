package domain

import "time"

// RecordState is the lifecycle flag stored with every row. The single
// character codes are part of the on-disk schema.
type RecordState string

const (
	StateActive   RecordState = "A"
	StateInactive RecordState = "I"
	StateDeleted  RecordState = "*"
)

func (s RecordState) Valid() bool {
	switch s {
	case StateActive, StateInactive, StateDeleted:
		return true
	}
	return false
}

// SortOption selects the ORDER BY applied by list and search queries.
// The zero value sorts by name ascending.
type SortOption string

const (
	SortNameAsc    SortOption = "name_asc"
	SortNameDesc   SortOption = "name_desc"
	SortCodigoAsc  SortOption = "codigo_asc"
	SortCodigoDesc SortOption = "codigo_desc"
)

type Campus struct {
	Codigo    uint
	Name      string
	State     RecordState
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Faculty struct {
	Codigo    uint
	Name      string
	State     RecordState
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DegreeType struct {
	Codigo    uint
	Name      string
	State     RecordState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Program references one row in each of the three catalog tables. The
// references are mandatory and enforced by the store on write.
type Program struct {
	Codigo           uint
	Name             string
	DegreeTypeCodigo uint
	FacultyCodigo    uint
	CampusCodigo     uint
	State            RecordState
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProgramDetail is the denormalized read shape for program listings: the
// program's own columns joined with the display name of each reference.
type ProgramDetail struct {
	Codigo           uint
	Name             string
	DegreeTypeCodigo uint
	DegreeTypeName   string
	FacultyCodigo    uint
	FacultyName      string
	CampusCodigo     uint
	CampusName       string
	State            RecordState
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
