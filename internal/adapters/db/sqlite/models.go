package sqlite

import "time"

type CampusModel struct {
	Codigo    uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	State     string `gorm:"not null;default:'A'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CampusModel) TableName() string { return "campus" }

type FacultyModel struct {
	Codigo    uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	State     string `gorm:"not null;default:'A'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FacultyModel) TableName() string { return "faculty" }

type DegreeTypeModel struct {
	Codigo    uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	State     string `gorm:"not null;default:'A'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DegreeTypeModel) TableName() string { return "degree_type" }

type ProgramModel struct {
	Codigo           uint   `gorm:"primaryKey"`
	Name             string `gorm:"not null"`
	DegreeTypeCodigo uint   `gorm:"not null;index"`
	FacultyCodigo    uint   `gorm:"not null;index"`
	CampusCodigo     uint   `gorm:"not null;index"`
	State            string `gorm:"not null;default:'A'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ProgramModel) TableName() string { return "program" }
