package models

import "time"

// SubjectType categorises a subject for placement. Labs are 2-period blocks.
type SubjectType string

const (
	SubjectTypeCore     SubjectType = "CORE"
	SubjectTypeLab      SubjectType = "LAB"
	SubjectTypeElective SubjectType = "ELECTIVE"
)

// Subject represents an academic subject offered in a year/semester.
type Subject struct {
	ID           string      `db:"id" json:"id"`
	Code         string      `db:"code" json:"code"`
	Name         string      `db:"name" json:"name"`
	Type         SubjectType `db:"type" json:"type"`
	Year         int         `db:"year" json:"year"`
	Semester     int         `db:"semester" json:"semester"`
	UniversityID string      `db:"university_id" json:"university_id"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}
