package models

import "time"

// Faculty represents a teaching staff member. The roster itself is managed
// by an external CRUD surface; this API only reads it.
type Faculty struct {
	ID           string    `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	UniversityID string    `db:"university_id" json:"university_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyPreference is a faculty member's declared willingness to teach a
// subject in a given term. Unique per (faculty, subject, academic year).
// The resolver treats the set as an immutable snapshot; FacultyName and
// FacultyEmail are joined in for downstream reporting only.
type FacultyPreference struct {
	ID           string    `db:"id" json:"id"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	SubjectCode  string    `db:"subject_code" json:"subject_code"`
	Year         int       `db:"year" json:"year"`
	Semester     int       `db:"semester" json:"semester"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	UniversityID string    `db:"university_id" json:"university_id"`
	FacultyName  string    `db:"faculty_name" json:"faculty_name"`
	FacultyEmail string    `db:"faculty_email" json:"faculty_email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
