package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/timetable-api/internal/models"
)

// FacultyPreferenceRepository reads the preference snapshot used by the
// faculty assignment resolver.
type FacultyPreferenceRepository struct {
	db *sqlx.DB
}

// NewFacultyPreferenceRepository creates a new repository instance.
func NewFacultyPreferenceRepository(db *sqlx.DB) *FacultyPreferenceRepository {
	return &FacultyPreferenceRepository{db: db}
}

// FindForTerm returns all preferences declared for a university term in a
// stable order. The resolver groups candidates in this order, so it must not
// change.
func (r *FacultyPreferenceRepository) FindForTerm(ctx context.Context, universityID string, year, semester int, academicYear string) ([]models.FacultyPreference, error) {
	const query = `
SELECT fp.id, fp.faculty_id, fp.subject_code, fp.year, fp.semester, fp.academic_year, fp.university_id,
       f.full_name AS faculty_name, f.email AS faculty_email, fp.created_at
FROM faculty_preferences fp
JOIN faculties f ON f.id = fp.faculty_id
WHERE fp.university_id = $1 AND fp.year = $2 AND fp.semester = $3 AND fp.academic_year = $4
ORDER BY fp.created_at, fp.id`
	var prefs []models.FacultyPreference
	if err := r.db.SelectContext(ctx, &prefs, query, universityID, year, semester, academicYear); err != nil {
		return nil, fmt.Errorf("find faculty preferences for term: %w", err)
	}
	return prefs, nil
}

// Create persists a new preference declaration.
func (r *FacultyPreferenceRepository) Create(ctx context.Context, pref *models.FacultyPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO faculty_preferences (id, faculty_id, subject_code, year, semester, academic_year, university_id, created_at)
VALUES (:id, :faculty_id, :subject_code, :year, :semester, :academic_year, :university_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("create faculty preference: %w", err)
	}
	return nil
}

// DeleteAll removes every preference. Used by seeding tooling only.
func (r *FacultyPreferenceRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faculty_preferences`); err != nil {
		return fmt.Errorf("delete faculty preferences: %w", err)
	}
	return nil
}
