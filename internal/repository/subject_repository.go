package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/timetable-api/internal/models"
)

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindForTerm returns the subjects offered for a university year/semester.
// Ordering is fixed so the generator sees the same input sequence every run.
func (r *SubjectRepository) FindForTerm(ctx context.Context, universityID string, year, semester int) ([]models.Subject, error) {
	const query = `
SELECT id, code, name, type, year, semester, university_id, created_at, updated_at
FROM subjects
WHERE university_id = $1 AND year = $2 AND semester = $3
ORDER BY created_at, code`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, universityID, year, semester); err != nil {
		return nil, fmt.Errorf("find subjects for term: %w", err)
	}
	return subjects, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, code, name, type, year, semester, university_id, created_at, updated_at)
VALUES (:id, :code, :name, :type, :year, :semester, :university_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// DeleteAll removes every subject. Used by seeding tooling only.
func (r *SubjectRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
		return fmt.Errorf("delete subjects: %w", err)
	}
	return nil
}
