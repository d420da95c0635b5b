package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campushq/timetable-api/internal/models"
)

// TimetableRepository persists timetables with their grids stored as JSONB.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a new repository instance.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// timetableRow mirrors the timetables table; grid and history columns hold
// JSON documents.
type timetableRow struct {
	ID           string         `db:"id"`
	UniversityID string         `db:"university_id"`
	Year         int            `db:"year"`
	Semester     int            `db:"semester"`
	Division     string         `db:"division"`
	ClassroomID  string         `db:"classroom_id"`
	Strategy     string         `db:"strategy"`
	SlotTimes    types.JSONText `db:"slot_times"`
	Days         types.JSONText `db:"days"`
	Status       string         `db:"status"`
	Version      int            `db:"version"`
	PublishedAt  *time.Time     `db:"published_at"`
	History      types.JSONText `db:"history"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

const timetableColumns = `id, university_id, year, semester, division, classroom_id, strategy, slot_times, days, status, version, published_at, history, created_at, updated_at`

func toRow(t *models.Timetable) (*timetableRow, error) {
	slotTimes, err := json.Marshal(t.Template.Grid.SlotTimes)
	if err != nil {
		return nil, fmt.Errorf("marshal slot times: %w", err)
	}
	days, err := json.Marshal(t.Template.Grid.Days)
	if err != nil {
		return nil, fmt.Errorf("marshal grid days: %w", err)
	}
	history, err := json.Marshal(t.History)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	return &timetableRow{
		ID:           t.ID,
		UniversityID: t.Template.UniversityID,
		Year:         t.Template.Year,
		Semester:     t.Template.Semester,
		Division:     t.Template.Division,
		ClassroomID:  t.Template.ClassroomID,
		Strategy:     string(t.Template.Strategy),
		SlotTimes:    types.JSONText(slotTimes),
		Days:         types.JSONText(days),
		Status:       string(t.Status),
		Version:      t.Version,
		PublishedAt:  t.PublishedAt,
		History:      types.JSONText(history),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}, nil
}

func fromRow(row timetableRow) (models.Timetable, error) {
	var grid models.CalendarGrid
	if err := json.Unmarshal(row.SlotTimes, &grid.SlotTimes); err != nil {
		return models.Timetable{}, fmt.Errorf("unmarshal slot times for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Days, &grid.Days); err != nil {
		return models.Timetable{}, fmt.Errorf("unmarshal grid days for %s: %w", row.ID, err)
	}
	var history []models.HistoryEntry
	if len(row.History) > 0 {
		if err := json.Unmarshal(row.History, &history); err != nil {
			return models.Timetable{}, fmt.Errorf("unmarshal history for %s: %w", row.ID, err)
		}
	}
	return models.Timetable{
		ID: row.ID,
		Template: models.Template{
			UniversityID: row.UniversityID,
			Year:         row.Year,
			Semester:     row.Semester,
			Division:     row.Division,
			ClassroomID:  row.ClassroomID,
			Strategy:     models.DistributionStrategy(row.Strategy),
			Grid:         grid,
		},
		Status:      models.TimetableStatus(row.Status),
		Version:     row.Version,
		PublishedAt: row.PublishedAt,
		History:     history,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// GetByID loads a timetable by its identifier.
func (r *TimetableRepository) GetByID(ctx context.Context, id string) (*models.Timetable, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetables WHERE id = $1`, timetableColumns)
	var row timetableRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	timetable, err := fromRow(row)
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Create persists a new timetable.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now

	row, err := toRow(timetable)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO timetables (id, university_id, year, semester, division, classroom_id, strategy, slot_times, days, status, version, published_at, history, created_at, updated_at)
VALUES (:id, :university_id, :year, :semester, :division, :classroom_id, :strategy, :slot_times, :days, :status, :version, :published_at, :history, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}
	return nil
}

// Update persists timetable changes guarded by optimistic locking. The stored
// version must still match the loaded one; a stale write surfaces as
// sql.ErrNoRows and the caller decides how to report it.
func (r *TimetableRepository) Update(ctx context.Context, timetable *models.Timetable) error {
	loadedVersion := timetable.Version
	timetable.Version = loadedVersion + 1
	timetable.UpdatedAt = time.Now().UTC()

	row, err := toRow(timetable)
	if err != nil {
		return err
	}
	const query = `
UPDATE timetables
SET status = $1, version = $2, published_at = $3, history = $4, slot_times = $5, days = $6, updated_at = $7
WHERE id = $8 AND version = $9`
	result, err := r.db.ExecContext(ctx, query,
		row.Status, row.Version, row.PublishedAt, row.History, row.SlotTimes, row.Days, row.UpdatedAt,
		row.ID, loadedVersion,
	)
	if err != nil {
		return fmt.Errorf("update timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns timetables matching the filter with a total count.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error) {
	base := "FROM timetables WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UniversityID != "" {
		conditions = append(conditions, fmt.Sprintf("university_id = $%d", len(args)+1))
		args = append(args, filter.UniversityID)
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Division != "" {
		conditions = append(conditions, fmt.Sprintf("division = $%d", len(args)+1))
		args = append(args, filter.Division)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(filter.Status))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", timetableColumns, base, size, offset)
	var rows []timetableRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}

	timetables := make([]models.Timetable, 0, len(rows))
	for _, row := range rows {
		timetable, err := fromRow(row)
		if err != nil {
			return nil, 0, err
		}
		timetables = append(timetables, timetable)
	}
	return timetables, total, nil
}

// DeleteAll removes every timetable. Used by seeding tooling only.
func (r *TimetableRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetables`); err != nil {
		return fmt.Errorf("delete timetables: %w", err)
	}
	return nil
}
