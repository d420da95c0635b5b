package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/models"
)

func newTimetableRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var timetableRowColumns = []string{
	"id", "university_id", "year", "semester", "division", "classroom_id", "strategy",
	"slot_times", "days", "status", "version", "published_at", "history", "created_at", "updated_at",
}

func TestTimetableRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	slotTimes := types.JSONText(`[{"start":"09:00","end":"09:55"}]`)
	days := types.JSONText(`[[{"subject_code":"CS201","subject_type":"CORE"}],[{}],[{}],[{}],[{}],[{}]]`)
	history := types.JSONText(`[{"action":"Created","actor_id":"admin-1","timestamp":"2026-02-01T10:00:00Z"}]`)

	rows := sqlmock.NewRows(timetableRowColumns).
		AddRow("tt-1", "uni-1", 2, 3, "A", "room-204", "BALANCED",
			slotTimes, days, "DRAFT", 1, nil, history, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, university_id, year, semester, division, classroom_id, strategy, slot_times, days, status, version, published_at, history, created_at, updated_at FROM timetables WHERE id = $1")).
		WithArgs("tt-1").
		WillReturnRows(rows)

	timetable, err := repo.GetByID(context.Background(), "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "tt-1", timetable.ID)
	assert.Equal(t, models.StrategyBalanced, timetable.Template.Strategy)
	require.Len(t, timetable.Template.Grid.Days, 6)
	assert.Equal(t, "CS201", timetable.Template.Grid.Days[0][0].SubjectCode)
	require.Len(t, timetable.History, 1)
	assert.Equal(t, "Created", timetable.History[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("SELECT .* FROM timetables WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WithArgs("tt-1", "uni-1", 2, 3, "A", "room-204", "BALANCED",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "DRAFT", 1, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	timetable := sampleTimetable()
	require.NoError(t, repo.Create(context.Background(), &timetable))
	assert.False(t, timetable.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateBumpsVersion(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables")).
		WithArgs("PUBLISHED", 2, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "tt-1", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	timetable := sampleTimetable()
	timetable.Status = models.TimetableStatusPublished
	require.NoError(t, repo.Update(context.Background(), &timetable))
	assert.Equal(t, 2, timetable.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateStale(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	timetable := sampleTimetable()
	err := repo.Update(context.Background(), &timetable)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryList(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	slotTimes := types.JSONText(`[]`)
	days := types.JSONText(`[[],[],[],[],[],[]]`)
	rows := sqlmock.NewRows(timetableRowColumns).
		AddRow("tt-1", "uni-1", 2, 3, "A", "room-204", "BALANCED",
			slotTimes, days, "PUBLISHED", 2, time.Now(), types.JSONText(`[]`), time.Now(), time.Now())

	mock.ExpectQuery("SELECT .* FROM timetables WHERE 1=1 AND university_id = \\$1 AND status = \\$2").
		WithArgs("uni-1", "PUBLISHED").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetables WHERE 1=1")).
		WithArgs("uni-1", "PUBLISHED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.TimetableFilter{
		UniversityID: "uni-1",
		Status:       models.TimetableStatusPublished,
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func sampleTimetable() models.Timetable {
	grid := models.NewCalendarGrid([]models.SlotTime{{Start: "09:00", End: "09:55"}})
	grid.Days[0][0] = models.SlotCell{SubjectCode: "CS201", SubjectType: models.SubjectTypeCore}
	return models.Timetable{
		ID: "tt-1",
		Template: models.Template{
			UniversityID: "uni-1",
			Year:         2,
			Semester:     3,
			Division:     "A",
			ClassroomID:  "room-204",
			Strategy:     models.StrategyBalanced,
			Grid:         grid,
		},
		Status:  models.TimetableStatusDraft,
		Version: 1,
		History: []models.HistoryEntry{{Action: "Created", ActorID: "admin-1", Timestamp: time.Now().UTC()}},
	}
}
