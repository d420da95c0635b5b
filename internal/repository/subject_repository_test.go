package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/models"
)

func TestSubjectRepositoryFindForTerm(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "type", "year", "semester", "university_id", "created_at", "updated_at"}).
		AddRow("subj-1", "CS201", "Data Structures", "CORE", 2, 3, "uni-1", time.Now(), time.Now()).
		AddRow("subj-2", "CS211L", "Data Structures Lab", "LAB", 2, 3, "uni-1", time.Now(), time.Now())

	mock.ExpectQuery(`(?s)SELECT .* FROM subjects\s+WHERE university_id = \$1 AND year = \$2 AND semester = \$3\s+ORDER BY created_at, code`).
		WithArgs("uni-1", 2, 3).
		WillReturnRows(rows)

	subjects, err := repo.FindForTerm(context.Background(), "uni-1", 2, 3)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "CS201", subjects[0].Code)
	assert.Equal(t, models.SubjectTypeLab, subjects[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).
		WithArgs(sqlmock.AnyArg(), "CS201", "Data Structures", "CORE", 2, 3, "uni-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	subject := models.Subject{
		Code:         "CS201",
		Name:         "Data Structures",
		Type:         models.SubjectTypeCore,
		Year:         2,
		Semester:     3,
		UniversityID: "uni-1",
	}
	require.NoError(t, repo.Create(context.Background(), &subject))
	assert.NotEmpty(t, subject.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
