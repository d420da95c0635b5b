package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/models"
)

func TestCheckConflictsEmptyTimetable(t *testing.T) {
	timetable := timetableWithGrid(emptyGrid())

	conflicts := CheckConflicts(timetable)
	require.NotNil(t, conflicts)
	assert.Empty(t, conflicts)
}

func TestCheckConflictsCleanGeneratedTimetable(t *testing.T) {
	grid := emptyGrid()
	grid.Days[0][0] = models.SlotCell{SubjectCode: "CS201", SubjectType: models.SubjectTypeCore, FacultyID: ptr("fac-1")}
	grid.Days[0][4] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab, FacultyID: ptr("fac-2")}
	grid.Days[0][5] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab, FacultyID: ptr("fac-2")}
	grid.Days[1][0] = models.SlotCell{SubjectCode: "CS202", SubjectType: models.SubjectTypeCore, FacultyID: ptr("fac-1")}

	conflicts := CheckConflicts(timetableWithGrid(grid))
	assert.Empty(t, conflicts)
}

func TestCheckConflictsBrokenLabBlock(t *testing.T) {
	grid := emptyGrid()
	grid.Days[2][3] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}
	grid.Days[2][5] = models.SlotCell{SubjectCode: "CS202", SubjectType: models.SubjectTypeCore}

	conflicts := CheckConflicts(timetableWithGrid(grid))
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeSubject, conflicts[0].Type)
	assert.Equal(t, "Wednesday", conflicts[0].Day)
	assert.Equal(t, "CS211L", conflicts[0].SubjectCode)
	assert.Equal(t, models.MsgLabNotConsecutive, conflicts[0].Message)
}

func TestCheckConflictsLabBlockAtEndOfDay(t *testing.T) {
	grid := emptyGrid()
	lastSlot := len(grid.SlotTimes) - 1
	grid.Days[0][lastSlot] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}

	conflicts := CheckConflicts(timetableWithGrid(grid))
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeSubject, conflicts[0].Type)
}

func TestCheckConflictsLabAppearingTwiceNotChecked(t *testing.T) {
	// A lab occupying two non-adjacent slots in a day is not reported; only
	// single occurrences are checked for contiguity.
	grid := emptyGrid()
	grid.Days[0][1] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}
	grid.Days[0][4] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}

	conflicts := CheckConflicts(timetableWithGrid(grid))
	assert.Empty(t, conflicts)
}

func TestCheckConflictsFacultyDoubleBookedAcrossSlots(t *testing.T) {
	grid := emptyGrid()
	// Same start time cannot repeat within one grid day, so double bookings
	// surface on hand-edited grids with duplicated slot definitions.
	grid.SlotTimes[1] = grid.SlotTimes[0]
	grid.Days[0][0] = models.SlotCell{SubjectCode: "CS201", SubjectType: models.SubjectTypeCore, FacultyID: ptr("fac-1")}
	grid.Days[0][1] = models.SlotCell{SubjectCode: "CS202", SubjectType: models.SubjectTypeCore, FacultyID: ptr("fac-1")}

	conflicts := CheckConflicts(timetableWithGrid(grid))
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeFaculty, conflicts[0].Type)
	assert.Equal(t, "Monday", conflicts[0].Day)
	assert.Equal(t, "fac-1", conflicts[0].FacultyID)
	assert.Equal(t, "CS202", conflicts[0].SubjectCode)
	assert.Equal(t, models.MsgFacultyDoubleBooked, conflicts[0].Message)
}

func TestCheckConflictsBothPassesAccumulate(t *testing.T) {
	grid := emptyGrid()
	grid.SlotTimes[1] = grid.SlotTimes[0]
	grid.Days[0][0] = models.SlotCell{SubjectCode: "CS201", SubjectType: models.SubjectTypeCore, FacultyID: ptr("fac-1")}
	grid.Days[0][1] = models.SlotCell{SubjectCode: "CS202", SubjectType: models.SubjectTypeCore, FacultyID: ptr("fac-1")}
	grid.Days[1][2] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}

	conflicts := CheckConflicts(timetableWithGrid(grid))
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictTypeFaculty, conflicts[0].Type)
	assert.Equal(t, models.ConflictTypeSubject, conflicts[1].Type)
}

func emptyGrid() models.CalendarGrid {
	return models.NewCalendarGrid([]models.SlotTime{
		{Start: "09:00", End: "09:55"},
		{Start: "10:00", End: "10:55"},
		{Start: "11:00", End: "11:55"},
		{Start: "12:00", End: "12:55"},
		{Start: "14:00", End: "14:55"},
		{Start: "15:00", End: "15:55"},
		{Start: "16:00", End: "16:55"},
	})
}

func timetableWithGrid(grid models.CalendarGrid) models.Timetable {
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
	}
}

func ptr(s string) *string {
	return &s
}
