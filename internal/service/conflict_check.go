package service

import "github.com/campushq/timetable-api/internal/models"

// CheckConflicts inspects a timetable for hard violations. Both passes always
// run and accumulate into one ordered report; an empty report means the
// timetable is publishable. The report is transient and never persisted.
func CheckConflicts(t models.Timetable) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	conflicts = append(conflicts, facultyDoubleBookings(t)...)
	conflicts = append(conflicts, brokenLabBlocks(t)...)
	return conflicts
}

// facultyDoubleBookings walks the grid in day/slot order and reports every
// cell whose faculty is already claimed for the same (day, startTime).
func facultyDoubleBookings(t models.Timetable) []models.Conflict {
	var conflicts []models.Conflict
	claimed := make(map[bookingKey]bool)
	for d := range t.Template.Grid.Days {
		day := dayName(d)
		for slot, cell := range t.Template.Grid.Days[d] {
			if cell.SubjectCode == "" || cell.FacultyID == nil {
				continue
			}
			start := slotStart(t.Template.Grid, slot)
			key := bookingKey{FacultyID: *cell.FacultyID, Day: day, Start: start}
			if claimed[key] {
				conflicts = append(conflicts, models.Conflict{
					Type:        models.ConflictTypeFaculty,
					Day:         day,
					StartTime:   start,
					SubjectCode: cell.SubjectCode,
					FacultyID:   *cell.FacultyID,
					Message:     models.MsgFacultyDoubleBooked,
				})
				continue
			}
			claimed[key] = true
		}
	}
	return conflicts
}

// brokenLabBlocks reports, per day, every lab subject that appears exactly
// once and is not followed by a slot holding the same code. Labs appearing
// two or more times in a day pass the check.
func brokenLabBlocks(t models.Timetable) []models.Conflict {
	var conflicts []models.Conflict
	for d := range t.Template.Grid.Days {
		day := t.Template.Grid.Days[d]
		counts := make(map[string]int)
		for _, cell := range day {
			if cell.SubjectType == models.SubjectTypeLab && cell.SubjectCode != "" {
				counts[cell.SubjectCode]++
			}
		}
		for slot, cell := range day {
			if cell.SubjectType != models.SubjectTypeLab || cell.SubjectCode == "" {
				continue
			}
			if counts[cell.SubjectCode] != 1 {
				continue
			}
			next := slot + 1
			if next < len(day) && day[next].SubjectCode == cell.SubjectCode {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Type:        models.ConflictTypeSubject,
				Day:         dayName(d),
				SubjectCode: cell.SubjectCode,
				Message:     models.MsgLabNotConsecutive,
			})
		}
	}
	return conflicts
}

func dayName(index int) string {
	if index >= 0 && index < len(models.DayNames) {
		return models.DayNames[index]
	}
	return ""
}

func slotStart(grid models.CalendarGrid, slot int) string {
	if slot >= 0 && slot < len(grid.SlotTimes) {
		return grid.SlotTimes[slot].Start
	}
	return ""
}
