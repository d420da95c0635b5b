package models

// GridDays is the number of days in the weekly calendar grid (Monday-Saturday).
const GridDays = 6

// TeachingDays is the number of days subjects are placed on; Saturday stays empty.
const TeachingDays = 5

// DayNames maps grid day indices to display names.
var DayNames = [GridDays]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// SlotTime is a fixed time interval within a day, shared by all divisions.
// Wall-clock strings, no timezone.
type SlotTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotCell is one cell of the weekly grid. An empty SubjectCode means the
// slot is unoccupied. FacultyID stays nil until the resolver fills it.
type SlotCell struct {
	SubjectCode string      `json:"subject_code,omitempty"`
	SubjectType SubjectType `json:"subject_type,omitempty"`
	FacultyID   *string     `json:"faculty_id,omitempty"`
}

// CalendarGrid is the fixed weekly structure all generated timetables share:
// 6 days, each with the same ordered slot sequence.
type CalendarGrid struct {
	SlotTimes []SlotTime   `json:"slot_times"`
	Days      [][]SlotCell `json:"days"`
}

// NewCalendarGrid builds an empty 6-day grid over the given slot definitions.
func NewCalendarGrid(slotTimes []SlotTime) CalendarGrid {
	grid := CalendarGrid{
		SlotTimes: make([]SlotTime, len(slotTimes)),
		Days:      make([][]SlotCell, GridDays),
	}
	copy(grid.SlotTimes, slotTimes)
	for d := range grid.Days {
		grid.Days[d] = make([]SlotCell, len(slotTimes))
	}
	return grid
}

// Clone returns a deep copy. Every placement strategy works on its own copy;
// cell arrays are never shared between candidates.
func (g CalendarGrid) Clone() CalendarGrid {
	out := CalendarGrid{
		SlotTimes: make([]SlotTime, len(g.SlotTimes)),
		Days:      make([][]SlotCell, len(g.Days)),
	}
	copy(out.SlotTimes, g.SlotTimes)
	for d := range g.Days {
		out.Days[d] = make([]SlotCell, len(g.Days[d]))
		for s := range g.Days[d] {
			cell := g.Days[d][s]
			if cell.FacultyID != nil {
				id := *cell.FacultyID
				cell.FacultyID = &id
			}
			out.Days[d][s] = cell
		}
	}
	return out
}
