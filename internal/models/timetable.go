package models

import "time"

// DistributionStrategy names one of the three placement strategies.
type DistributionStrategy string

const (
	StrategyBalanced       DistributionStrategy = "BALANCED"
	StrategyMorningHeavy   DistributionStrategy = "MORNING_HEAVY"
	StrategyAfternoonHeavy DistributionStrategy = "AFTERNOON_HEAVY"
)

// Template is an unsaved candidate weekly schedule produced by a distribution
// strategy. It owns its grid cells exclusively; promote it to a Timetable to
// persist it.
type Template struct {
	UniversityID string               `json:"university_id"`
	Year         int                  `json:"year"`
	Semester     int                  `json:"semester"`
	Division     string               `json:"division"`
	ClassroomID  string               `json:"classroom_id"`
	Strategy     DistributionStrategy `json:"strategy"`
	Grid         CalendarGrid         `json:"grid"`
}

// TimetableStatus represents lifecycle phases for persisted timetables.
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "DRAFT"
	TimetableStatusPublished TimetableStatus = "PUBLISHED"
)

// HistoryEntry is one record of the append-only timetable audit trail.
type HistoryEntry struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// Timetable is a persisted template plus lifecycle status and history.
// Version backs optimistic locking so concurrent publishers of the same id
// resolve to at-most-one winner.
type Timetable struct {
	ID          string          `json:"id"`
	Template    Template        `json:"template"`
	Status      TimetableStatus `json:"status"`
	Version     int             `json:"version"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	History     []HistoryEntry  `json:"history"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AppendHistory returns a copy of the timetable with the entry appended.
// The original history slice is never mutated.
func AppendHistory(t Timetable, entry HistoryEntry) Timetable {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	history := make([]HistoryEntry, 0, len(t.History)+1)
	history = append(history, t.History...)
	history = append(history, entry)
	t.History = history
	return t
}

// ConflictType distinguishes the two hard-violation classes.
type ConflictType string

const (
	ConflictTypeFaculty ConflictType = "FACULTY"
	ConflictTypeSubject ConflictType = "SUBJECT"
)

// Conflict messages surfaced to admins. Existing client tooling matches on
// these strings.
const (
	MsgFacultyDoubleBooked = "Faculty assigned to multiple classes at the same time"
	MsgLabNotConsecutive   = "Lab subject should be scheduled in consecutive slots"
)

// Conflict is a detected scheduling violation that blocks publishing.
// Computed on demand, never persisted.
type Conflict struct {
	Type        ConflictType `json:"type"`
	Day         string       `json:"day"`
	StartTime   string       `json:"start_time,omitempty"`
	SubjectCode string       `json:"subject_code"`
	FacultyID   string       `json:"faculty_id,omitempty"`
	Message     string       `json:"message"`
}

// PublishResult is the normal return value of a publish attempt. Conflicts
// are an expected, recoverable outcome, not an error.
type PublishResult struct {
	Success   bool       `json:"success"`
	Timetable *Timetable `json:"timetable,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// TimetableFilter describes query params for listing timetables.
type TimetableFilter struct {
	UniversityID string
	Year         int
	Semester     int
	Division     string
	Status       TimetableStatus
	Page         int
	PageSize     int
}
