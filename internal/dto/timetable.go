package dto

import "github.com/campushq/timetable-api/internal/models"

// GenerateTimetableRequest asks the generator to build candidate templates
// for one division-term tuple.
type GenerateTimetableRequest struct {
	UniversityID string            `json:"universityId" validate:"required"`
	Year         int               `json:"year" validate:"required,min=1,max=6"`
	Semester     int               `json:"semester" validate:"required,min=1,max=12"`
	Division     string            `json:"division" validate:"required"`
	ClassroomID  string            `json:"classroomId" validate:"required"`
	SlotTimes    []models.SlotTime `json:"slotTimes" validate:"omitempty,min=7"`
}

// TimetableCandidate is one generated proposal the admin can pick.
type TimetableCandidate struct {
	ProposalID string                      `json:"proposalId"`
	Strategy   models.DistributionStrategy `json:"strategy"`
	Template   models.Template             `json:"template"`
}

// GenerateTimetableResponse returns one candidate per strategy.
type GenerateTimetableResponse struct {
	Candidates []TimetableCandidate `json:"candidates"`
}

// AssignFacultyRequest resolves faculty onto a stored candidate.
type AssignFacultyRequest struct {
	ProposalID   string `json:"proposalId" validate:"required"`
	AcademicYear string `json:"academicYear" validate:"required"`
}

// AssignFacultyResponse carries the updated candidate. Unassigned counts the
// occupied cells for which no eligible faculty remained; those are unfilled
// slots, not errors.
type AssignFacultyResponse struct {
	ProposalID string          `json:"proposalId"`
	Template   models.Template `json:"template"`
	Unassigned int             `json:"unassigned"`
}

// CreateTimetableRequest promotes a candidate into a draft timetable.
type CreateTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
}

// TimetableQuery filters timetable listings.
type TimetableQuery struct {
	UniversityID string `form:"universityId" json:"universityId"`
	Year         int    `form:"year" json:"year"`
	Semester     int    `form:"semester" json:"semester"`
	Division     string `form:"division" json:"division"`
	Status       string `form:"status" json:"status"`
	Page         int    `form:"page" json:"page"`
	PageSize     int    `form:"pageSize" json:"pageSize"`
}
