package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/timetable-api/internal/dto"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
	"github.com/campushq/timetable-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	AssignFaculty(ctx context.Context, req dto.AssignFacultyRequest) (*dto.AssignFacultyResponse, error)
}

// TimetableGeneratorHandler exposes the candidate generation endpoints.
type TimetableGeneratorHandler struct {
	service timetableGenerator
}

// NewTimetableGeneratorHandler constructs the handler.
func NewTimetableGeneratorHandler(svc timetableGenerator) *TimetableGeneratorHandler {
	return &TimetableGeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate timetable candidates for a division-term
// @Description Produces one candidate template per distribution strategy. Candidates are held in memory until promoted or expired.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/generate [post]
func (h *TimetableGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AssignFaculty godoc
// @Summary Resolve faculty assignments onto a generated candidate
// @Description Fills faculty onto occupied cells using declared preferences. Cells with no eligible faculty stay unassigned.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.AssignFacultyRequest true "Assign faculty payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/assign-faculty [post]
func (h *TimetableGeneratorHandler) AssignFaculty(c *gin.Context) {
	var req dto.AssignFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assign payload"))
		return
	}
	result, err := h.service.AssignFaculty(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
