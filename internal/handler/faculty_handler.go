package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
	"github.com/campushq/timetable-api/pkg/response"
)

type facultyFinder interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

// FacultyHandler exposes read access to the faculty roster. The roster is
// managed by an external CRUD surface; this endpoint resolves the faculty ids
// embedded in assigned timetables.
type FacultyHandler struct {
	repo facultyFinder
}

// NewFacultyHandler constructs the handler.
func NewFacultyHandler(repo facultyFinder) *FacultyHandler {
	return &FacultyHandler{repo: repo}
}

// Get godoc
// @Summary Get one faculty member
// @Tags Faculties
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculties/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	faculty, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "faculty not found"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty"))
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}
