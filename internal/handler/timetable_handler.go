package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/timetable-api/internal/dto"
	"github.com/campushq/timetable-api/internal/middleware"
	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
	"github.com/campushq/timetable-api/pkg/response"
)

type timetableLifecycle interface {
	CreateDraft(ctx context.Context, req dto.CreateTimetableRequest, actorID string) (*models.Timetable, error)
	Publish(ctx context.Context, id, actorID string) (*models.PublishResult, error)
	Get(ctx context.Context, id string) (*models.Timetable, error)
	List(ctx context.Context, query dto.TimetableQuery) ([]models.Timetable, *models.Pagination, error)
	Conflicts(ctx context.Context, id string) ([]models.Conflict, error)
}

// TimetableHandler exposes the draft/publish lifecycle endpoints.
type TimetableHandler struct {
	service timetableLifecycle
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableLifecycle) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Create godoc
// @Summary Promote a generated candidate into a draft timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Create timetable payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid create payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	timetable, err := h.service.CreateDraft(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// Publish godoc
// @Summary Publish a draft timetable
// @Description Validates the timetable and publishes it when the conflict report is empty. A non-empty report is returned with success=false and leaves the timetable untouched.
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{id}/publish [post]
func (h *TimetableHandler) Publish(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.Publish(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Get one timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	timetable, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil, middleware.ExtractMeta(c))
}

// List godoc
// @Summary List timetables
// @Tags Timetables
// @Produce json
// @Param universityId query string false "University ID"
// @Param year query int false "Year"
// @Param semester query int false "Semester"
// @Param division query string false "Division"
// @Param status query string false "Status (DRAFT or PUBLISHED)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination, middleware.ExtractMeta(c))
}

// Conflicts godoc
// @Summary Run conflict validation on demand
// @Description Returns the current conflict report without changing lifecycle state.
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{id}/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.service.Conflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}
