package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/dto"
	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type generatorServiceMock struct {
	generateResp *dto.GenerateTimetableResponse
	generateErr  error
	assignResp   *dto.AssignFacultyResponse
	assignErr    error
}

func (m *generatorServiceMock) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.generateResp, nil
}

func (m *generatorServiceMock) AssignFaculty(ctx context.Context, req dto.AssignFacultyRequest) (*dto.AssignFacultyResponse, error) {
	if m.assignErr != nil {
		return nil, m.assignErr
	}
	return m.assignResp, nil
}

func TestTimetableGeneratorHandlerGenerate(t *testing.T) {
	mock := &generatorServiceMock{generateResp: &dto.GenerateTimetableResponse{
		Candidates: []dto.TimetableCandidate{
			{ProposalID: "prop-1", Strategy: models.StrategyBalanced},
			{ProposalID: "prop-2", Strategy: models.StrategyMorningHeavy},
			{ProposalID: "prop-3", Strategy: models.StrategyAfternoonHeavy},
		},
	}}
	h := NewTimetableGeneratorHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.GenerateTimetableRequest{
		UniversityID: "uni-1", Year: 2, Semester: 3, Division: "A", ClassroomID: "room-204",
	})
	req, _ := http.NewRequest(http.MethodPost, "/timetables/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.GenerateTimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Candidates, 3)
}

func TestTimetableGeneratorHandlerGenerateMissingInput(t *testing.T) {
	mock := &generatorServiceMock{generateErr: appErrors.Clone(appErrors.ErrMissingInput, "universityId is required")}
	h := NewTimetableGeneratorHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetables/generate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrMissingInput.Code, envelope.Error.Code)
}

func TestTimetableGeneratorHandlerAssignFacultyExpiredProposal(t *testing.T) {
	mock := &generatorServiceMock{assignErr: appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")}
	h := NewTimetableGeneratorHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AssignFacultyRequest{ProposalID: "prop-1", AcademicYear: "2026-27"})
	req, _ := http.NewRequest(http.MethodPost, "/timetables/assign-faculty", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.AssignFaculty(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
