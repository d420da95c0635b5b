package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/models"
)

type facultyFinderMock struct {
	faculty *models.Faculty
	err     error
}

func (m *facultyFinderMock) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.faculty, nil
}

func TestFacultyHandlerGet(t *testing.T) {
	mock := &facultyFinderMock{faculty: &models.Faculty{ID: "fac-1", FullName: "Asha Deshmukh", Email: "asha@campushq.test"}}
	h := NewFacultyHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/faculties/fac-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "fac-1"}}

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.Faculty `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "fac-1", envelope.Data.ID)
	assert.Equal(t, "Asha Deshmukh", envelope.Data.FullName)
}

func TestFacultyHandlerGetNotFound(t *testing.T) {
	mock := &facultyFinderMock{err: sql.ErrNoRows}
	h := NewFacultyHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/faculties/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
