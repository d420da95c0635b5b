package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/models"
	"github.com/campushq/timetable-api/internal/service"
)

const testSecret = "test_secret"

func signedToken(t *testing.T) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "admin-1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func claimsRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/timetables", mw, func(c *gin.Context) {
		_, authenticated := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})
	return r
}

func TestJWTRejectsMissingToken(t *testing.T) {
	r := claimsRouter(JWT(service.NewAuthService(testSecret)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsMalformedToken(t *testing.T) {
	r := claimsRouter(JWT(service.NewAuthService(testSecret)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAttachesClaims(t *testing.T) {
	r := claimsRouter(JWT(service.NewAuthService(testSecret)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestOptionalJWTPassesWithoutToken(t *testing.T) {
	r := claimsRouter(OptionalJWT(service.NewAuthService(testSecret)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestOptionalJWTAttachesClaimsWhenPresent(t *testing.T) {
	r := claimsRouter(OptionalJWT(service.NewAuthService(testSecret)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestOptionalJWTIgnoresInvalidToken(t *testing.T) {
	r := claimsRouter(OptionalJWT(service.NewAuthService(testSecret)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	req.Header.Set("Authorization", "Bearer expired-or-garbage")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
