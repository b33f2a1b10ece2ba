package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperror.NewValidationError("bad", "x")))
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("survey s1: %w", apperror.ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperror.ErrSessionNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(apperror.ErrAlreadyCompleted))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(apperror.ErrUnavailable))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestRequestIDIsPropagatedOrAssigned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestRespondErrorIncludesDetailsForClientErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(ctx *gin.Context) {
		RespondError(ctx, "Failed", apperror.ErrAlreadyCompleted)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed", body.Message)
	assert.Equal(t, apperror.CodeAlreadyCompleted, body.Code)
	assert.Equal(t, []string{apperror.ErrAlreadyCompleted.Error()}, body.Details)
}
