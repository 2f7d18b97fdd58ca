package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantReason string
	}{
		{"validation", fmt.Errorf("%w: name is required", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeValidationFailed, ""},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"unknown student", fmt.Errorf("%w: STU404", apperrors.ErrUnknownStudent), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "UNKNOWN_STUDENT"},
		{"unknown course", apperrors.ErrUnknownCourse, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "UNKNOWN_COURSE"},
		{"duplicate key", apperrors.ErrStudentNumberAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
		{"duplicate registration", apperrors.ErrDuplicateRegistration, http.StatusConflict, dto.ErrorCodeConflict, "DUPLICATE_REGISTRATION"},
		{"has dependents", fmt.Errorf("%w: course CS101", apperrors.ErrHasDependents), http.StatusConflict, dto.ErrorCodeHasDependents, ""},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, ""},
		{"invalid token", apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, ""},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			require.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    dto.ErrorCode     `json:"code"`
					Message string            `json:"message"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantReason, body.Error.Details["reason"])
		})
	}
}

func TestBindJSONReportsFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"CS101","credits":0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req dto.CourseRequest
	assert.False(t, BindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(dto.ErrorCodeValidationFailed))
}
