// internal/api/errors.go
package api

import (
	"net/http"

	apperrors "credit-risk-workers/internal/common/errors"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    string                     `json:"code"`
	Message string                     `json:"message"`
	Details string                     `json:"details,omitempty"`
	Fields  []apperrors.FieldViolation `json:"fields,omitempty"`
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidationFailed, apperrors.ErrCodeInvalidSortKey, apperrors.ErrCodeInvalidDate:
		return http.StatusBadRequest
	case apperrors.ErrCodeArithmetic:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeAssessmentNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStorageUnavailable, apperrors.ErrCodeSearchDisabled, apperrors.ErrCodeSearchIndexFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	stdErr := apperrors.AsStandard(err)
	body := errorBody{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Fields:  stdErr.Fields,
	}
	status := statusFor(stdErr.Code)
	// 5xx details stay in the logs
	if status < http.StatusInternalServerError {
		body.Details = stdErr.Details
	}
	c.JSON(status, gin.H{"error": body})
}
