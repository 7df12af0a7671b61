// Package errors provides the standardized error taxonomy shared by the scoring
// engine, the repositories and the job workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidSortKey   ErrorCode = "INVALID_SORT_KEY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeArithmetic ErrorCode = "ARITHMETIC_ERROR"

	ErrCodeAssessmentNotFound ErrorCode = "ASSESSMENT_NOT_FOUND"

	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeSearchDisabled         ErrorCode = "SEARCH_DISABLED"

	ErrCodeWorkflowUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldViolation points at a single offending input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fields    []FieldViolation       `json:"fields,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Details != "" {
		fmt.Fprintf(&b, " (%s)", e.Details)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.Field, f.Message)
	}
	return b.String()
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code, so callers can compare against the
// exported sentinels with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation         = &StandardError{Code: ErrCodeValidationFailed}
	ErrArithmetic         = &StandardError{Code: ErrCodeArithmetic}
	ErrNotFound           = &StandardError{Code: ErrCodeAssessmentNotFound}
	ErrStorageUnavailable = &StandardError{Code: ErrCodeStorageUnavailable}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationError reports missing, non-positive or out-of-range input.
func NewValidationError(message string, fields ...FieldViolation) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFieldError is a single-field validation error.
func NewFieldError(field, message string) *StandardError {
	return NewValidationError("input validation failed", FieldViolation{Field: field, Message: message})
}

func NewInvalidSortKeyError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSortKey,
		Message:   "unsupported sort key",
		Details:   fmt.Sprintf("sortKey: %s", key),
		Fields:    []FieldViolation{{Field: "sort", Message: fmt.Sprintf("unknown key %q", key)}},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidDateError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidDate,
		Message:   "malformed or inconsistent date",
		Details:   details,
		Fields:    []FieldViolation{{Field: field, Message: details}},
		Timestamp: time.Now().UTC(),
	}
}

// NewArithmeticError reports a zero denominator or a non-finite intermediate.
func NewArithmeticError(operation, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArithmetic,
		Message:   "score computation failed",
		Details:   fmt.Sprintf("%s: %s", operation, details),
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(kind string, key interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentNotFound,
		Message:   "assessment not found",
		Details:   fmt.Sprintf("%s: %v", kind, key),
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError wraps a persistence failure; the cause stays reachable via errors.Unwrap.
func NewStorageError(operation string, err error) *StandardError {
	details := operation
	if err != nil {
		details = fmt.Sprintf("%s: %s", operation, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeStorageUnavailable,
		Message:   "assessment storage unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "risk alert delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %v", channel, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSearchIndexFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "search index operation failed",
		Details:   fmt.Sprintf("%s: %v", operation, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSearchDisabledError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchDisabled,
		Message:   "name search is not configured",
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowUnavailableError reports a broker that cannot be reached.
func NewWorkflowUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowUnavailable,
		Message:   "workflow engine unavailable",
		Details:   fmt.Sprintf("%s: %v", operation, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended Zeebe retry count for a code. The engine
// itself never retries.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStorageUnavailable, ErrCodeWorkflowUnavailable:
		return 3
	case ErrCodeNotificationSendFailed, ErrCodeSearchIndexFailed:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if len(stdErr.Fields) > 0 {
		vars["fieldErrors"] = stdErr.Fields
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard normalizes any error into a StandardError.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return false
	}
	return stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidSortKey, ErrCodeInvalidDate:
		return "VALIDATION"
	case ErrCodeArithmetic:
		return "ARITHMETIC"
	case ErrCodeAssessmentNotFound:
		return "NOT_FOUND"
	case ErrCodeStorageUnavailable:
		return "STORAGE"
	case ErrCodeNotificationSendFailed:
		return "NOTIFICATION"
	case ErrCodeSearchIndexFailed, ErrCodeSearchDisabled:
		return "SEARCH"
	case ErrCodeWorkflowUnavailable:
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
