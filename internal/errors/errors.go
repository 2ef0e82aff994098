package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes pipeline failures
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeDecode      ErrorType = "decode"
	ErrorTypeEmptyImage  ErrorType = "empty_image"
	ErrorTypeStorage     ErrorType = "storage"
	ErrorTypeRecognition ErrorType = "recognition"
	ErrorTypeEmptyResult ErrorType = "empty_result"
	ErrorTypePersist     ErrorType = "persist"
	ErrorTypeInternal    ErrorType = "internal"
)

// Stage identifies where in the recognition pipeline a failure occurred
type Stage string

const (
	StageValidation    Stage = "validation"
	StageStorage       Stage = "storage"
	StagePreprocessing Stage = "preprocessing"
	StageRecognition   Stage = "recognition"
	StagePersist       Stage = "persist"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Stage      Stage     `json:"stage,omitempty"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// UserCorrectable reports whether the caller can fix the failure by changing
// the input, as opposed to transient storage or engine faults
func (e *AppError) UserCorrectable() bool {
	switch e.Type {
	case ErrorTypeValidation, ErrorTypeDecode, ErrorTypeEmptyImage, ErrorTypeEmptyResult:
		return true
	}
	return false
}

// NewValidationError creates a validation error (bad or missing file)
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Stage:      StageValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewDecodeError creates an error for unreadable or corrupt image content
func NewDecodeError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecode,
		Stage:      StagePreprocessing,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewEmptyImageError creates an error for an all-background image with no
// foreground pixels to estimate a skew angle from
func NewEmptyImageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeEmptyImage,
		Stage:      StagePreprocessing,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewStorageError creates an error for a failed upload write
func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Stage:      StageStorage,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewPreprocessingError creates an error for an internal preprocessing fault,
// e.g. failing to write the normalized image
func NewPreprocessingError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Stage:      StagePreprocessing,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewRecognitionError creates an error for a recognition engine failure
func NewRecognitionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRecognition,
		Stage:      StageRecognition,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewEmptyResultError creates an error for a recognizer run that yielded no
// usable text; distinct from success with empty output
func NewEmptyResultError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeEmptyResult,
		Stage:      StageRecognition,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewPersistError creates an error for a failed results write
func NewPersistError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersist,
		Stage:      StagePersist,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalError creates a generic internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStage extracts the pipeline stage from an error, if known
func GetStage(err error) Stage {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
