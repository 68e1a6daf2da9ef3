package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/frame-player/internal/errors"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")
	ErrUnavailable      = errors.New("feature not configured")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNotReviewing    = errors.New("session has not reached review mode")
	ErrUnknownSource   = errors.New("unknown session source")

	// Frame set specific errors
	ErrFrameSetNotFound      = errors.New("frame set not found")
	ErrFrameSetDuplicateName = errors.New("frame set name already exists")

	// Report specific errors
	ErrUnsupportedFormat = errors.New("unsupported report format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrFrameSetNotFound) ||
		repositories.IsNotFoundError(err)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnknownSource) || errors.Is(err, ErrUnsupportedFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsDataFormat checks if the frame definition itself was malformed
func IsDataFormat(err error) bool {
	return apperrors.IsDataFormat(err)
}

// IsAssetResolution checks if an image referenced by the frames could not be read
func IsAssetResolution(err error) bool {
	return apperrors.IsAssetResolution(err)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotReviewing) ||
		errors.Is(err, ErrFrameSetDuplicateName)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
