package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewSetupBusy signals that a wizard session is already running for the guild.
func NewSetupBusy(guildID string) error {
	return NewDomainError("SETUP_BUSY", "a setup process is already in progress", http.StatusConflict,
		map[string]any{"guild_id": guildID})
}

// NewPromptTimeout signals that the requester did not answer within the wait window.
func NewPromptTimeout(prompt string) error {
	return NewDomainError("PROMPT_TIMEOUT", "no answer received within the wait window", http.StatusRequestTimeout,
		map[string]any{"prompt": prompt})
}

// NewPlatformForbidden signals that the platform denied a resource call.
func NewPlatformForbidden(operation string, err error) error {
	return &DomainError{
		Code:       "PLATFORM_FORBIDDEN",
		Message:    fmt.Sprintf("platform denied %s", operation),
		HTTPStatus: http.StatusForbidden,
		Err:        err,
	}
}

// NewRoleLookupFailed signals an overwrite referencing a role that was never created.
// Roles are created before any channel that references them, so hitting this is
// an internal invariant violation rather than a user error.
func NewRoleLookupFailed(roleName string) error {
	return NewDomainError("ROLE_LOOKUP_FAILED", fmt.Sprintf("role %q missing from created-role set", roleName),
		http.StatusInternalServerError, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
