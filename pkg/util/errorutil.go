package util

import (
	"errors"
	"fmt"
	"net/http"
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

// NewBadRequest marks malformed caller input.
func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
}

// NewUpstreamAuthFailure marks a rejected token exchange or identity fetch.
// Surfaced to the linking caller as 400.
func NewUpstreamAuthFailure(message string, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_AUTH_FAILED",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewMemberNotFound marks a correlation token matching no membership record.
func NewMemberNotFound(uuid string) error {
	return &DomainError{
		Code:       "MEMBER_NOT_FOUND",
		Message:    "member not found",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"uuid": uuid},
	}
}

// NewRoleSyncFailure marks a failed guild/member/role lookup or grant/revoke call.
func NewRoleSyncFailure(err error) error {
	return &DomainError{
		Code:       "ROLE_SYNC_FAILED",
		Message:    "role synchronization failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewMalformedEvent marks a notification payload missing its member id.
// Logged only; the triggering request was already acknowledged.
func NewMalformedEvent(message string) error {
	return NewDomainError("MALFORMED_EVENT", message, http.StatusBadRequest, nil)
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
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
