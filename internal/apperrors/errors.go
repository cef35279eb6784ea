package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation forbidden")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates an expired refresh token.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrInvalidTransition indicates a deal stage change the stage graph does not permit.
var ErrInvalidTransition = errors.New("invalid stage transition")

// ErrNotSubmitted indicates an approve/reject attempt on a record that is not SUBMITTED.
var ErrNotSubmitted = errors.New("record is not submitted")

// ErrNotEditable indicates a mutation attempt on a record outside DRAFT/REJECTED status.
var ErrNotEditable = errors.New("record is not editable in its current status")

// ErrSelfApproval indicates a reviewer attempting to approve their own record.
var ErrSelfApproval = errors.New("self-approval is forbidden")

// ErrMissingReason indicates a rejection without a usable comment.
var ErrMissingReason = errors.New("rejection reason is required")

// ErrAlreadyInvoiced indicates a milestone that is already linked to an invoice.
var ErrAlreadyInvoiced = errors.New("milestone already invoiced")

// ErrAlreadyFinalized indicates a finalize attempt on a non-draft invoice.
var ErrAlreadyFinalized = errors.New("invoice already finalized")

// ErrInvalidState indicates record content that makes the requested transition
// meaningless (e.g. submitting a zero-hours time entry).
var ErrInvalidState = errors.New("invalid record state for operation")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
// Used mainly by the persistence layer for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates an AppError for malformed input.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewUnauthorizedError creates an AppError for missing or invalid credentials.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: 401, Message: message, Err: ErrUnauthorized}
}

// NewForbiddenError creates an AppError for a disallowed operation.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: 403, Message: message, Err: ErrForbidden}
}

// NewNotFoundError creates an AppError for a missing resource.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError for a state conflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}

// NewInternalServerError creates an AppError for unexpected failures.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: 500, Message: message, Err: ErrInternal}
}

// NewGatewayTimeoutError creates an AppError for upstream timeouts.
func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: 504, Message: message, Err: ErrInternal}
}
