package domain

import (
	"errors"
	"fmt"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg}
}

func ErrDuplicate(msg string) *AppError {
	return &AppError{Code: "DUPLICATE", Message: msg}
}

func ErrUpstream(source string, cause error) *AppError {
	return &AppError{Code: "UPSTREAM_ERROR", Message: fmt.Sprintf("source %s failed", source), Cause: cause}
}

func ErrStore(msg string, cause error) *AppError {
	return &AppError{Code: "STORE_ERROR", Message: msg, Cause: cause}
}

func ErrConfig(msg string) *AppError {
	return &AppError{Code: "CONFIG_ERROR", Message: msg}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Cause: cause}
}

// IsDuplicate reports whether err carries the DUPLICATE code anywhere in its chain.
func IsDuplicate(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == "DUPLICATE"
	}
	return false
}
