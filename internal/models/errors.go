package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the XRPC-style error envelope returned to callers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
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

// Predefined error constructors
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    "NotFound",
		Message: message,
	}
}

func NewInvalidRequestError(message string) *AppError {
	return &AppError{
		Code:    "InvalidRequest",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "InternalServerError",
		Message: "Internal Server Error",
		Err:     err,
	}
}

// RespondWithError writes the standardized XRPC error envelope. Internal
// details are never surfaced to the caller; the wrapped error is for
// server-side logging only.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	if appErr, ok := err.(*AppError); ok {
		return c.Status(status).JSON(ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
		})
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:   "InternalServerError",
		Message: "Internal Server Error",
	})
}
