package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stampapi/internal/document"
	"stampapi/internal/http/middleware"
	"stampapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "SESSION_NOT_FOUND", "INVALID_PARAMS")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceError translates service-layer sentinel errors into HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return writeError(c, fiber.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
	case errors.Is(err, service.ErrStampNotFound):
		return writeError(c, fiber.StatusNotFound, "STAMP_NOT_FOUND", "stamp not found")
	case errors.Is(err, service.ErrNoDocument):
		return writeError(c, fiber.StatusConflict, "NO_DOCUMENT", "no document loaded in session")
	case errors.Is(err, service.ErrPageOutOfRange):
		return writeError(c, fiber.StatusBadRequest, "PAGE_OUT_OF_RANGE", "page out of range")
	case errors.Is(err, service.ErrBadConfig):
		return writeError(c, fiber.StatusBadRequest, "INVALID_CONFIG", "malformed stamp configuration")
	case errors.Is(err, service.ErrArchiveDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "ARCHIVE_DISABLED", "archive storage not configured")
	case errors.Is(err, service.ErrInvalidParams), errors.Is(err, service.ErrUnknownType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_PARAMS", "invalid stamp parameters")
	case errors.Is(err, document.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "document exceeds maximum size")
	case errors.Is(err, document.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "unsupported document format")
	case errors.Is(err, document.ErrCorruptDocument):
		return writeError(c, fiber.StatusBadRequest, "CORRUPT_DOCUMENT", "document could not be parsed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
