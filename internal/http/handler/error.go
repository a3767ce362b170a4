package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"backoffice/internal/http/middleware"
	"backoffice/internal/service"
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

// requestError is a client mistake detected in the handler before any service call.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{status: fiber.StatusBadRequest, code: code, message: message}
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	return middleware.RequestIDFromCtx(c)
}

// writeError writes a standardized JSON error response without leaking internal errors.
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

var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{service.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrAgentDisabled, fiber.StatusForbidden, "AGENT_DISABLED"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{service.ErrInsufficientBalance, fiber.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
	{service.ErrAlreadyResolved, fiber.StatusConflict, "ALREADY_RESOLVED"},
	{service.ErrUserInactive, fiber.StatusUnprocessableEntity, "USER_INACTIVE"},
	{service.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
}

// classify maps a known error to its response. Unknown errors report ok=false.
func classify(err error) (status int, code, message string, ok bool) {
	var re *requestError
	if errors.As(err, &re) {
		return re.status, re.code, re.message, true
	}
	for _, m := range serviceErrors {
		if !errors.Is(err, m.err) {
			continue
		}
		message = m.err.Error()
		if m.err == service.ErrInvalidInput {
			message = strings.TrimPrefix(err.Error(), m.err.Error()+": ")
		}
		return m.status, m.code, message, true
	}
	return 0, "", "", false
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Handlers return service errors as-is; anything unrecognised is logged and
// answered with INTERNAL_ERROR.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusBadRequest:
				return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
			case fiber.StatusUnauthorized:
				return writeError(c, fe.Code, "UNAUTHORIZED", fe.Message)
			case fiber.StatusForbidden:
				return writeError(c, fe.Code, "FORBIDDEN", fe.Message)
			case fiber.StatusNotFound:
				return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
			case fiber.StatusMethodNotAllowed:
				return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
			case fiber.StatusRequestEntityTooLarge:
				return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
			}
		} else if status, code, message, ok := classify(err); ok {
			return writeError(c, status, code, message)
		}

		log.WithError(err).WithFields(logrus.Fields{
			"request_id": requestIDFromCtx(c),
			"method":     c.Method(),
			"path":       c.Path(),
		}).Error("request_failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
