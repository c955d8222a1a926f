package shared

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIError is the JSON body of every failed REST response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func newHTTPError(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, &APIError{Code: code, Message: message})
}

func BadRequest(code, message string) *echo.HTTPError {
	return newHTTPError(http.StatusBadRequest, code, message)
}

func Forbidden(code, message string) *echo.HTTPError {
	return newHTTPError(http.StatusForbidden, code, message)
}

func NotFound(code, message string) *echo.HTTPError {
	return newHTTPError(http.StatusNotFound, code, message)
}

func TooManyRequests(code, message string) *echo.HTTPError {
	return newHTTPError(http.StatusTooManyRequests, code, message)
}

func InternalError(code, message string) *echo.HTTPError {
	return newHTTPError(http.StatusInternalServerError, code, message)
}

// ErrorHandler renders errors as APIError bodies, including echo's own
// routing errors. Non-HTTP errors are logged and reported as 500.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := toAPIError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "error", err, "method", c.Request().Method, "path", c.Path())
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Warn("failed to write error response", "error", err)
		}
	}
}

func toAPIError(err error) (int, *APIError) {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return http.StatusInternalServerError, &APIError{
			Code:    codeForStatus(http.StatusInternalServerError),
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}

	switch msg := he.Message.(type) {
	case *APIError:
		return he.Code, msg
	case string:
		return he.Code, &APIError{Code: codeForStatus(he.Code), Message: msg}
	default:
		return he.Code, &APIError{Code: codeForStatus(he.Code), Message: http.StatusText(he.Code)}
	}
}

func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
