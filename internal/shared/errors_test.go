package shared

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHelpers(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(code, message string) *echo.HTTPError
		expected int
	}{
		{"BadRequest", BadRequest, http.StatusBadRequest},
		{"Forbidden", Forbidden, http.StatusForbidden},
		{"NotFound", NotFound, http.StatusNotFound},
		{"TooManyRequests", TooManyRequests, http.StatusTooManyRequests},
		{"InternalError", InternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := tt.fn("test_code", "test message")
			if he.Code != tt.expected {
				t.Errorf("expected code %d, got %d", tt.expected, he.Code)
			}
			apiErr, ok := he.Message.(*APIError)
			if !ok {
				t.Fatalf("expected *APIError message, got %T", he.Message)
			}
			if apiErr.Code != "test_code" || apiErr.Message != "test message" {
				t.Errorf("unexpected body %+v", apiErr)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: "room_not_found", Message: "room not found"}
	if err.Error() != "room_not_found: room not found" {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
		wantCode   string
		wantBody   bool
	}{
		{
			name:       "api error",
			method:     http.MethodGet,
			err:        NotFound("room_not_found", "room not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "room_not_found",
			wantBody:   true,
		},
		{
			name:       "echo routing error",
			method:     http.MethodGet,
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
			wantBody:   true,
		},
		{
			name:       "string message",
			method:     http.MethodGet,
			err:        echo.NewHTTPError(http.StatusForbidden, "origin not allowed"),
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
			wantBody:   true,
		},
		{
			name:       "plain error",
			method:     http.MethodGet,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_server_error",
			wantBody:   true,
		},
		{
			name:       "head request",
			method:     http.MethodHead,
			err:        BadRequest("invalid_hours", "bad"),
			wantStatus: http.StatusBadRequest,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := ErrorHandler(logger)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/v1/rooms/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !tt.wantBody {
				if rec.Body.Len() != 0 {
					t.Errorf("expected empty body, got %s", rec.Body.String())
				}
				return
			}

			var body APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Errorf("committed response should be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
