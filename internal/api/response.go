package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/display"
	"github.com/zapponejosh/hebcal-api/internal/gematria"
)

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes returned in ErrorInfo.Code.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
	CodeDuplicate         = "DUPLICATE"
	CodeRateLimited       = "RATE_LIMITED"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeYearOutOfRange    = "YEAR_OUT_OF_RANGE"
	CodeInvalidDate       = "INVALID_DATE"
	CodeInvalidMonth      = "INVALID_MONTH"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeInvalidNumeral    = "INVALID_NUMERAL"
	CodeUnsupportedLocale = "UNSUPPORTED_LOCALE"
	CodeValidation        = "VALIDATION_FAILED"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, CodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, CodeInternal)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

// WriteTooManyRequests writes a 429 Too Many Requests response.
func WriteTooManyRequests(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusTooManyRequests, message, CodeRateLimited)
}

// classifyError maps engine and formatter errors to an HTTP status and
// error code. ok is false for errors that are not caller mistakes.
func classifyError(err error) (status int, code string, ok bool) {
	switch {
	// An invalid month is also an invalid date; report the narrower code.
	case errors.Is(err, calendar.ErrInvalidMonth):
		return http.StatusBadRequest, CodeInvalidMonth, true
	case errors.Is(err, calendar.ErrInvalidDate):
		return http.StatusBadRequest, CodeInvalidDate, true
	case errors.Is(err, calendar.ErrCalendarRange):
		return http.StatusBadRequest, CodeOutOfRange, true
	case errors.Is(err, gematria.ErrInvalidNumeral):
		return http.StatusBadRequest, CodeInvalidNumeral, true
	case errors.Is(err, display.ErrUnsupportedLocale):
		return http.StatusBadRequest, CodeUnsupportedLocale, true
	}
	return http.StatusInternalServerError, CodeInternal, false
}
