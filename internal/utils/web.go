package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorCode(statusCode int) string {
	switch {
	case statusCode == http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case statusCode == http.StatusForbidden:
		return "FORBIDDEN"
	case statusCode == http.StatusNotFound:
		return "NOT_FOUND"
	case statusCode == http.StatusBadRequest:
		return "BAD_REQUEST"
	case statusCode == http.StatusConflict:
		return "CONFLICT"
	case statusCode == http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case statusCode >= http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	default:
		return "ERROR"
	}
}

// WriteError maps a typed application error to its status and a {code,
// message} body. Anything untyped is logged server-side and surfaced as a
// generic 500 so internals never leak to the client.
func WriteError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		statusCode = e.StatusCode
		message = e.Message
	} else {
		logger.Log.Error("unexpected error", "error", err)
	}

	WriteJSON(w, statusCode, errorResponse{Code: errorCode(statusCode), Message: message})
}

func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// DecodeValidate parses a JSON body into target and checks its validate tags.
func DecodeValidate(r io.ReadCloser, target any) error {
	if err := json.NewDecoder(r).Decode(target); err != nil {
		return errors.BadRequest("Body is invalid json")
	}
	if err := validate.Struct(target); err != nil {
		return errors.BadRequest("Required fields missing or invalid")
	}
	return nil
}
