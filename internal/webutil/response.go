package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"hifz_tracker/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError interprets err and writes the matching JSON error
// response. This is the single exit point for handler errors.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: model.ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Field:   appErr.Field,
		}}
	} else {
		if statusCode == http.StatusInternalServerError {
			logger.Error("Unhandled error", "error", err)
		}
		errResp = model.APIErrorResponse{Error: model.ErrorDetail{
			Code:    strings.ReplaceAll(strings.ToUpper(http.StatusText(statusCode)), " ", "_"),
			Message: http.StatusText(statusCode) + ".",
		}}
	}

	RespondWithJSON(w, statusCode, errResp)
}

// MapErrorToStatusCode maps application sentinels to HTTP status
// codes. AppError is judged by its wrapped sentinel.
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON writes payload as a JSON response.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Error marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to encode response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// NewValidationErrorResponse folds validator errors into one AppError.
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string
	for _, err := range errs {
		fields = append(fields, err.Field())
		messages = append(messages, fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag()))
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
