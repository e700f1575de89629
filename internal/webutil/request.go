package webutil

import (
	"encoding/json"
	"net/http"

	"hifz_tracker/internal/model"
)

// DecodeJSONBody decodes the request body into dst, rejecting unknown
// fields.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return model.NewAppError("INVALID_BODY", "Request body could not be decoded.", "", model.ErrInvalidInput)
	}
	return nil
}

// DecodeAndValidate decodes then runs struct validation, returning an
// AppError on either failure.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}
