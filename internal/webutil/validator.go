package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator is the shared validator instance.
var Validator *validator.Validate

// Trans translates validation errors into user-facing messages.
var Trans ut.Translator

func init() {
	Validator = validator.New()

	// Report field names from json tags, not Go struct fields.
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	Trans, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}
}

// ValidateStruct runs tag validation on dst and converts failures into
// an AppError.
func ValidateStruct(dst interface{}) error {
	if err := Validator.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationErrorResponse(verrs)
		}
		return err
	}
	return nil
}
