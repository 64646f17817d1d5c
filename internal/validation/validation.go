package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// the zero UUID counts as missing
	v.RegisterCustomTypeFunc(func(rv reflect.Value) interface{} {
		id, _ := rv.Interface().(uuid.UUID)
		if id == (uuid.UUID{}) {
			return ""
		}
		return id.String()
	}, uuid.UUID{})

	if err := v.RegisterValidation("sizetoken", validateSizeToken); err != nil {
		panic(err)
	}
	return v
}

// validateSizeToken accepts any non-empty token the size parser accepts,
// pass-through tokens included. Tokens end up in node names and export keys,
// so path separators are refused.
func validateSizeToken(fl validator.FieldLevel) bool {
	tok := fl.Field().String()
	if tok == "" || strings.ContainsAny(tok, `/\`) {
		return false
	}
	_, err := sizespec.Parse(tok)
	return err == nil
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToJson flattens validator errors into a {"field": "tag"} object.
func ErrorsToJson(validationErrs error) (string, error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(validationErrs, &fieldErrs) {
		return "", fmt.Errorf("not a validation error: %w", validationErrs)
	}

	byField := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		byField[fe.Field()] = fe.Tag()
	}

	out, err := json.Marshal(byField)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
