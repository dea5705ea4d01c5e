package validation

import (
	"errors"
	"reflect"
	"strings"

	"bizlevel/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors are
// the JSON names of the request.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct checks the `validate` tags of a request body.
func (v *Validator) ValidateStruct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

// ValidateID checks a path identifier.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max", "gte", "lte":
		ve := domain.NewInvalidFormatError(field, fe.Value())
		ve.Code = domain.CodeOutOfRange
		ve.Message = "value violates " + fe.Tag() + "=" + fe.Param()
		return ve
	case "oneof":
		ve := domain.NewInvalidFormatError(field, fe.Value())
		ve.Message = "value must be one of: " + fe.Param()
		return ve
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the root struct name: "QuizSubmitRequest.answers[0].question_id" -> "answers[0].question_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
