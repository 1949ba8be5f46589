package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MinRequirementsLength is the shortest accepted job description after trimming.
const MinRequirementsLength = 20

type fileSubmission struct {
	Filename     string `json:"filename" validate:"required"`
	Content      []byte `json:"resume" validate:"min=1"`
	Requirements string `json:"requirements" validate:"min=20"`
}

type textSubmission struct {
	Filename     string `json:"filename"`
	ResumeText   string `json:"resume_text" validate:"required"`
	Requirements string `json:"requirements" validate:"min=20"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// checkSubmission validates s and reports the first failing field.
func checkSubmission(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Stage: StageValidation, Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Stage: StageValidation, Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
