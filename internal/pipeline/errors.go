package pipeline

import (
	"errors"
	"fmt"
)

// Stage names.
const (
	StageValidation           = "validation"
	StageFileValidation       = "file_validation"
	StageExtraction           = "extraction"
	StageTextQuality          = "text_quality"
	StageStructuredExtraction = "structured_extraction"
	StageEvaluation           = "evaluation"
	StageNormalization        = "normalization"
	StageHistory              = "history"
	StageSystem               = "system"
)

// ErrLowQuality is wrapped by the text_quality stage in strict mode.
var ErrLowQuality = errors.New("extracted text quality is too low")

// ValidationError reports a rejected submission field.
type ValidationError struct {
	Stage   string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", e.Stage, e.Field, e.Message)
}

// ExtractionError reports that no usable text could be obtained.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InternalError wraps panics and errors no other type describes.
type InternalError struct {
	Stage    string
	TypeName string
	Err      error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: internal error (%s): %v", e.Stage, e.TypeName, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// classify keeps taxonomy errors as they are and wraps anything else.
func classify(err error) error {
	var (
		verr *ValidationError
		eerr *ExtractionError
		ierr *InternalError
	)
	if errors.As(err, &verr) || errors.As(err, &eerr) || errors.As(err, &ierr) {
		return err
	}
	return &InternalError{Stage: StageSystem, TypeName: fmt.Sprintf("%T", err), Err: err}
}

func fromPanic(recovered any) error {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	return &InternalError{Stage: StageSystem, TypeName: fmt.Sprintf("%T", recovered), Err: fmt.Errorf("panic: %w", err)}
}
