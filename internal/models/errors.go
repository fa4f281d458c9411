package models

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMissingRequiredFields = errors.New("Name, Email, Address and Monthly Bill (>0) are required")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrInvalidCoordinates    = errors.New("latitude must be in [-90,90] and longitude in [-180,180]")
)

// Pipeline stages, in execution order. A StageError identifies which step of
// the report pipeline failed so the HTTP layer can pick a response status.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageGeocode   Stage = "geocode"
	StageSolarData Stage = "solar_data"
	StageCompute   Stage = "compute"
	StageRender    Stage = "render"
)

// StageError is a terminal pipeline failure attributed to one stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err as a terminal failure of the given stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// AsStageError extracts a StageError from an error chain.
func AsStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
