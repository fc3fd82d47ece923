package thermal

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is the category every input validation failure matches.
var ErrInvalidParameters = errors.New("invalid thermal parameters")

var (
	ErrNotFinite            = errors.New("value must be a finite number")
	ErrNonPositiveVolume    = errors.New("volume must be greater than zero")
	ErrNonPositiveDuration  = errors.New("duration must be greater than zero")
	ErrDurationTooShort     = errors.New("duration is shorter than one integration step")
	ErrDurationTooLong      = errors.New("duration exceeds the longest simulated run")
	ErrNonPositiveFlowRate  = errors.New("flow rate must be greater than zero")
	ErrNegativeCoefficient  = errors.New("heat transfer coefficient must be greater or equal to zero")
	ErrNegativeSurfaceArea  = errors.New("surface area must be greater or equal to zero")
	ErrNegativePower        = errors.New("heater power must be greater or equal to zero")
	ErrTargetBelowInitial   = errors.New("target temperature is below initial temperature")
	ErrFinalNotBelowInitial = errors.New("final temperature must be below initial temperature")
	ErrNonPositiveCapacity  = errors.New("total thermal capacity must be greater than zero")
)

// ParamError names the input field that failed validation.
type ParamError struct {
	Field string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParameters
}

func invalid(field string, err error) error {
	return &ParamError{Field: field, Err: err}
}
