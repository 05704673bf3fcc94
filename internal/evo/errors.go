package evo

import (
	"errors"
	"fmt"
)

// ErrInvalidParams indicates a Params value that cannot drive a population.
var ErrInvalidParams = errors.New("evo: invalid parameters")

// ParamError names the offending field of a rejected Params.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("evo: invalid %s: %s", e.Field, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}
