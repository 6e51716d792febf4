package pacing

import "fmt"

// MissingParameterError indicates a parameter required by the mode is absent.
type MissingParameterError struct {
	Param Param
}

// Error implements error.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing parameter %q", e.Param.Label())
}

// OutOfRangeError indicates a parameter value is not valid.
type OutOfRangeError struct {
	Param Param
	Value float64
	Range Range
}

// Error implements error.
func (e *OutOfRangeError) Error() string {
	if e.Param.Info().Kind == KindInteger {
		return fmt.Sprintf("parameter %q value %g out of range, expect integer in %s",
			e.Param.Label(), e.Value, e.Range)
	}
	return fmt.Sprintf("parameter %q value %g out of range %s", e.Param.Label(), e.Value, e.Range)
}

// UnknownParamError indicates a parameter name outside the vocabulary.
type UnknownParamError struct {
	Name string
}

// Error implements error.
func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Name)
}

// UnknownModeError indicates an unsupported pacing mode.
type UnknownModeError struct {
	Name string
}

// Error implements error.
func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown pacing mode %q", e.Name)
}
