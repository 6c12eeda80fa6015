package backprop

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks training algorithms that are named but not built.
var ErrNotImplemented = errors.New("not implemented")

// InvalidArgumentError reports a caller-supplied value that violates a
// precondition of the training schedule.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// ConfigurationError reports an unusable training configuration, detected
// before any forward pass runs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// UnsupportedOutputArityError reports a network whose forward pass produced a
// number of outputs the scheduler cannot interpret. Supported arities are 2
// (spikes, membrane) through 4.
type UnsupportedOutputArityError struct {
	Arity int
}

func (e *UnsupportedOutputArityError) Error() string {
	return fmt.Sprintf("unsupported network output arity %d: expected 2, 3 or 4 outputs (spikes first, membrane last)", e.Arity)
}
