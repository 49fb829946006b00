package physics

import (
	"errors"
	"fmt"
)

// ErrBodyInvalid means the body's backing object has been destroyed.
var ErrBodyInvalid = errors.New("body is no longer valid")

// Phase names one half of the two-phase tick.
type Phase string

const (
	PhaseCompute Phase = "compute"
	PhaseApply   Phase = "apply"
)

// BodyError reports a body dropped from the simulation during a tick.
type BodyError struct {
	Body  Body
	Phase Phase
	Tick  int64
	Err   error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("physics: %v failed in %s phase at tick %d: %v", e.Body, e.Phase, e.Tick, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}
