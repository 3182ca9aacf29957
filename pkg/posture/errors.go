package posture

import (
	"errors"
	"fmt"
)

//ErrAggregatorUsed is returned when Run is called on an aggregator that already ran
var ErrAggregatorUsed = errors.New("aggregator already used")

//ValidationError reports a request that was rejected before any frame was processed
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%s'", e.Field, e.Value)
}

//DecodeError reports a video that could not be opened or read
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode video '%s': %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
