package timedelta

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat matches every *InvalidFormatError via errors.Is.
	ErrInvalidFormat = errors.New("invalid time interval")
	ErrOutOfRange    = errors.New("time interval out of range")
)

// InvalidFormatError reports input that neither grammar accepts. Input is
// the rejected text, unmodified.
type InvalidFormatError struct {
	Input string
	Err   error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("'%s' is not a valid time interval: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("'%s' is not a valid time interval", e.Input)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}
