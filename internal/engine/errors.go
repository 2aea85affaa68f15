package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks negative minutes or rates, non-finite values, or a
	// modality split that is out of range or does not sum to 100.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedBreakEven marks a break-even rate requested for zero volume.
	ErrUndefinedBreakEven = errors.New("break-even rate undefined for zero volume")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
