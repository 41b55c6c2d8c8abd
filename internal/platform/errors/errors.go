package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrPeriodChanged rejects an edit aimed at a period that is no longer
	// the current one.
	ErrPeriodChanged = errors.New("period changed")

	ErrUnknownHabit  = fmt.Errorf("%w: unknown habit", ErrInvalidInput)
	ErrDayOutOfRange = fmt.Errorf("%w: day out of range", ErrInvalidInput)
)
