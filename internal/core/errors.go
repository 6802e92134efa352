package core

import (
	"errors"
	"fmt"
)

// Error roots. Every error returned by this package wraps exactly one of them,
// so callers can branch with errors.Is on the category alone.
var (
	// ErrParse reports text that does not match the expected grammar.
	ErrParse = errors.New("parse error")
	// ErrValidation reports well-formed input that breaks a rule.
	ErrValidation = errors.New("validation error")
)

var (
	ErrInvalidAmount  = fmt.Errorf("%w: invalid amount", ErrParse)
	ErrInvalidDayText = fmt.Errorf("%w: invalid day", ErrParse)

	ErrInvalidDay      = fmt.Errorf("%w: day does not exist in month", ErrValidation)
	ErrInvalidMonth    = fmt.Errorf("%w: invalid month", ErrValidation)
	ErrDuplicateName   = fmt.Errorf("%w: category name already exists", ErrValidation)
	ErrEmptyName       = fmt.Errorf("%w: empty category name", ErrValidation)
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrAmountOverflow  = fmt.Errorf("%w: amount out of range", ErrValidation)
	ErrSpendingIndex   = fmt.Errorf("%w: no spending at index", ErrValidation)
)
