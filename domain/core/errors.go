package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrSheetNotFound  = fmt.Errorf("%w: sheet", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Statistical errors
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrDistributionRange = errors.New("sample size outside exact distribution range")
	ErrNoCriticalValue   = errors.New("no critical value available")
	ErrInvalidAlpha      = errors.New("significance level must be in (0, 1)")
)

// NewInsufficientDataError reports how many valid pairs were found against the minimum.
func NewInsufficientDataError(n, min int) error {
	return fmt.Errorf("%w: %d valid pairs, need at least %d", ErrInsufficientData, n, min)
}

func NewSheetNotFoundError(sheet string) error {
	return fmt.Errorf("%w %q", ErrSheetNotFound, sheet)
}

func NewColumnNotFoundError(sheet, column string) error {
	return fmt.Errorf("%w %q in sheet %q", ErrColumnNotFound, column, sheet)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
