package eda

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDataset is returned when a percentage over rows is requested for
	// a dataset with no rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
	// ErrDegenerateColumn marks a zero-variance column during outlier detection.
	// It is recovered locally and never returned by Run.
	ErrDegenerateColumn = errors.New("zero-variance column")
	// ErrEmptyMode marks a column with no repeated value during mode
	// imputation. It is recovered locally via the fallback chain.
	ErrEmptyMode = errors.New("no computable mode")
	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("unknown imputation strategy")
)

// InvalidColumnError indicates the requested target is not a dataset column.
type InvalidColumnError struct {
	Column    string
	Available []string
}

func (e *InvalidColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("'%s' does not exist in dataset", e.Column)
	}
	return fmt.Sprintf("'%s' does not exist in dataset (columns: %s)", e.Column, strings.Join(e.Available, ", "))
}

// VisualizationError wraps any failure while rendering charts. Run stores it
// on the Result instead of returning it.
type VisualizationError struct {
	Dir string
	Err error
}

func (e *VisualizationError) Error() string {
	if e.Dir != "" {
		return fmt.Sprintf("visualization failed (%s): %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("visualization failed: %v", e.Err)
}

func (e *VisualizationError) Unwrap() error { return e.Err }
