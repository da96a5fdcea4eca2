package eda

import (
	"math"
	"testing"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

var nan = math.NaN()

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// ageCity is the two-column dataset used across stage tests.
func ageCity(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("people.csv",
		dataset.NewNumeric("age", []float64{25, 30, nan, 40}),
		dataset.NewCategorical("city", []string{"A", "B", "A", "B"}, nil),
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func mustDataset(t *testing.T, cols ...*dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("test", cols...)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}
