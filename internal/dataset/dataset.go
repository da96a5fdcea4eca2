package dataset

import (
	"fmt"
	"math"
)

// Kind is the closed type tag assigned to every column at ingestion.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is an immutable named sequence of cells. Numeric columns mark nulls
// with NaN; categorical columns carry an explicit null mask.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	texts []string
	null  []bool
}

// NewNumeric builds a numeric column. NaN entries are treated as null.
// The values slice is copied.
func NewNumeric(name string, values []float64) *Column {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &Column{name: name, kind: Numeric, nums: cp}
}

// NewCategorical builds a categorical column. null may be nil when no cell is
// missing; otherwise it must have the same length as values.
func NewCategorical(name string, values []string, null []bool) *Column {
	cp := make([]string, len(values))
	copy(cp, values)
	mask := make([]bool, len(values))
	copy(mask, null)
	return &Column{name: name, kind: Categorical, texts: cp, null: mask}
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.texts)
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.null[i]
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. ok is false for nulls and for
// categorical columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != Numeric || math.IsNaN(c.nums[i]) {
		return 0, false
	}
	return c.nums[i], true
}

// Text returns the cell at row i rendered as text. Numeric cells use the
// shortest round-trip formatting; nulls return "", false.
func (c *Column) Text(i int) (string, bool) {
	if c.IsNull(i) {
		return "", false
	}
	if c.kind == Numeric {
		return FormatFloat(c.nums[i]), true
	}
	return c.texts[i], true
}

// Floats returns the non-null values of a numeric column in row order.
func (c *Column) Floats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for _, v := range c.nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Values returns a copy of every numeric cell including NaN nulls.
func (c *Column) Values() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out
}

// Texts returns the non-null values of a categorical column in row order.
func (c *Column) Texts() []string {
	if c.kind != Categorical {
		return nil
	}
	out := make([]string, 0, len(c.texts))
	for i, v := range c.texts {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an ordered, row-aligned set of columns. It is treated as an
// immutable value: transformations return a new Dataset.
type Dataset struct {
	Name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a dataset from columns of equal length.
func New(name string, cols ...*Column) (*Dataset, error) {
	ds := &Dataset{Name: name, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := ds.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.name)
		}
		if i == 0 {
			ds.rows = c.Len()
		} else if c.Len() != ds.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.name, c.Len(), ds.rows)
		}
		ds.index[c.name] = i
		ds.cols = append(ds.cols, c)
	}
	return ds, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(name string, cols ...*Column) *Dataset {
	ds, err := New(name, cols...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.rows }

// Columns returns the columns in dataset order. The slice is a copy.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Names returns column names in dataset order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.name
	}
	return out
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// ColumnsOfKind returns the columns tagged k, in dataset order.
func (d *Dataset) ColumnsOfKind(k Kind) []*Column {
	var out []*Column
	for _, c := range d.cols {
		if c.kind == k {
			out = append(out, c)
		}
	}
	return out
}

// WithColumn returns a new dataset where the column of the same name is
// replaced by c. The replacement must keep the name, kind and length.
func (d *Dataset) WithColumn(c *Column) (*Dataset, error) {
	i, ok := d.index[c.name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", c.name)
	}
	if d.cols[i].kind != c.kind {
		return nil, fmt.Errorf("column %q: kind change %s -> %s not allowed", c.name, d.cols[i].kind, c.kind)
	}
	if c.Len() != d.rows {
		return nil, fmt.Errorf("column %q has %d rows, expected %d", c.name, c.Len(), d.rows)
	}
	cols := make([]*Column, len(d.cols))
	copy(cols, d.cols)
	cols[i] = c
	index := make(map[string]int, len(d.index))
	for k, v := range d.index {
		index[k] = v
	}
	return &Dataset{Name: d.Name, cols: cols, index: index, rows: d.rows}, nil
}
