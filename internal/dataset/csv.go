package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls how delimited and spreadsheet files are ingested.
type LoadOptions struct {
	// Delimiter for CSV. If 0, sniffed from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, values are parsed as
	// plain Go floats ('.' decimal, no grouping).
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// nullTokens are cell values read as missing.
var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

// IsNullToken reports whether a raw cell is treated as missing.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// LoadFile reads a dataset, choosing the reader by extension.
func LoadFile(path string, opt LoadOptions) (*Dataset, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ReadXLSX(path, opt)
	}
	return ReadCSV(path, opt)
}

// ReadCSV loads a delimited text file with a header row.
func ReadCSV(path string, opt LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %s is empty", filepath.Base(path))
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return FromRecords(filepath.Base(path), header, rows, opt)
}

// FromRecords builds a typed dataset from a header and raw string rows.
// Short rows are padded with nulls; extra cells are dropped. A column is
// Numeric when every non-null cell parses as a number.
func FromRecords(name string, header []string, rows [][]string, opt LoadOptions) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no columns in %s", name)
	}
	cols := make([]*Column, 0, len(header))
	seen := map[string]int{}
	for j, h := range header {
		colName := strings.TrimSpace(h)
		if colName == "" {
			colName = fmt.Sprintf("Unnamed: %d", j)
		}
		if n, dup := seen[colName]; dup {
			seen[colName] = n + 1
			colName = fmt.Sprintf("%s.%d", colName, n)
		} else {
			seen[colName] = 1
		}

		raw := make([]string, len(rows))
		null := make([]bool, len(rows))
		nums := make([]float64, len(rows))
		numeric := true
		for i, rec := range rows {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[i] = v
			if IsNullToken(v) {
				null[i] = true
				nums[i] = math.NaN()
				continue
			}
			if !numeric {
				continue
			}
			x, ok := parseNumeric(v, opt)
			if !ok {
				numeric = false
				continue
			}
			nums[i] = x
		}
		if numeric {
			cols = append(cols, NewNumeric(colName, nums))
		} else {
			cols = append(cols, NewCategorical(colName, raw, null))
		}
	}
	return New(name, cols...)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tab") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	dec := opt.DecimalSeparator
	if dec != 0 {
		thou := opt.ThousandsSeparator
		if thou != 0 && thou != dec {
			raw = strings.ReplaceAll(raw, string(thou), "")
		}
		if dec != '.' {
			raw = strings.ReplaceAll(raw, string(dec), ".")
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FormatFloat renders a value with the shortest representation that
// round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
