package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/KaramelBytes/smarteda-cli/internal/utils"
)

// EncodeCSV serializes the dataset with a header row and no index column.
// Nulls are written as empty cells.
func EncodeCSV(d *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(d.Names()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(d.cols))
	for i := 0; i < d.rows; i++ {
		for j, c := range d.cols {
			v, _ := c.Text(i)
			rec[j] = v
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV writes the dataset to path atomically.
func WriteCSV(d *Dataset, path string) error {
	b, err := EncodeCSV(d)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
