package eda

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/stats"
	"go.uber.org/zap"
)

// DefaultZThreshold is the |z| above which a value counts as an outlier.
const DefaultZThreshold = 3.0

// DetectOutliers counts, for every numeric column (the target included),
// values whose |z-score| exceeds threshold. Columns without outliers are
// omitted. threshold <= 0 selects DefaultZThreshold.
func DetectOutliers(ds *dataset.Dataset, threshold float64) OutlierReport {
	return detectOutliers(ds, threshold, zap.NewNop())
}

func detectOutliers(ds *dataset.Dataset, threshold float64, log *zap.Logger) OutlierReport {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	out := OutlierReport{}
	for _, c := range ds.ColumnsOfKind(dataset.Numeric) {
		n, err := CountOutliers(c.Floats(), threshold)
		if err != nil {
			log.Debug("outlier scan skipped", zap.String("column", c.Name()), zap.Error(err))
			continue
		}
		if n > 0 {
			out = append(out, ColumnCount{Column: c.Name(), Count: n})
		}
	}
	return out
}

// CountOutliers returns how many values lie more than threshold sample
// standard deviations from the mean. Zero-variance input, or fewer than two
// values, yields ErrDegenerateColumn.
func CountOutliers(vals []float64, threshold float64) (int, error) {
	std := stats.StdDev(vals)
	if math.IsNaN(std) || std == 0 {
		return 0, fmt.Errorf("%w (n=%d)", ErrDegenerateColumn, len(vals))
	}
	mean := stats.Mean(vals)
	n := 0
	for _, v := range vals {
		if math.Abs((v-mean)/std) > threshold {
			n++
		}
	}
	return n, nil
}
