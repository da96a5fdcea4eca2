package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	cfgpkg "github.com/KaramelBytes/smarteda-cli/internal/config"
	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

// loadFlags are the input-parsing flags shared by every command that reads a
// dataset.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
}

func (lf *loadFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from config, else by extension)")
	fs.StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fs.StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (lf *loadFlags) options() (dataset.LoadOptions, error) {
	opt := dataset.LoadOptions{SheetName: lf.sheetName, SheetIndex: lf.sheetIndex}
	delim := lf.delimiter
	if delim == "" && cfg != nil {
		delim = cfg.Delimiter
	}
	d, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, fmt.Errorf("unsupported --delimiter: %w", err)
	}
	opt.Delimiter = d
	switch strings.ToLower(strings.TrimSpace(lf.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", lf.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(lf.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", lf.thousands)
	}
	if opt.ThousandsSeparator != 0 && opt.DecimalSeparator == 0 {
		opt.DecimalSeparator = '.'
		if opt.ThousandsSeparator == '.' {
			opt.DecimalSeparator = ','
		}
	}
	return opt, nil
}

func (lf *loadFlags) load(path string) (*dataset.Dataset, error) {
	opt, err := lf.options()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.LoadFile(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}
