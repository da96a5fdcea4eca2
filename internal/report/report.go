// Package report renders pipeline insights for terminals, Markdown documents
// and machine consumers.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/smarteda-cli/internal/eda"
)

// Format names an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name. "md" and "yml" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (use text|markdown|json|yaml)", s)
	}
}

// Render writes ins to w in the requested format.
func Render(w io.Writer, f Format, ins *eda.Insights) error {
	var (
		b   []byte
		err error
	)
	switch f {
	case FormatText, "":
		return Text(w, ins)
	case FormatMarkdown:
		b = []byte(Markdown(ins))
	case FormatJSON:
		b, err = JSON(ins)
	case FormatYAML:
		b, err = YAML(ins)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
	if err != nil {
		return err
	}
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	_, err = w.Write(b)
	return err
}

// Extension returns the conventional file extension for f.
func Extension(f Format) string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func safeVal(s string) string {
	if s == "" {
		return `""`
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
