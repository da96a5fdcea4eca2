package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/utils"
)

// JSON encodes the insights as indented JSON with keys in pipeline order.
// Undefined coefficients are null.
func JSON(ins *eda.Insights) ([]byte, error) {
	return utils.PrettyJSON(ins)
}

// YAML encodes the insights as block-style YAML, keeping the JSON key order.
func YAML(ins *eda.Insights) ([]byte, error) {
	raw, err := json.Marshal(ins)
	if err != nil {
		return nil, fmt.Errorf("marshal insights: %w", err)
	}
	return yamlFromJSON(raw)
}

// ReformatJSON re-encodes stored insights JSON as indented JSON or YAML.
func ReformatJSON(raw []byte, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("indent json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yamlFromJSON(raw)
	default:
		return nil, fmt.Errorf("stored insights can only be shown as json or yaml, not %s", f)
	}
}

func yamlFromJSON(raw []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	blockStyle(&doc)
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

// blockStyle clears the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
