package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scalar is a style value that may be written either as a number or as a
// string, e.g. font_weight: 700 or font_weight: "bold", font_size: "40px".
type Scalar string

// UnmarshalYAML accepts any scalar node. Sequences and mappings are
// structural errors and are reported.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or string", node.Line)
	}
	*s = Scalar(strings.TrimSpace(node.Value))
	return nil
}

// UnmarshalJSON accepts a JSON string or number.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number or string, got %s", data)
	}
	*s = Scalar(num.String())
	return nil
}

// Float parses the scalar as a number, ignoring a trailing px or pt unit.
func (s Scalar) Float() (float64, bool) {
	value := strings.ToLower(strings.TrimSpace(string(s)))
	value = strings.TrimSuffix(value, "px")
	value = strings.TrimSuffix(value, "pt")
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
