package fileio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
	"gopkg.in/yaml.v3"
)

// decodeYAML reads a sequence of mappings. Key order of the mappings
// becomes column order.
func decodeYAML(r source, _ codecOptions) (*frame.Frame, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return frame.Empty(), nil
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return frame.Empty(), nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of records", seq.Line)
	}

	rs := newRecords()
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: expected a mapping", item.Line)
		}
		keys := make([]string, 0, len(item.Content)/2)
		values := make([]any, 0, len(item.Content)/2)
		for i := 0; i+1 < len(item.Content); i += 2 {
			var v any
			if err := item.Content[i+1].Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", item.Content[i+1].Line, err)
			}
			v, err := yamlValue(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", item.Content[i+1].Line, err)
			}
			keys = append(keys, item.Content[i].Value)
			values = append(values, v)
		}
		rs.add(keys, values)
	}
	return rs.frame()
}

func yamlValue(v any) (any, error) {
	switch x := v.(type) {
	case string:
		if t, ok := frame.ParseTimestamp(x); ok {
			return t, nil
		}
		return x, nil
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return x, nil
	}
}

func encodeYAML(w io.Writer, f *frame.Frame, _ codecOptions) error {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	names := f.Names()
	for i := range f.Len() {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for j, v := range f.Row(i) {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: names[j]},
				yamlScalar(v))
		}
		root.Content = append(root.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

func yamlScalar(v any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch x := v.(type) {
	case nil:
		n.Tag, n.Value = "!!null", "null"
	case int64:
		n.Tag, n.Value = "!!int", strconv.FormatInt(x, 10)
	case float64:
		n.Tag = "!!float"
		switch {
		case math.IsNaN(x):
			n.Value = ".nan"
		case math.IsInf(x, 1):
			n.Value = ".inf"
		case math.IsInf(x, -1):
			n.Value = "-.inf"
		default:
			n.Value = frame.FormatValue(x)
		}
	case bool:
		n.Tag, n.Value = "!!bool", strconv.FormatBool(x)
	case time.Time:
		n.Tag, n.Value = "!!timestamp", x.Format(time.RFC3339Nano)
	default:
		n.Tag, n.Value = "!!str", frame.FormatValue(x)
	}
	return n
}
