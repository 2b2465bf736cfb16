// Package yaml provides an order-preserving YAML codec for nest.
package yaml

import (
	"fmt"
	"math"
	"strconv"

	"github.com/zoobzio/nest"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements nest.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec. Objects are written as block mappings in
// insertion order and decoded back into *nest.Object in document order.
func New() nest.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal normalizes v and encodes it as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	m, err := nest.Normalize(v)
	if err != nil {
		return nil, err
	}
	node, err := toNode(m)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	var model any
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		var err error
		model, err = fromNode(doc.Content[0], 0)
		if err != nil {
			return err
		}
	}
	return nest.Populate(model, v)
}

// toNode builds the YAML node tree for a canonical model value.
func toNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(t)), nil
	case float64:
		return number(t), nil
	case string:
		return scalar("!!str", t), nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			n, err := toNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case *nest.Object:
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		t.Range(func(k string, val any) bool {
			var n *yaml.Node
			n, err = toNode(val)
			if err != nil {
				return false
			}
			mapping.Content = append(mapping.Content, scalar("!!str", k), n)
			return true
		})
		if err != nil {
			return nil, err
		}
		return mapping, nil
	}
	return nil, fmt.Errorf("%w: %T is not a model value", nest.ErrUnsupportedValue, v)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// maxSafeInt is the largest magnitude below which every integer is exact.
const maxSafeInt = 1 << 53

// number writes exactly representable integers as YAML integers.
func number(f float64) *yaml.Node {
	if f == 0 {
		return scalar("!!int", "0")
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxSafeInt {
		return scalar("!!int", strconv.FormatFloat(f, 'f', -1, 64))
	}
	return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64))
}

// maxAliasDepth bounds alias expansion so recursive anchors cannot loop.
const maxAliasDepth = 100

// fromNode converts a YAML node into a canonical model value.
func fromNode(n *yaml.Node, depth int) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if depth >= maxAliasDepth {
			return nil, fmt.Errorf("%w: yaml alias nesting exceeds %d", nest.ErrCyclicStructure, maxAliasDepth)
		}
		return fromNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromNode(item, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		obj := nest.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: yaml mapping key at line %d is not a scalar", nest.ErrUnsupportedValue, k.Line)
			}
			v, err := fromNode(n.Content[i+1], depth)
			if err != nil {
				return nil, err
			}
			if k.ShortTag() == "!!merge" {
				if err := merge(obj, v); err != nil {
					return nil, err
				}
				continue
			}
			obj.Set(k.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		return fromScalar(n)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0], depth)
	}
	return nil, fmt.Errorf("%w: yaml node kind %d", nest.ErrUnsupportedValue, n.Kind)
}

// merge applies a "<<" merge value. Keys already present win.
func merge(obj *nest.Object, v any) error {
	switch t := v.(type) {
	case *nest.Object:
		t.Range(func(k string, val any) bool {
			if !obj.Has(k) {
				obj.Set(k, val)
			}
			return true
		})
		return nil
	case []any:
		for _, item := range t {
			if err := merge(obj, item); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: yaml merge value %T is not a mapping", nest.ErrUnsupportedValue, v)
}

func fromScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return nest.Normalize(f)
	}
	return n.Value, nil
}
