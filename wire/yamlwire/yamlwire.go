// Package yamlwire persists trees as YAML. Tagged nodes map to native local
// YAML tags in the form !TAG-VERSION, so documents stay readable and
// self-describing without reserved keys.
package yamlwire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/i18n"
)

// Marshal renders a tree as a YAML document.
func Marshal(node any) ([]byte, error) {
	n, err := buildNode(node)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeParseError,
			Message: i18n.T(tagtree.CodeParseError, nil), Cause: err}}
	}
	if err := enc.Close(); err != nil {
		return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeParseError,
			Message: i18n.T(tagtree.CodeParseError, nil), Cause: err}}
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a YAML document back into a tree. Nodes carrying a local
// tag become Tagged values.
func Unmarshal(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeParseError,
			Message: i18n.T(tagtree.CodeParseError, nil), Cause: err}}
	}
	if root.Kind == 0 {
		return nil, nil // empty document
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		return walk(root.Content[0])
	}
	return walk(&root)
}

func buildNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case tagtree.Tagged:
		child, err := buildNode(t.Value)
		if err != nil {
			return nil, err
		}
		child.Tag = "!" + t.Ref()
		return child, nil
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vn, err := buildNode(t[k])
			if err != nil {
				return nil, err
			}
			kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			n.Content = append(n.Content, kn, vn)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			en, err := buildNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return scalarNode(i)
		}
		f, err := t.Float64()
		if err != nil {
			return nil, unencodable(t)
		}
		return scalarNode(f)
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool, string, int, int32, int64, float32, float64:
		return scalarNode(t)
	}
	return nil, unencodable(v)
}

func scalarNode(v any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, unencodable(v)
	}
	if n.Kind != yaml.ScalarNode {
		return nil, unencodable(v)
	}
	return n, nil
}

func walk(n *yaml.Node) (any, error) {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if tag, ok := localTag(n.Tag); ok {
		name, version, err := tagtree.ParseRef(tag)
		if err != nil {
			return nil, err
		}
		v, err := walkPlain(n)
		if err != nil {
			return nil, err
		}
		return tagtree.Tagged{Tag: name, Version: version, Value: v}, nil
	}
	return walkPlain(n)
}

func walkPlain(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, malformed(kn, "mapping keys must be scalars")
			}
			v, err := walk(vn)
			if err != nil {
				return nil, err
			}
			out[kn.Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, en := range n.Content {
			v, err := walk(en)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil, malformed(n, "unsupported YAML node kind")
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, malformed(n, "invalid boolean")
		}
		return b, nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, malformed(n, "invalid integer")
		}
		return i, nil
	case "!!float":
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf":
			return math.Inf(1), nil
		case "-.inf":
			return math.Inf(-1), nil
		case ".nan":
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, malformed(n, "invalid float")
		}
		return f, nil
	default:
		return n.Value, nil
	}
}

// localTag reports whether the node carries a local (single-!) tag and strips
// the marker. Standard !!-tags resolve structurally.
func localTag(tag string) (string, bool) {
	if strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") && len(tag) > 1 {
		return strings.TrimPrefix(tag, "!"), true
	}
	return "", false
}

func malformed(n *yaml.Node, hint string) error {
	return tagtree.Issues{{Path: "/", Code: tagtree.CodeMalformedInput,
		Message: i18n.T(tagtree.CodeMalformedInput, nil),
		Hint:    fmt.Sprintf("%s (line %d)", hint, n.Line)}}
}

func unencodable(v any) error {
	tn := fmt.Sprintf("%T", v)
	return tagtree.Issues{{Path: "/", Code: tagtree.CodeUnencodableValue,
		Message: i18n.T(tagtree.CodeUnencodableValue, map[string]string{"type": tn}),
		Params:  map[string]any{"type": tn}}}
}
