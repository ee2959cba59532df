// Package jsonwire persists trees as JSON. JSON has no native tags, so Tagged
// nodes become a two-key envelope: {"$tag": "TAG-VERSION", "$value": ...}.
// Numbers decode as json.Number to avoid precision loss.
package jsonwire

import (
	"bytes"

	json "github.com/goccy/go-json"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/i18n"
)

const (
	tagKey   = "$tag"
	valueKey = "$value"
)

// Marshal renders a tree as JSON.
func Marshal(node any) ([]byte, error) {
	plain, err := lower(node)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(plain)
	if err != nil {
		return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeParseError,
			Message: i18n.T(tagtree.CodeParseError, nil), Cause: err}}
	}
	return b, nil
}

// Unmarshal parses JSON back into a tree, raising $tag envelopes to Tagged.
func Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeParseError,
			Message: i18n.T(tagtree.CodeParseError, nil), Cause: err}}
	}
	return raise(v)
}

func lower(v any) (any, error) {
	switch t := v.(type) {
	case tagtree.Tagged:
		inner, err := lower(t.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{tagKey: t.Ref(), valueKey: inner}, nil
	case map[string]any:
		if _, ok := t[tagKey]; ok {
			// a plain mapping using the reserved key would be misread on decode
			return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeUnencodableValue,
				Message: i18n.T(tagtree.CodeUnencodableValue, map[string]string{"key": tagKey}),
				Hint:    tagKey + " is reserved for tagged nodes"}}
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			le, err := lower(e)
			if err != nil {
				return nil, err
			}
			out[k] = le
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			le, err := lower(e)
			if err != nil {
				return nil, err
			}
			out[i] = le
		}
		return out, nil
	}
	return v, nil
}

func raise(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if rawRef, ok := t[tagKey]; ok {
			ref, ok := rawRef.(string)
			if !ok {
				return nil, malformed(tagKey + " must be a string")
			}
			if len(t) != 2 {
				return nil, malformed("tagged envelope must have exactly " + tagKey + " and " + valueKey)
			}
			inner, ok := t[valueKey]
			if !ok {
				return nil, malformed("tagged envelope missing " + valueKey)
			}
			name, version, err := tagtree.ParseRef(ref)
			if err != nil {
				return nil, err
			}
			rv, err := raise(inner)
			if err != nil {
				return nil, err
			}
			return tagtree.Tagged{Tag: name, Version: version, Value: rv}, nil
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			re, err := raise(e)
			if err != nil {
				return nil, err
			}
			out[k] = re
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			re, err := raise(e)
			if err != nil {
				return nil, err
			}
			out[i] = re
		}
		return out, nil
	}
	return v, nil
}

func malformed(hint string) error {
	return tagtree.Issues{{Path: "/", Code: tagtree.CodeMalformedInput,
		Message: i18n.T(tagtree.CodeMalformedInput, nil), Hint: hint}}
}
