package tagtree

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/reoring/tagtree/i18n"
	"github.com/reoring/tagtree/internal/guard"
)

// DefaultMaxDepth bounds structural recursion when no explicit limit is set.
const DefaultMaxDepth = 64

// CodecOpt controls codec behavior.
type CodecOpt struct {
	// MaxDepth bounds nesting of containers and tagged delegation. Zero means
	// DefaultMaxDepth; negative disables the guard.
	MaxDepth int
}

// Codec recursively converts native values to primitive trees and back,
// delegating to the registry for any value whose type is registered. Encode
// and Decode are all-or-nothing per top-level value; no partial results are
// returned.
type Codec struct {
	reg      *Registry
	maxDepth int
}

// NewCodec returns a codec over the given registry. The last option wins,
// mirroring variadic option handling elsewhere in this module.
func NewCodec(reg *Registry, opts ...CodecOpt) *Codec {
	var opt CodecOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	md := opt.MaxDepth
	if md == 0 {
		md = DefaultMaxDepth
	}
	if md < 0 {
		md = 0
	}
	return &Codec{reg: reg, maxDepth: md}
}

// Registry exposes the registry backing this codec so converters can perform
// their own lookups when needed.
func (c *Codec) Registry() *Registry { return c.reg }

// Encode converts a native value into a tree of primitives. Values of
// registered types become Tagged nodes; primitives pass through; generic
// sequences and string-keyed mappings encode element-wise. Anything else
// fails with unencodable_value.
func (c *Codec) Encode(ctx context.Context, v any) (any, error) {
	return c.encode(ctx, v, "/")
}

func (c *Codec) encode(ctx context.Context, v any, path string) (any, error) {
	switch v.(type) {
	case nil, bool, string, int, int32, int64, float32, float64, json.Number:
		return v, nil
	case Tagged:
		// already in wire form; pass through untouched
		return v, nil
	}
	if conv, ok := c.reg.convFor(v); ok {
		ctx2, err := guard.Descend(ctx, c.maxDepth)
		if err != nil {
			return nil, maxDepthIssue(path)
		}
		sub, err := conv.Encode(ctx2, v, c)
		if err != nil {
			return nil, toIssues(err, path, CodeParseError)
		}
		return Tagged{Tag: conv.Tag(), Version: conv.Version(), Value: sub}, nil
	}
	switch t := v.(type) {
	case map[string]any:
		ctx2, err := guard.Descend(ctx, c.maxDepth)
		if err != nil {
			return nil, maxDepthIssue(path)
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			ev, err := c.encode(ctx2, e, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	case []any:
		ctx2, err := guard.Descend(ctx, c.maxDepth)
		if err != nil {
			return nil, maxDepthIssue(path)
		}
		out := make([]any, len(t))
		for i, e := range t {
			ev, err := c.encode(ctx2, e, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	}
	// generic sequences and string-keyed mappings of other static types
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		ctx2, err := guard.Descend(ctx, c.maxDepth)
		if err != nil {
			return nil, maxDepthIssue(path)
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := c.encode(ctx2, rv.Index(i).Interface(), joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			ctx2, err := guard.Descend(ctx, c.maxDepth)
			if err != nil {
				return nil, maxDepthIssue(path)
			}
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				k := iter.Key().String()
				ev, err := c.encode(ctx2, iter.Value().Interface(), joinPath(path, k))
				if err != nil {
					return nil, err
				}
				out[k] = ev
			}
			return out, nil
		}
	}
	tn := fmt.Sprintf("%T", v)
	return nil, Issues{{Path: path, Code: CodeUnencodableValue,
		Message: i18n.T(CodeUnencodableValue, map[string]string{"type": tn}),
		Params:  map[string]any{"type": tn}}}
}

// Decode is the structural inverse of Encode: Tagged nodes delegate to the
// converter registered under their tag, containers decode element-wise, and
// scalars pass through. Trees come from untrusted persisted data, so the walk
// is depth-guarded.
func (c *Codec) Decode(ctx context.Context, node any) (any, error) {
	return c.decode(ctx, node, "/")
}

func (c *Codec) decode(ctx context.Context, node any, path string) (any, error) {
	switch n := node.(type) {
	case nil, bool, string, int, int32, int64, float32, float64, json.Number:
		return n, nil
	case Tagged:
		conv, err := c.reg.LookupTag(n.Tag, n.Version)
		if err != nil {
			iss, ok := AsIssues(err)
			if !ok {
				return nil, err
			}
			for i := range iss {
				iss[i].Path = path
			}
			return nil, iss
		}
		ctx2, derr := guard.Descend(ctx, c.maxDepth)
		if derr != nil {
			return nil, maxDepthIssue(path)
		}
		v, err := conv.Decode(ctx2, n.Value, c)
		if err != nil {
			return nil, toIssues(err, path, CodeParseError)
		}
		return v, nil
	case map[string]any:
		ctx2, err := guard.Descend(ctx, c.maxDepth)
		if err != nil {
			return nil, maxDepthIssue(path)
		}
		out := make(map[string]any, len(n))
		for k, e := range n {
			dv, err := c.decode(ctx2, e, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return out, nil
	case []any:
		ctx2, err := guard.Descend(ctx, c.maxDepth)
		if err != nil {
			return nil, maxDepthIssue(path)
		}
		out := make([]any, len(n))
		for i, e := range n {
			dv, err := c.decode(ctx2, e, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	}
	tn := fmt.Sprintf("%T", node)
	return nil, Issues{{Path: path, Code: CodeMalformedInput,
		Message: i18n.T(CodeMalformedInput, map[string]string{"type": tn}),
		Hint:    "tree nodes are maps, sequences, scalars, or Tagged",
		Params:  map[string]any{"type": tn}}}
}

func maxDepthIssue(path string) Issues {
	return Issues{{Path: path, Code: CodeMaxDepth, Message: i18n.T(CodeMaxDepth, nil)}}
}
