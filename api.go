package tagtree

import (
	"context"
	"reflect"
)

// Converter encodes one native type family into a primitive tree and back.
// Implementations are registered once at process start and never mutated;
// Encode and Decode must be pure functions of their inputs.
type Converter interface {
	// Tag returns the stable identifier carried on encoded nodes.
	Tag() string
	// Version returns the encoding version carried alongside the tag, so
	// future incompatible encodings can coexist.
	Version() string
	// Types lists the native Go types this converter claims. Claims must be
	// disjoint across registered converters; overlap is a registration-time
	// configuration error.
	Types() []reflect.Type
	// Encode converts a claimed value into a tree of primitives. Nested
	// values of other registered types are routed back through the codec.
	Encode(ctx context.Context, v any, c *Codec) (any, error)
	// Decode rebuilds a native value from the tree produced by Encode. Input
	// may come from untrusted persisted data and must be validated.
	Decode(ctx context.Context, node any, c *Codec) (any, error)
}
