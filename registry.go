package tagtree

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/reoring/tagtree/i18n"
)

// Registry maps (tag, version) pairs to converters and supports capability
// dispatch from native values to the converter claiming their type.
// Registration is expected at init time; lookups afterwards take a read lock,
// so concurrent reads are safe.
type Registry struct {
	mu     sync.RWMutex
	byRef  map[string]Converter
	byType map[reflect.Type]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byRef:  map[string]Converter{},
		byType: map[reflect.Type]Converter{},
	}
}

// Register installs a converter. It fails with a duplicate_tag issue when the
// (tag, version) pair is already present, and with duplicate_type_claim when
// another converter already claims one of its native types. Ambiguity is a
// configuration error and is reported here, never at lookup time.
func (r *Registry) Register(c Converter) error {
	if c == nil {
		return Issues{{Path: "/", Code: CodeInvalidType, Message: "nil converter"}}
	}
	ref := Ref(c.Tag(), c.Version())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byRef[ref]; ok {
		return Issues{{Path: "/", Code: CodeDuplicateTag,
			Message: i18n.T(CodeDuplicateTag, map[string]string{"tag": ref}),
			Params:  map[string]any{"tag": c.Tag(), "version": c.Version()}}}
	}
	for _, t := range c.Types() {
		if prev, ok := r.byType[t]; ok {
			return Issues{{Path: "/", Code: CodeDuplicateTypeClaim,
				Message: i18n.T(CodeDuplicateTypeClaim, map[string]string{"type": t.String()}),
				Params:  map[string]any{"type": t.String(), "tag": ref, "claimed_by": Ref(prev.Tag(), prev.Version())}}}
		}
	}
	r.byRef[ref] = c
	for _, t := range c.Types() {
		r.byType[t] = c
	}
	return nil
}

// LookupTag returns the converter registered under (tag, version).
func (r *Registry) LookupTag(tag, version string) (Converter, error) {
	ref := Ref(tag, version)
	r.mu.RLock()
	c, ok := r.byRef[ref]
	r.mu.RUnlock()
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeUnknownTag,
			Message: i18n.T(CodeUnknownTag, map[string]string{"tag": ref}),
			Params:  map[string]any{"tag": tag, "version": version}}}
	}
	return c, nil
}

// LookupType returns the converter whose claimed types contain the dynamic
// type of v.
func (r *Registry) LookupType(v any) (Converter, error) {
	if c, ok := r.convFor(v); ok {
		return c, nil
	}
	tn := fmt.Sprintf("%T", v)
	return nil, Issues{{Path: "/", Code: CodeUnregisteredType,
		Message: i18n.T(CodeUnregisteredType, map[string]string{"type": tn}),
		Params:  map[string]any{"type": tn}}}
}

// convFor is the non-error dispatch used on the codec hot path.
func (r *Registry) convFor(v any) (Converter, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	c, ok := r.byType[t]
	r.mu.RUnlock()
	return c, ok
}

// Entries returns a snapshot of the registered converters for diagnostics.
// Order is unspecified.
func (r *Registry) Entries() []Converter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Converter, 0, len(r.byRef))
	for _, c := range r.byRef {
		out = append(out, c)
	}
	return out
}
