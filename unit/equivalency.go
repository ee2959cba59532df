package unit

// KV is one keyword argument of a transform step. Kwargs keep an explicit
// order so encoding is stable, but equality treats them as a key set.
type KV struct {
	Key   string
	Value any
}

// Step is one named transform invocation inside an Equivalency.
type Step struct {
	Name   string
	Args   []any
	Kwargs []KV
}

// Equivalency is an ordered chain of unit-conversion steps. Chains are
// order-sensitive: unit conversions do not commute in general. Steps are
// immutable after construction; all instances come from the catalog
// constructors or Chain.
type Equivalency struct {
	steps []Step
}

// Steps returns a copy of the step list.
func (e Equivalency) Steps() []Step {
	out := make([]Step, len(e.steps))
	copy(out, e.steps)
	return out
}

// Len returns the number of steps.
func (e Equivalency) Len() int { return len(e.steps) }

// Chain composes b after a. It is associative and order-preserving; folding a
// step list left-to-right with Chain reproduces the original chain exactly.
func Chain(a, b Equivalency) Equivalency {
	steps := make([]Step, 0, len(a.steps)+len(b.steps))
	steps = append(steps, a.steps...)
	steps = append(steps, b.steps...)
	return Equivalency{steps: steps}
}

// Equal reports behavioral equality: same steps in the same order, with each
// step matching by name, positional args, and kwargs (kwargs compared as a
// key set, order-insensitive).
func (e Equivalency) Equal(o Equivalency) bool {
	if len(e.steps) != len(o.steps) {
		return false
	}
	for i := range e.steps {
		if !stepEqual(e.steps[i], o.steps[i]) {
			return false
		}
	}
	return true
}

func stepEqual(a, b Step) bool {
	if a.Name != b.Name || len(a.Args) != len(b.Args) || len(a.Kwargs) != len(b.Kwargs) {
		return false
	}
	for i := range a.Args {
		if !valueEqual(a.Args[i], b.Args[i]) {
			return false
		}
	}
	for _, kv := range a.Kwargs {
		ov, ok := kwargValue(b.Kwargs, kv.Key)
		if !ok || !valueEqual(kv.Value, ov) {
			return false
		}
	}
	return true
}

func kwargValue(kwargs []KV, key string) (any, bool) {
	for _, kv := range kwargs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// valueEqual compares argument values after constructor normalization:
// quantities by Equal, numbers numerically, containers element-wise.
func valueEqual(a, b any) bool {
	if qa, ok := a.(Quantity); ok {
		qb, ok := b.(Quantity)
		return ok && qa.Equal(qb)
	}
	if fa, ok := asNumber(a); ok {
		fb, ok := asNumber(b)
		return ok && fa == fb
	}
	switch ta := a.(type) {
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !valueEqual(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, v := range ta {
			ov, ok := tb[k]
			if !ok || !valueEqual(v, ov) {
				return false
			}
		}
		return true
	}
	return a == b
}

// normalizeValue widens loose numeric kinds to float64 so values survive any
// wire driver unchanged. Quantities, strings, booleans, and nil pass through;
// containers normalize element-wise.
func normalizeValue(v any) any {
	if _, ok := v.(Quantity); ok {
		return v
	}
	if f, ok := asNumber(v); ok {
		return f
	}
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeValue(e)
		}
		return out
	}
	return v
}

func normalizeArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = normalizeValue(a)
	}
	return out
}

func normalizeKwargs(kwargs []KV) []KV {
	if len(kwargs) == 0 {
		return nil
	}
	out := make([]KV, len(kwargs))
	for i, kv := range kwargs {
		out[i] = KV{Key: kv.Key, Value: normalizeValue(kv.Value)}
	}
	return out
}
