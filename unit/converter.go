package unit

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/i18n"
)

const (
	// QuantityTag identifies the quantity encoding on the wire.
	QuantityTag = "unit/quantity"
	// EquivalencyTag identifies the equivalency encoding on the wire.
	EquivalencyTag = "unit/equivalency"
	// SchemaVersion is carried alongside both tags so future incompatible
	// encodings can coexist.
	SchemaVersion = "1.0.0"
)

// Register installs the unit converters into the registry. Call once at
// process start.
func Register(r *tagtree.Registry) error {
	if err := r.Register(quantityConverter{}); err != nil {
		return err
	}
	return r.Register(equivalencyConverter{})
}

// ---- unit/quantity ----

type quantityConverter struct{}

func (quantityConverter) Tag() string     { return QuantityTag }
func (quantityConverter) Version() string { return SchemaVersion }
func (quantityConverter) Types() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(Quantity{})}
}

func (quantityConverter) Encode(ctx context.Context, v any, c *tagtree.Codec) (any, error) {
	q, ok := v.(Quantity)
	if !ok {
		return nil, invalidType(v, "Quantity")
	}
	return map[string]any{"value": q.Value, "unit": q.Unit}, nil
}

func (quantityConverter) Decode(ctx context.Context, node any, c *tagtree.Codec) (any, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, malformed("/", "quantity node must be a mapping")
	}
	raw, ok := m["value"]
	if !ok {
		return nil, malformed("/value", "missing required key value")
	}
	val, ok := asNumber(raw)
	if !ok {
		return nil, malformed("/value", "value must be a number")
	}
	u, ok := m["unit"].(string)
	if !ok {
		return nil, malformed("/unit", "unit must be a string")
	}
	return Quantity{Value: val, Unit: u}, nil
}

// ---- unit/equivalency ----

type equivalencyConverter struct{}

func (equivalencyConverter) Tag() string     { return EquivalencyTag }
func (equivalencyConverter) Version() string { return SchemaVersion }
func (equivalencyConverter) Types() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(Equivalency{})}
}

func (equivalencyConverter) Encode(ctx context.Context, v any, c *tagtree.Codec) (any, error) {
	eq, ok := v.(Equivalency)
	if !ok {
		return nil, invalidType(v, "Equivalency")
	}
	steps := eq.Steps()
	if len(steps) == 0 {
		return nil, tagtree.Issues{{Path: "/", Code: tagtree.CodeInvalidType,
			Message: i18n.T(tagtree.CodeInvalidType, nil),
			Hint:    "equivalency must have at least one step"}}
	}
	eqs := make([]any, 0, len(steps))
	for i, st := range steps {
		args := make([]any, len(st.Args))
		for j, a := range st.Args {
			ev, err := c.Encode(ctx, a)
			if err != nil {
				return nil, repath(err, stepPath(i, "args", j))
			}
			args[j] = ev
		}
		names := make([]any, len(st.Kwargs))
		values := make([]any, len(st.Kwargs))
		for j, kv := range st.Kwargs {
			names[j] = kv.Key
			ev, err := c.Encode(ctx, kv.Value)
			if err != nil {
				return nil, repath(err, stepPath(i, "kwargs_values", j))
			}
			values[j] = ev
		}
		eqs = append(eqs, map[string]any{
			"name":          st.Name,
			"args":          args,
			"kwargs_names":  names,
			"kwargs_values": values,
		})
	}
	return map[string]any{"equivalencies": eqs}, nil
}

func (equivalencyConverter) Decode(ctx context.Context, node any, c *tagtree.Codec) (any, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, malformed("/", "equivalency node must be a mapping")
	}
	rawList, ok := m["equivalencies"]
	if !ok {
		return nil, malformed("/equivalencies", "missing required key equivalencies")
	}
	list, ok := rawList.([]any)
	if !ok {
		return nil, malformed("/equivalencies", "equivalencies must be a sequence")
	}
	if len(list) == 0 {
		return nil, malformed("/equivalencies", "equivalency must have at least one step")
	}

	var chain Equivalency
	for i, el := range list {
		sm, ok := el.(map[string]any)
		if !ok {
			return nil, malformed(stepRoot(i), "step must be a mapping")
		}
		name, ok := sm["name"].(string)
		if !ok {
			return nil, malformed(stepRoot(i)+"/name", "name must be a string")
		}
		rawArgs, err := requiredKey(sm, "args", stepRoot(i))
		if err != nil {
			return nil, err
		}
		args, err := decodeSeq(ctx, c, rawArgs, stepRoot(i)+"/args")
		if err != nil {
			return nil, err
		}
		rawNames, err := requiredKey(sm, "kwargs_names", stepRoot(i))
		if err != nil {
			return nil, err
		}
		namesRaw, err := plainSeq(rawNames, stepRoot(i)+"/kwargs_names")
		if err != nil {
			return nil, err
		}
		rawValues, err := requiredKey(sm, "kwargs_values", stepRoot(i))
		if err != nil {
			return nil, err
		}
		values, err := decodeSeq(ctx, c, rawValues, stepRoot(i)+"/kwargs_values")
		if err != nil {
			return nil, err
		}
		if len(namesRaw) != len(values) {
			return nil, tagtree.Issues{{Path: stepRoot(i), Code: tagtree.CodeMalformedInput,
				Message: i18n.T(tagtree.CodeMalformedInput, map[string]string{"name": name}),
				Hint:    "kwargs_names and kwargs_values differ in length",
				Params:  map[string]any{"names": len(namesRaw), "values": len(values)}}}
		}
		kwargs := make([]KV, len(namesRaw))
		for j, nr := range namesRaw {
			key, ok := nr.(string)
			if !ok {
				return nil, malformed(stepRoot(i)+"/kwargs_names/"+strconv.Itoa(j), "kwarg name must be a string")
			}
			kwargs[j] = KV{Key: key, Value: values[j]}
		}
		st, err := Construct(name, args, kwargs)
		if err != nil {
			return nil, repath(err, stepRoot(i))
		}
		if i == 0 {
			chain = st
		} else {
			chain = Chain(chain, st)
		}
	}
	return chain, nil
}

// decodeSeq decodes one args/kwargs_values sequence; each element is routed
// back through the codec so nested tagged quantities are reconstructed.
func decodeSeq(ctx context.Context, c *tagtree.Codec, raw any, path string) ([]any, error) {
	list, err := plainSeq(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(list))
	for i, el := range list {
		dv, err := c.Decode(ctx, el)
		if err != nil {
			return nil, repath(err, path+"/"+strconv.Itoa(i))
		}
		out[i] = dv
	}
	return out, nil
}

// requiredKey enforces step-map shape: every step carries exactly the four
// keys, so an absent one is malformed input, not an empty sequence.
func requiredKey(sm map[string]any, key, base string) (any, error) {
	raw, ok := sm[key]
	if !ok {
		return nil, malformed(base+"/"+key, "missing required key "+key)
	}
	return raw, nil
}

func plainSeq(raw any, path string) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, malformed(path, "expected a sequence")
	}
	return list, nil
}

func stepRoot(i int) string { return "/equivalencies/" + strconv.Itoa(i) }

func stepPath(i int, field string, j int) string {
	return stepRoot(i) + "/" + field + "/" + strconv.Itoa(j)
}

func invalidType(v any, want string) error {
	tn := fmt.Sprintf("%T", v)
	return tagtree.Issues{{Path: "/", Code: tagtree.CodeInvalidType,
		Message: i18n.T(tagtree.CodeInvalidType, map[string]string{"type": tn}),
		Hint:    "expected " + want,
		Params:  map[string]any{"type": tn}}}
}

func malformed(path, hint string) error {
	return tagtree.Issues{{Path: path, Code: tagtree.CodeMalformedInput,
		Message: i18n.T(tagtree.CodeMalformedInput, nil),
		Hint:    hint}}
}

// repath rewrites root-relative issue paths onto the enclosing step so errors
// point into the full document.
func repath(err error, base string) error {
	iss, ok := tagtree.AsIssues(err)
	if !ok {
		return err
	}
	out := make(tagtree.Issues, len(iss))
	copy(out, iss)
	for i := range out {
		switch out[i].Path {
		case "", "/":
			out[i].Path = base
		default:
			if out[i].Path[0] == '/' {
				out[i].Path = base + out[i].Path
			}
		}
	}
	return out
}
