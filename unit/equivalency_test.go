package unit_test

import (
	"context"
	"reflect"
	"testing"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/unit"
)

func newCodec(t *testing.T) *tagtree.Codec {
	t.Helper()
	r := tagtree.NewRegistry()
	if err := unit.Register(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	return tagtree.NewCodec(r)
}

func roundTrip(t *testing.T, c *tagtree.Codec, e unit.Equivalency) unit.Equivalency {
	t.Helper()
	ctx := context.Background()
	node, err := c.Encode(ctx, e)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v, err := c.Decode(ctx, node)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, ok := v.(unit.Equivalency)
	if !ok {
		t.Fatalf("decode produced %T", v)
	}
	return out
}

func TestEquivalency_RoundTrip(t *testing.T) {
	c := newCodec(t)
	cases := []unit.Equivalency{
		unit.MassEnergy(),
		unit.Chain(unit.MassEnergy(), unit.Spectral()),
		unit.Chain(unit.Chain(unit.Parallax(), unit.Temperature()), unit.DopplerRadio(unit.Q(1420.406, "MHz"))),
		unit.BrightnessTemperatureBeam(unit.Q(230, "GHz"), unit.Q(0.0001, "sr")),
	}
	for _, e := range cases {
		got := roundTrip(t, c, e)
		if !got.Equal(e) {
			t.Fatalf("round trip not equal:\n in=%#v\nout=%#v", e.Steps(), got.Steps())
		}
	}
}

func TestEquivalency_OrderIsPreserved(t *testing.T) {
	c := newCodec(t)
	ab := unit.Chain(unit.MassEnergy(), unit.Spectral())
	ba := unit.Chain(unit.Spectral(), unit.MassEnergy())
	if ab.Equal(ba) {
		t.Fatalf("chains with swapped steps must not be equal")
	}
	if !roundTrip(t, c, ab).Equal(ab) {
		t.Fatalf("ab round trip changed order")
	}
	if !roundTrip(t, c, ba).Equal(ba) {
		t.Fatalf("ba round trip changed order")
	}
	if roundTrip(t, c, ab).Equal(ba) {
		t.Fatalf("round trip of ab decoded equal to ba")
	}
}

func TestEquivalency_QuantityArgIsNestedTaggedNode(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	rest := unit.Q(1000, "MHz")
	node, err := c.Encode(ctx, unit.DopplerRadio(rest))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	tg := node.(tagtree.Tagged)
	if tg.Tag != unit.EquivalencyTag || tg.Version != unit.SchemaVersion {
		t.Fatalf("unexpected top tag %s-%s", tg.Tag, tg.Version)
	}
	steps := tg.Value.(map[string]any)["equivalencies"].([]any)
	arg := steps[0].(map[string]any)["args"].([]any)[0]
	qn, ok := arg.(tagtree.Tagged)
	if !ok {
		t.Fatalf("quantity arg must be a nested tagged node, got %T", arg)
	}
	if qn.Tag != unit.QuantityTag {
		t.Fatalf("unexpected quantity tag %q", qn.Tag)
	}

	v, err := c.Decode(ctx, node)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := v.(unit.Equivalency).Steps()[0].Args[0].(unit.Quantity)
	if !got.Equal(rest) {
		t.Fatalf("quantity round trip: got %v want %v", got, rest)
	}
}

func TestEquivalency_UnknownTransformName(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	node := tagtree.Tagged{Tag: unit.EquivalencyTag, Version: unit.SchemaVersion, Value: map[string]any{
		"equivalencies": []any{map[string]any{
			"name":          "not_a_real_transform",
			"args":          []any{},
			"kwargs_names":  []any{},
			"kwargs_values": []any{},
		}},
	}}
	_, err := c.Decode(ctx, node)
	iss, ok := tagtree.AsIssues(err)
	if !ok || iss[0].Code != tagtree.CodeUnknownTransform {
		t.Fatalf("expected unknown_transform, got %v", err)
	}
}

func TestEquivalency_KwargsLengthMismatch(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	node := tagtree.Tagged{Tag: unit.EquivalencyTag, Version: unit.SchemaVersion, Value: map[string]any{
		"equivalencies": []any{map[string]any{
			"name":          "mass_energy",
			"args":          []any{},
			"kwargs_names":  []any{"beam_area"},
			"kwargs_values": []any{},
		}},
	}}
	_, err := c.Decode(ctx, node)
	iss, ok := tagtree.AsIssues(err)
	if !ok || iss[0].Code != tagtree.CodeMalformedInput {
		t.Fatalf("expected malformed_input, got %v", err)
	}
}

func TestEquivalency_MissingEquivalenciesKey(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	node := tagtree.Tagged{Tag: unit.EquivalencyTag, Version: unit.SchemaVersion, Value: map[string]any{}}
	_, err := c.Decode(ctx, node)
	iss, ok := tagtree.AsIssues(err)
	if !ok || iss[0].Code != tagtree.CodeMalformedInput {
		t.Fatalf("expected malformed_input, got %v", err)
	}
}

func TestEquivalency_MissingStepKeysRejected(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	full := map[string]any{
		"name":          "mass_energy",
		"args":          []any{},
		"kwargs_names":  []any{},
		"kwargs_values": []any{},
	}
	// each step map must carry exactly the four keys; dropping any one of
	// them is malformed input, never an empty default
	for drop := range full {
		step := map[string]any{}
		for k, v := range full {
			if k != drop {
				step[k] = v
			}
		}
		node := tagtree.Tagged{Tag: unit.EquivalencyTag, Version: unit.SchemaVersion, Value: map[string]any{
			"equivalencies": []any{step},
		}}
		_, err := c.Decode(ctx, node)
		iss, ok := tagtree.AsIssues(err)
		if !ok || iss[0].Code != tagtree.CodeMalformedInput {
			t.Fatalf("step without %q: expected malformed_input, got %v", drop, err)
		}
	}
}

func TestEquivalency_ZeroStepsRejected(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	node := tagtree.Tagged{Tag: unit.EquivalencyTag, Version: unit.SchemaVersion, Value: map[string]any{
		"equivalencies": []any{},
	}}
	_, err := c.Decode(ctx, node)
	iss, ok := tagtree.AsIssues(err)
	if !ok || iss[0].Code != tagtree.CodeMalformedInput {
		t.Fatalf("expected malformed_input, got %v", err)
	}

	var empty unit.Equivalency
	_, err = c.Encode(ctx, empty)
	iss, ok = tagtree.AsIssues(err)
	if !ok || iss[0].Code != tagtree.CodeInvalidType {
		t.Fatalf("expected invalid_type on empty encode, got %v", err)
	}
}

func TestEquivalency_SingleStepIdentity(t *testing.T) {
	c := newCodec(t)
	got := roundTrip(t, c, unit.Spectral())
	if got.Len() != 1 {
		t.Fatalf("single step gained wrapping: %d steps", got.Len())
	}
	if !got.Equal(unit.Spectral()) {
		t.Fatalf("single step round trip differs from direct constructor")
	}
}

func TestEquivalency_ConcreteTreeShape(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	node, err := c.Encode(ctx, unit.Chain(unit.MassEnergy(), unit.Spectral()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := map[string]any{
		"equivalencies": []any{
			map[string]any{"name": "mass_energy", "args": []any{}, "kwargs_names": []any{}, "kwargs_values": []any{}},
			map[string]any{"name": "spectral", "args": []any{}, "kwargs_names": []any{}, "kwargs_values": []any{}},
		},
	}
	got := node.(tagtree.Tagged)
	if got.Tag != unit.EquivalencyTag || got.Version != unit.SchemaVersion {
		t.Fatalf("unexpected tag %s-%s", got.Tag, got.Version)
	}
	if !reflect.DeepEqual(got.Value, want) {
		t.Fatalf("tree shape mismatch:\n got=%#v\nwant=%#v", got.Value, want)
	}

	back, err := c.Decode(ctx, node)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.(unit.Equivalency).Equal(unit.Chain(unit.MassEnergy(), unit.Spectral())) {
		t.Fatalf("decoded tree differs from chained constructors")
	}
}

func TestChain_Associativity(t *testing.T) {
	a, b, c := unit.Parallax(), unit.Spectral(), unit.MassEnergy()
	left := unit.Chain(unit.Chain(a, b), c)
	right := unit.Chain(a, unit.Chain(b, c))
	if !left.Equal(right) {
		t.Fatalf("chain must be associative")
	}
}
