package unit_test

import (
	"testing"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/unit"
)

func TestConstruct_KnownNames(t *testing.T) {
	e, err := unit.Construct("mass_energy", nil, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if !e.Equal(unit.MassEnergy()) {
		t.Fatalf("construct differs from typed constructor")
	}

	e, err = unit.Construct("doppler_radio", []any{unit.Q(1420, "MHz")}, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if !e.Equal(unit.DopplerRadio(unit.Q(1420, "MHz"))) {
		t.Fatalf("construct differs from typed constructor")
	}
}

func TestConstruct_UnknownName(t *testing.T) {
	_, err := unit.Construct("grating_equation", nil, nil)
	iss, ok := tagtree.AsIssues(err)
	if !ok || iss[0].Code != tagtree.CodeUnknownTransform {
		t.Fatalf("expected unknown_transform, got %v", err)
	}
}

func TestConstruct_ArityErrors(t *testing.T) {
	cases := []struct {
		name   string
		args   []any
		kwargs []unit.KV
	}{
		{"mass_energy", []any{1.0}, nil},
		{"doppler_radio", nil, nil},
		{"doppler_radio", []any{"not a quantity"}, nil},
		{"brightness_temperature", []any{unit.Q(1, "GHz")}, []unit.KV{{Key: "bogus", Value: 1.0}}},
		{"brightness_temperature", []any{unit.Q(1, "GHz")}, []unit.KV{{Key: "beam_area", Value: "sr"}}},
	}
	for _, tc := range cases {
		_, err := unit.Construct(tc.name, tc.args, tc.kwargs)
		iss, ok := tagtree.AsIssues(err)
		if !ok || iss[0].Code != tagtree.CodeMalformedInput {
			t.Fatalf("%s: expected malformed_input, got %v", tc.name, err)
		}
	}
}

func TestNames_SortedAndComplete(t *testing.T) {
	names := unit.Names()
	if len(names) == 0 {
		t.Fatalf("empty catalog")
	}
	seen := map[string]bool{}
	for i, n := range names {
		if i > 0 && names[i-1] >= n {
			t.Fatalf("names not sorted: %q >= %q", names[i-1], n)
		}
		seen[n] = true
	}
	for _, want := range []string{"mass_energy", "spectral", "parallax", "doppler_radio", "brightness_temperature"} {
		if !seen[want] {
			t.Fatalf("catalog missing %q", want)
		}
	}
}

func TestQuantity_EqualAndString(t *testing.T) {
	a := unit.Q(3, "km")
	if !a.Equal(unit.Q(3, "km")) {
		t.Fatalf("equal quantities reported unequal")
	}
	if a.Equal(unit.Q(3, "m")) || a.Equal(unit.Q(4, "km")) {
		t.Fatalf("unequal quantities reported equal")
	}
	if a.String() != "3 km" {
		t.Fatalf("string: %q", a.String())
	}
}
