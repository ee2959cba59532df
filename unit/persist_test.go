package unit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/reoring/tagtree/unit"
	"github.com/reoring/tagtree/wire/jsonwire"
	"github.com/reoring/tagtree/wire/yamlwire"
)

// persistence round trips: native -> tree -> bytes -> tree -> native

func TestPersist_YAML(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	in := unit.Chain(unit.DopplerOptical(unit.Q(656.3, "nm")), unit.Spectral())

	node, err := c.Encode(ctx, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := yamlwire.Marshal(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "!unit/equivalency-1.0.0") {
		t.Fatalf("missing document tag:\n%s", data)
	}

	node2, err := yamlwire.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, err := c.Decode(ctx, node2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !v.(unit.Equivalency).Equal(in) {
		t.Fatalf("yaml persistence changed the equivalency")
	}
}

func TestPersist_JSON(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	in := unit.Chain(unit.BrightnessTemperatureBeam(unit.Q(230, "GHz"), unit.Q(1e-4, "sr")), unit.MassEnergy())

	node, err := c.Encode(ctx, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := jsonwire.Marshal(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	node2, err := jsonwire.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, err := c.Decode(ctx, node2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !v.(unit.Equivalency).Equal(in) {
		t.Fatalf("json persistence changed the equivalency")
	}
}

func TestPersist_CrossFormat(t *testing.T) {
	ctx := context.Background()
	c := newCodec(t)
	in := unit.Chain(unit.PixelScale(unit.Q(0.05, "arcsec/pixel")), unit.Parallax())

	node, err := c.Encode(ctx, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ydata, err := yamlwire.Marshal(node)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	ynode, err := yamlwire.Unmarshal(ydata)
	if err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	jdata, err := jsonwire.Marshal(ynode)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	jnode, err := jsonwire.Unmarshal(jdata)
	if err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	v, err := c.Decode(ctx, jnode)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !v.(unit.Equivalency).Equal(in) {
		t.Fatalf("cross-format persistence changed the equivalency")
	}
}
