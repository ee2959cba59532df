package unit

import (
	"encoding/json"
	"fmt"
)

// Quantity pairs a numeric magnitude with a physical unit. Units are opaque
// strings at this layer; dimensional analysis belongs to the consumers of the
// reconstructed objects.
type Quantity struct {
	Value float64
	Unit  string
}

// Q is shorthand for constructing a Quantity.
func Q(value float64, unit string) Quantity { return Quantity{Value: value, Unit: unit} }

// Equal reports exact magnitude and unit equality.
func (q Quantity) Equal(o Quantity) bool { return q.Value == o.Value && q.Unit == o.Unit }

func (q Quantity) String() string { return fmt.Sprintf("%g %s", q.Value, q.Unit) }

// asNumber widens the numeric kinds the wire drivers produce to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
