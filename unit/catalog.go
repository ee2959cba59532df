package unit

import (
	"sort"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/i18n"
)

// The transform catalog maps step names to constructor closures. It is built
// once at init and read-only afterwards; decode resolves names here instead of
// any runtime symbol lookup.

type constructor func(args []any, kwargs []KV) (Equivalency, error)

var catalog = map[string]constructor{
	"dimensionless_angles":   zeroArg("dimensionless_angles"),
	"parallax":               zeroArg("parallax"),
	"spectral":               zeroArg("spectral"),
	"mass_energy":            zeroArg("mass_energy"),
	"temperature":            zeroArg("temperature"),
	"temperature_energy":     zeroArg("temperature_energy"),
	"molar_mass_amu":         zeroArg("molar_mass_amu"),
	"doppler_radio":          oneQuantity("doppler_radio"),
	"doppler_optical":        oneQuantity("doppler_optical"),
	"doppler_relativistic":   oneQuantity("doppler_relativistic"),
	"spectral_density":       oneQuantity("spectral_density"),
	"pixel_scale":            oneQuantity("pixel_scale"),
	"plate_scale":            oneQuantity("plate_scale"),
	"brightness_temperature": brightnessCtor,
}

// Construct resolves name in the transform catalog and invokes the
// constructor with args positionally and kwargs by key. Unrecognized names
// fail with unknown_transform; silently accepting them would corrupt
// downstream unit conversions.
func Construct(name string, args []any, kwargs []KV) (Equivalency, error) {
	ctor, ok := catalog[name]
	if !ok {
		return Equivalency{}, tagtree.Issues{{Path: "/", Code: tagtree.CodeUnknownTransform,
			Message: i18n.T(tagtree.CodeUnknownTransform, map[string]string{"name": name}),
			Params:  map[string]any{"name": name}}}
	}
	return ctor(args, kwargs)
}

// Names lists the known transform names, sorted, for diagnostics.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for n := range catalog {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// step builds a single-step equivalency with normalized arguments.
func step(name string, args []any, kwargs []KV) Equivalency {
	return Equivalency{steps: []Step{{
		Name:   name,
		Args:   normalizeArgs(args),
		Kwargs: normalizeKwargs(kwargs),
	}}}
}

func badArgs(name, hint string) error {
	return tagtree.Issues{{Path: "/", Code: tagtree.CodeMalformedInput,
		Message: i18n.T(tagtree.CodeMalformedInput, map[string]string{"name": name}),
		Hint:    hint,
		Params:  map[string]any{"name": name}}}
}

func zeroArg(name string) constructor {
	return func(args []any, kwargs []KV) (Equivalency, error) {
		if len(args) != 0 || len(kwargs) != 0 {
			return Equivalency{}, badArgs(name, "takes no arguments")
		}
		return step(name, nil, nil), nil
	}
}

func oneQuantity(name string) constructor {
	return func(args []any, kwargs []KV) (Equivalency, error) {
		if len(args) != 1 || len(kwargs) != 0 {
			return Equivalency{}, badArgs(name, "takes exactly one quantity argument")
		}
		q, ok := args[0].(Quantity)
		if !ok {
			return Equivalency{}, badArgs(name, "argument must be a quantity")
		}
		return step(name, []any{q}, nil), nil
	}
}

func brightnessCtor(args []any, kwargs []KV) (Equivalency, error) {
	const name = "brightness_temperature"
	if len(args) != 1 {
		return Equivalency{}, badArgs(name, "takes a frequency quantity plus optional beam_area")
	}
	freq, ok := args[0].(Quantity)
	if !ok {
		return Equivalency{}, badArgs(name, "frequency must be a quantity")
	}
	var kept []KV
	for _, kv := range kwargs {
		if kv.Key != "beam_area" {
			return Equivalency{}, badArgs(name, "unknown keyword "+kv.Key)
		}
		beam, ok := kv.Value.(Quantity)
		if !ok {
			return Equivalency{}, badArgs(name, "beam_area must be a quantity")
		}
		kept = append(kept, KV{Key: "beam_area", Value: beam})
	}
	return step(name, []any{freq}, kept), nil
}

// ---- typed constructors ----

// DimensionlessAngles treats radians as interchangeable with dimensionless.
func DimensionlessAngles() Equivalency { return step("dimensionless_angles", nil, nil) }

// Parallax bridges angle and distance.
func Parallax() Equivalency { return step("parallax", nil, nil) }

// Spectral bridges wavelength, frequency, and energy.
func Spectral() Equivalency { return step("spectral", nil, nil) }

// MassEnergy bridges mass and energy.
func MassEnergy() Equivalency { return step("mass_energy", nil, nil) }

// Temperature bridges temperature scales.
func Temperature() Equivalency { return step("temperature", nil, nil) }

// TemperatureEnergy bridges temperature and energy.
func TemperatureEnergy() Equivalency { return step("temperature_energy", nil, nil) }

// MolarMassAMU bridges molar mass and atomic mass units.
func MolarMassAMU() Equivalency { return step("molar_mass_amu", nil, nil) }

// DopplerRadio bridges velocity and frequency using the radio convention
// around the given rest frequency.
func DopplerRadio(rest Quantity) Equivalency { return step("doppler_radio", []any{rest}, nil) }

// DopplerOptical is the optical-convention counterpart of DopplerRadio.
func DopplerOptical(rest Quantity) Equivalency { return step("doppler_optical", []any{rest}, nil) }

// DopplerRelativistic is the relativistic counterpart of DopplerRadio.
func DopplerRelativistic(rest Quantity) Equivalency {
	return step("doppler_relativistic", []any{rest}, nil)
}

// SpectralDensity bridges flux densities at the given wavelength.
func SpectralDensity(wav Quantity) Equivalency { return step("spectral_density", []any{wav}, nil) }

// PixelScale bridges pixels and angle given a scale.
func PixelScale(scale Quantity) Equivalency { return step("pixel_scale", []any{scale}, nil) }

// PlateScale bridges distance and angle given a plate scale.
func PlateScale(scale Quantity) Equivalency { return step("plate_scale", []any{scale}, nil) }

// BrightnessTemperature bridges surface brightness and temperature at the
// given frequency.
func BrightnessTemperature(freq Quantity) Equivalency {
	return step("brightness_temperature", []any{freq}, nil)
}

// BrightnessTemperatureBeam is BrightnessTemperature with an explicit beam
// area, recorded as the beam_area keyword.
func BrightnessTemperatureBeam(freq, beamArea Quantity) Equivalency {
	return step("brightness_temperature", []any{freq}, []KV{{Key: "beam_area", Value: beamArea}})
}
