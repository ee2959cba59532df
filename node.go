package tagtree

import (
	"strings"

	"github.com/reoring/tagtree/i18n"
)

// Tree nodes are plain Go values: map[string]any, []any, strings, booleans,
// numbers (int/int64/float64/json.Number), nil, and Tagged. A tree is fully
// independent of the native object it was encoded from and is safe to persist
// or transmit.

// Tagged wraps a subtree with the registry tag and version of the converter
// that produced it. Wire drivers map it to their format's tagging mechanism.
type Tagged struct {
	Tag     string
	Version string
	Value   any
}

// Ref renders the Tagged node's tag reference, e.g. "unit/equivalency-1.0.0".
func (t Tagged) Ref() string { return Ref(t.Tag, t.Version) }

// Ref joins a tag and version into the single reference string carried on the
// wire.
func Ref(tag, version string) string { return tag + "-" + version }

// ParseRef splits a wire reference back into tag and version. The version is
// everything after the last '-'; both halves must be non-empty and the version
// must start with a digit.
func ParseRef(s string) (tag, version string, err error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 || i == len(s)-1 {
		return "", "", Issues{{Path: "/", Code: CodeMalformedInput,
			Message: i18n.T(CodeMalformedInput, map[string]string{"ref": s}),
			Hint:    "expected TAG-VERSION, e.g. unit/equivalency-1.0.0",
			Params:  map[string]any{"ref": s}}}
	}
	tag, version = s[:i], s[i+1:]
	if version[0] < '0' || version[0] > '9' {
		return "", "", Issues{{Path: "/", Code: CodeMalformedInput,
			Message: i18n.T(CodeMalformedInput, map[string]string{"ref": s}),
			Hint:    "version must start with a digit",
			Params:  map[string]any{"ref": s}}}
	}
	return tag, version, nil
}

// joinPath extends a slash-separated tree path with one segment.
func joinPath(base, seg string) string {
	if base == "/" {
		return "/" + seg
	}
	return base + "/" + seg
}
