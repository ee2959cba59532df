package tagtree

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType        = "invalid_type"
	CodeDuplicateTag       = "duplicate_tag"
	CodeDuplicateTypeClaim = "duplicate_type_claim"
	CodeUnknownTag         = "unknown_tag"
	CodeUnregisteredType   = "unregistered_type"
	CodeUnencodableValue   = "unencodable_value"
	CodeUnknownTransform   = "unknown_transform"
	CodeMalformedInput     = "malformed_input"
	CodeMaxDepth           = "max_depth"
	CodeParseError         = "parse_error"
)

// Issue represents a single conversion error entry.
type Issue struct {
	Path    string // Slash-separated tree path (for example: /equivalencies/2/args).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected shapes, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"tag":"unit/quantity"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of conversion errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_tag at /equivalencies/0
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// toIssues wraps an arbitrary error as Issues unless it already is one.
func toIssues(err error, path, code string) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: code, Message: err.Error(), Cause: err}}
}
