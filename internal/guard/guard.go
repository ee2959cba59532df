// Package guard tracks structural recursion depth through context so the
// limit survives codec -> converter -> codec delegation. The tree walk has no
// cycle check; the depth bound is the defense against malformed trees.
package guard

import (
	"context"
	"fmt"
)

type ctxKey int

const depthKey ctxKey = 0

// Descend returns a child context one level deeper, or an error when the
// resulting depth would exceed max. max <= 0 disables the check.
func Descend(ctx context.Context, max int) (context.Context, error) {
	d, _ := ctx.Value(depthKey).(int)
	d++
	if max > 0 && d > max {
		return ctx, fmt.Errorf("max depth %d exceeded", max)
	}
	return context.WithValue(ctx, depthKey, d), nil
}

// Depth reports the current recursion depth recorded in ctx.
func Depth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey).(int)
	return d
}
