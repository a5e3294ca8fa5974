package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarder reports whether the backing stores answer
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard runs g.Guard with a bounded wait and panics on failure; for service startup
func MustGuard(ctx context.Context, g Guarder) {
	if g == nil {
		panic("repokit: nil guard")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
