package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	"bear/internal/platform/testkit"
)

type nameRepo struct{ q Queryer }

func TestBindFunc(t *testing.T) {
	var b Binder[nameRepo] = BindFunc[nameRepo](func(q Queryer) nameRepo { return nameRepo{q: q} })
	if got := b.Bind(nil); got.q != nil {
		t.Fatalf("Bind(nil) = %+v", got)
	}
}

type guard struct {
	err      error
	deadline bool
}

func (g *guard) Guard(ctx context.Context) error {
	_, g.deadline = ctx.Deadline()
	return g.err
}

func TestMustGuard(t *testing.T) {
	ok := &guard{}
	MustGuard(context.Background(), ok)
	if !ok.deadline {
		t.Fatal("expected a bounded context")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	MustGuard(ctx, &guard{})

	testkit.MustPanic(t, func() { MustGuard(context.Background(), &guard{err: errors.New("pg: refused")}) })
	testkit.MustPanic(t, func() { MustGuard(context.Background(), nil) })
}
