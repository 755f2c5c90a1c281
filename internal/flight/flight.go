// Package flight deduplicates in-flight requests by key and scopes their
// lifetime to the group rather than to any single caller. Two views asking
// for the same resource share one fetch; a view that goes away mid-fetch
// gets its context error back instead of a result, so its success handler
// never runs and abandoned requests cannot mutate shared state.
package flight

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Group is a request-keyed in-flight map. The zero value is ready to use.
type Group struct {
	sf singleflight.Group

	mu      sync.Mutex
	gen     uint64
	cancels map[string]execution
}

// execution ties a cancel func to the generation that registered it, so a
// stale execution's cleanup cannot remove a newer execution's entry for
// the same key.
type execution struct {
	cancel context.CancelFunc
	gen    uint64
}

// Do executes fn once per key among concurrent callers. fn receives a
// group-owned context detached from the callers, cancelled only by Forget.
// When the caller's own ctx ends before the shared execution resolves, Do
// returns ctx.Err() while the execution keeps running for the remaining
// callers.
func (g *Group) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := g.sf.DoChan(key, func() (any, error) {
		runCtx, cancel := context.WithCancel(context.Background())
		gen := g.register(key, cancel)
		defer g.unregister(key, gen)
		defer cancel()
		return fn(runCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Forget cancels any in-flight execution for key and detaches future calls
// from it. Used for fetch invalidation after mutations.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	e := g.cancels[key]
	delete(g.cancels, key)
	g.mu.Unlock()

	g.sf.Forget(key)
	if e.cancel != nil {
		e.cancel()
	}
}

func (g *Group) register(key string, cancel context.CancelFunc) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancels == nil {
		g.cancels = make(map[string]execution)
	}
	g.gen++
	g.cancels[key] = execution{cancel: cancel, gen: g.gen}
	return g.gen
}

// unregister removes the entry for key only if it still belongs to the
// execution that registered it. A forgotten execution finishing late must
// not evict its successor.
func (g *Group) unregister(key string, gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.cancels[key]; ok && e.gen == gen {
		delete(g.cancels, key)
	}
}
