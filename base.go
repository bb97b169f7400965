package deltacmp

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Base is the root type embedded by every component.
//
// Components embed Base directly, or embed another component that does.
// The generator walks the embedding chain from the most-derived struct up
// to, but not including, Base:
//
//	type Counter struct {
//	    deltacmp.Base
//	    Count int    `dx:""`
//	    Title string `dx:",css"`
//	}
//
// Base carries the hidden per-instance state that generated SetParameters
// methods rely on: set-once latches, the CSS dirty flag, the cached
// binding event name and the task group for asynchronous change handlers.
//
// A component instance is driven by one owner at a time. Base itself is not
// safe for concurrent SetParameters calls on the same instance; only the
// async task group is.
type Base struct {
	latches   map[string]struct{}
	cssDirty  bool
	eventType string

	mu    sync.Mutex
	ctx   context.Context
	tasks *errgroup.Group
}

// Latched reports whether the set-once parameter name has been assigned.
//
// Latches are keyed by parameter name and shared by every level of the
// embedding chain. Only the most-derived component's SetParameters should
// drive an instance; an embedded component's own SetParameters sees the
// same latches.
func (b *Base) Latched(name string) bool {
	_, ok := b.latches[name]
	return ok
}

// Latch marks the set-once parameter name as assigned. Latches are never
// reset for the lifetime of the instance.
func (b *Base) Latch(name string) {
	if b.latches == nil {
		b.latches = make(map[string]struct{})
	}
	b.latches[name] = struct{}{}
}

// MarkCSSDirty records that presentation state must be recomputed.
func (b *Base) MarkCSSDirty() {
	b.cssDirty = true
}

// CSSDirty reports whether presentation state is pending recomputation.
func (b *Base) CSSDirty() bool {
	return b.cssDirty
}

// TakeCSSDirty returns the dirty flag and clears it.
func (b *Base) TakeCSSDirty() bool {
	dirty := b.cssDirty
	b.cssDirty = false
	return dirty
}

// EventType returns the last binding event name delivered to the component
// (e.g. "oninput"), or "" if none was delivered.
func (b *Base) EventType() string {
	return b.eventType
}

// SetEventType caches a binding event name and reports whether it differs
// from the cached one.
func (b *Base) SetEventType(name string) bool {
	if b.eventType == name {
		return false
	}
	b.eventType = name
	return true
}

// Bind sets the context passed to asynchronous change handlers. Without a
// bound context handlers receive context.Background().
func (b *Base) Bind(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx = ctx
}

// Dispatch runs an asynchronous change handler without waiting for it.
//
// Generated code calls Dispatch for handlers declared with the signature
// func(context.Context) error. A failing handler does not affect the
// delivery that triggered it; its error is reported by Wait.
func (b *Base) Dispatch(fn func(ctx context.Context) error) {
	b.mu.Lock()
	if b.tasks == nil {
		b.tasks = new(errgroup.Group)
	}
	tasks := b.tasks
	ctx := b.ctx
	b.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	tasks.Go(func() error {
		return fn(ctx)
	})
}

// Wait blocks until every dispatched handler has returned and reports the
// first error among them. The task group is reset afterwards.
func (b *Base) Wait() error {
	b.mu.Lock()
	tasks := b.tasks
	b.tasks = nil
	b.mu.Unlock()

	if tasks == nil {
		return nil
	}
	return tasks.Wait()
}
