package deltacmp

import (
	"context"
	"fmt"
	"io"
)

// Host drives a single component instance: it delivers parameters, runs the
// CSS hook and re-renders when the component asks for it.
//
// Host is a minimal driver for tests and server-side rendering. It follows
// the calling convention generated code expects - one owner per instance,
// one delivery at a time.
//
//	host := deltacmp.NewHost(counter, w)
//	redraw, err := host.Deliver(ctx, deltacmp.Params("Count", 5))
type Host struct {
	comp ParameterSetter
	w    io.Writer

	renders int
}

// NewHost creates a host for comp. w may be nil, in which case deliveries
// never render.
func NewHost(comp ParameterSetter, w io.Writer) *Host {
	return &Host{comp: comp, w: w}
}

// Deliver applies params and renders the component if it requested a
// redraw. The returned bool is the component's redraw request.
func (h *Host) Deliver(ctx context.Context, params ParameterView) (bool, error) {
	redraw := h.comp.SetParameters(params)

	if t, ok := h.comp.(cssTracker); ok && t.TakeCSSDirty() {
		if u, ok := h.comp.(CSSUpdater); ok {
			u.UpdateCSS()
		}
	}

	if !redraw || h.w == nil {
		return redraw, nil
	}
	return redraw, h.Render(ctx)
}

// Render renders the component to the host writer.
func (h *Host) Render(ctx context.Context) error {
	if h.w == nil {
		return ErrNoWriter
	}
	r, ok := h.comp.(Renderer)
	if !ok {
		return ErrNotRenderable
	}
	h.renders++
	return r.Render(ctx).Render(ctx, h.w)
}

// Renders returns how many times the host rendered the component.
func (h *Host) Renders() int {
	return h.renders
}

// Wait blocks until the component's asynchronous change handlers finish.
func (h *Host) Wait() error {
	w, ok := h.comp.(waiter)
	if !ok {
		return nil
	}
	if err := w.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrHandlerFailed, err)
	}
	return nil
}
