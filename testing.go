package deltacmp

import (
	"bytes"
	"context"
	"strings"
)

// TestResult holds the outcome of a test delivery.
//
// Provides convenience methods for asserting on the redraw request, CSS
// recomputation and rendered HTML.
type TestResult struct {
	Redraw     bool
	CSSUpdated bool
	HTML       string
}

// TestableComponent is a component with generated SetParameters.
type TestableComponent interface {
	ParameterSetter
	cssTracker
}

// TestDeliver applies a delivery to comp and returns testable output.
//
// The CSS dirty flag is consumed and reported instead of running the
// component's UpdateCSS hook, so tests can assert on it directly. If the
// component requested a redraw and implements Renderer, its output is
// rendered into HTML.
//
//	result, err := deltacmp.TestDeliver(counter, deltacmp.Params("Count", 5))
//	if !result.Redraw {
//	    t.Fatal("expected redraw")
//	}
func TestDeliver(comp TestableComponent, params ParameterView) (*TestResult, error) {
	return TestDeliverWithContext(context.Background(), comp, params)
}

// TestDeliverWithContext is TestDeliver with a custom render context.
func TestDeliverWithContext(ctx context.Context, comp TestableComponent, params ParameterView) (*TestResult, error) {
	result := &TestResult{
		Redraw: comp.SetParameters(params),
	}
	result.CSSUpdated = comp.TakeCSSDirty()

	if !result.Redraw {
		return result, nil
	}
	r, ok := comp.(Renderer)
	if !ok {
		return result, nil
	}

	var buf bytes.Buffer
	if err := r.Render(ctx).Render(ctx, &buf); err != nil {
		return nil, err
	}
	result.HTML = buf.String()
	return result, nil
}

// HTMLContains checks if the rendered HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the rendered HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}
