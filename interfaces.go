package deltacmp

import (
	"context"

	"github.com/a-h/templ"
)

// ParameterSetter is implemented by generated code.
//
// User components should not implement this directly - the deltacmp
// generator produces SetParameters from the component's tagged fields.
// SetParameters applies one delivery and returns true when the component
// should be redrawn. It never fails: values of the wrong type and
// presentation-unsafe unmatched values are ignored.
type ParameterSetter interface {
	SetParameters(params ParameterView) bool
}

// Renderer is implemented by components to produce templ output.
//
// Render should be pure - it reads the component's current parameters and
// produces HTML without side effects.
type Renderer interface {
	Render(ctx context.Context) templ.Component
}

// CSSUpdater is implemented by components that derive presentation state
// (class lists, inline styles) from their parameters.
//
// The host calls UpdateCSS after a delivery that changed a parameter tagged
// css or the unmatched "class" attribute.
type CSSUpdater interface {
	UpdateCSS()
}

// cssTracker is satisfied by every component embedding Base.
type cssTracker interface {
	TakeCSSDirty() bool
}

// waiter is satisfied by every component embedding Base.
type waiter interface {
	Wait() error
}
