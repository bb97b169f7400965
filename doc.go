// Package deltacmp provides the runtime half of a parameter-delta compiler
// for Go UI components rendered with Templ.
//
// A component declares its inputs as tagged struct fields and embeds Base
// (directly or through another component). The deltacmp generator reads
// those declarations at build time and writes a specialised SetParameters
// method for every component type, replacing a reflective assignment path
// with straight-line code whose behaviour is fixed at analysis time.
//
// # Declaring Parameters
//
//	type TextInput struct {
//	    deltacmp.Base
//	    ID           string                          `dx:",setonce"`
//	    Value        string                          `dx:""`
//	    ValueChanged deltacmp.EventCallbackOf[string] `dx:""`
//	    Theme        string                          `dx:",cascade,css"`
//	    Tooltip      string                          `dx:",norender"`
//	    Attrs        templ.Attributes                `dx:",unmatched"`
//	}
//
// The tag value is "name,options". An empty name uses the field name.
// Options:
//   - cascade: the value comes from an ancestor context
//   - unmatched: the field absorbs every input no declared parameter matches
//   - setonce: only the first delivery is applied, later ones are discarded
//   - norender: a change does not request a redraw
//   - css: a change marks presentation state dirty
//
// # Change Handlers
//
// A method becomes a change handler through a doc comment directive:
//
//	//dx:changed Value
//	func (c *TextInput) valueChanged() { ... }
//
//	//dx:changed ID
//	func (c *TextInput) loadDetails(ctx context.Context) error { ... }
//
// Handlers with the signature func() run inline. Handlers with the signature
// func(context.Context) error are dispatched without waiting; Base.Wait
// reports their failures.
//
// # Comparison
//
// Each parameter is compared with a strategy chosen from its declared type:
// == for values, identity for funcs, slices, maps and templ.Component
// fragments, Equal for interfaces, type parameters that admit interfaces
// and structs holding interfaces, and the handle's own Equal for
// EventCallback. Generated comparisons never panic. Parameters of
// non-comparable struct types are always assigned.
//
// EventCallback handles built from closures are equal only to themselves.
// Owners that rebuild handles on every render bind a method expression:
//
//	deltacmp.BindEventCallbackOf(form, (*Form).setName)
//
// # Unmatched Attributes
//
// Inputs that match no parameter are merged into the unmatched sink when
// their value is presentation-safe (see IsPresentationSafe). A
// map[string]any or templ.Attributes sink is updated in place; an
// AttributeView sink is replaced by a fresh copy on every write. Writing
// "class" marks CSS dirty.
//
// # Binding Events
//
// A component that declares a Value / ValueChanged pair (ValueChanged being
// an EventCallback) also accepts the reserved names oninput, onchange,
// onblur and onfocus. They are cached in Base.EventType instead of being
// merged as attributes. Components without such a pair merge these names
// like any other unmatched input.
//
// # Code Generation
//
// Run 'deltacmp generate' to produce a <file>_dx.go next to every source
// file declaring components. Generated code depends only on this package.
package deltacmp
