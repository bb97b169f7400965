// Package schema describes the analysis-time model of a component: its
// flattened parameters, change handlers and unmatched sink, plus the
// classifier that maps a declared type to a comparison strategy.
//
// Schemas exist only while the generator runs. Nothing here is referenced by
// generated code.
package schema

import "strings"

// ComponentSchema is the flattened description of one component type.
type ComponentSchema struct {
	Name       string                 `msgpack:"name"` // import path qualified, e.g. "example.com/ui.Counter"
	TypeName   string                 `msgpack:"type"`
	SourceFile string                 `msgpack:"file"`
	Line       int                    `msgpack:"line"`
	TypeParams []TypeParam            `msgpack:"tparams,omitempty"`
	Params     []ParameterDescriptor  `msgpack:"params"`
	Handlers   []ChangeHandlerBinding `msgpack:"handlers,omitempty"`
	Unmatched  *ParameterDescriptor   `msgpack:"unmatched,omitempty"`
	Imports    []string               `msgpack:"imports,omitempty"` // packages referenced by parameter types
}

// ConstraintKind classifies the constraint of a type parameter.
type ConstraintKind uint8

const (
	// ConstraintAny is an unconstrained type parameter (any).
	ConstraintAny ConstraintKind = iota
	// ConstraintValue is a union of value types whose == never panics.
	ConstraintValue
	// ConstraintReference is a union of pointer or channel types.
	ConstraintReference
	// ConstraintBounded is a method-set interface, or a constraint such as
	// comparable that admits interface type arguments.
	ConstraintBounded
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintValue:
		return "value"
	case ConstraintReference:
		return "reference"
	case ConstraintBounded:
		return "bounded"
	default:
		return "any"
	}
}

// TypeParam is a generic type parameter of a component.
type TypeParam struct {
	Name       string         `msgpack:"name"`
	Constraint string         `msgpack:"constraint"` // source form, e.g. "comparable"
	Kind       ConstraintKind `msgpack:"kind"`
}

// Category is the coarse kind of a declared parameter type.
type Category uint8

const (
	// CategoryValue covers basic types (including string), structs and arrays.
	CategoryValue Category = iota
	// CategoryReference covers pointers, channels and interfaces.
	CategoryReference
	// CategoryTypeParam is an open generic type parameter.
	CategoryTypeParam
	// CategoryCallback is deltacmp.EventCallback or EventCallbackOf[T].
	CategoryCallback
	// CategoryCollection covers slices and maps.
	CategoryCollection
	// CategoryFunction covers func types and templ.Component fragments.
	CategoryFunction
)

func (c Category) String() string {
	switch c {
	case CategoryValue:
		return "value"
	case CategoryReference:
		return "reference"
	case CategoryTypeParam:
		return "typeparam"
	case CategoryCallback:
		return "callback"
	case CategoryCollection:
		return "collection"
	case CategoryFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Shape is the Go representation of a type, which decides how a strategy
// is emitted.
type Shape uint8

const (
	// ShapeComparable supports == and !=.
	ShapeComparable Shape = iota
	// ShapeIncomparable is a struct or array without ==.
	ShapeIncomparable
	ShapeFunc
	ShapeSlice
	ShapeMap
	ShapeInterface
	// ShapeDynamic is a comparable struct or array holding an interface.
	// == panics when the interface holds an incomparable dynamic value.
	ShapeDynamic
	// ShapeTypeParam is an open type parameter; comparability follows
	// its constraint.
	ShapeTypeParam
)

// TypeDesc is what the classifier needs to know about a declared type.
type TypeDesc struct {
	Expr       string         `msgpack:"expr"` // Go type expression as written in generated code
	Category   Category       `msgpack:"category"`
	Shape      Shape          `msgpack:"shape"`
	Constraint ConstraintKind `msgpack:"constraint,omitempty"` // type parameters only
}

// Flags are the per-parameter behaviour options.
type Flags uint8

const (
	SetOnce Flags = 1 << iota
	NoRender
	UpdatesCSS
	Cascading
	Unmatched
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	var parts []string
	for _, o := range flagOptions {
		if f.Has(o.flag) {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, ",")
}

var flagOptions = []struct {
	name string
	flag Flags
}{
	{"setonce", SetOnce},
	{"norender", NoRender},
	{"css", UpdatesCSS},
	{"cascade", Cascading},
	{"unmatched", Unmatched},
}

// ParseFlag returns the flag for a tag option.
func ParseFlag(option string) (Flags, bool) {
	for _, o := range flagOptions {
		if o.name == option {
			return o.flag, true
		}
	}
	return 0, false
}

// SinkKind is the storage representation of the unmatched sink.
type SinkKind uint8

const (
	SinkNone SinkKind = iota
	// SinkMap is a mutable map[string]any (or templ.Attributes), updated in place.
	SinkMap
	// SinkView is a deltacmp.AttributeView, replaced on every write.
	SinkView
)

// ParameterDescriptor is one declared input.
type ParameterDescriptor struct {
	Name    string   `msgpack:"name"`
	Field   string   `msgpack:"field"`
	Path    string   `msgpack:"path"`  // selector from the receiver, e.g. "c.Input.Value"
	Level   int      `msgpack:"level"` // 0 is the most-derived type
	Type    TypeDesc `msgpack:"type"`
	Flags   Flags    `msgpack:"flags"`
	Sink    SinkKind `msgpack:"sink,omitempty"`
	Handler string   `msgpack:"handler,omitempty"`
}

// ChangeHandlerBinding binds a method to a parameter.
type ChangeHandlerBinding struct {
	Param  string `msgpack:"param"`
	Method string `msgpack:"method"`
	Path   string `msgpack:"path"` // selector from the receiver, e.g. "c.Input.changed"
	Level  int    `msgpack:"level"`
	Async  bool   `msgpack:"async"`
}

// Param returns the parameter named name.
func (s *ComponentSchema) Param(name string) (*ParameterDescriptor, bool) {
	for i := range s.Params {
		if s.Params[i].Name == name {
			return &s.Params[i], true
		}
	}
	return nil, false
}

// Handler returns the handler bound to the parameter named name.
func (s *ComponentSchema) Handler(name string) (*ChangeHandlerBinding, bool) {
	for i := range s.Handlers {
		if s.Handlers[i].Param == name {
			return &s.Handlers[i], true
		}
	}
	return nil, false
}

// IsGeneric returns true if the component declares type parameters.
func (s *ComponentSchema) IsGeneric() bool {
	return len(s.TypeParams) > 0
}
