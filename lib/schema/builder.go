package schema

import (
	"errors"
	"fmt"
)

// Builder accumulates the declarations of one component, level by level,
// and produces a validated schema.
//
// Levels must be added most-derived first. When a name is declared again at
// a shallower level, the most-derived declaration wins and the other one is
// dropped; a name declared twice at the same level is an error.
type Builder struct {
	schema   ComponentSchema
	errs     []error
	params   map[string]int // name -> level
	handlers map[string]int // param -> level
}

// NewBuilder starts a schema for the component type name.
func NewBuilder(name, typeName, sourceFile string, line int) *Builder {
	return &Builder{
		schema: ComponentSchema{
			Name:       name,
			TypeName:   typeName,
			SourceFile: sourceFile,
			Line:       line,
		},
		params:   make(map[string]int),
		handlers: make(map[string]int),
	}
}

// AddTypeParam records a type parameter of the component.
func (b *Builder) AddTypeParam(tp TypeParam) {
	b.schema.TypeParams = append(b.schema.TypeParams, tp)
}

// AddParam records a parameter declared at p.Level.
func (b *Builder) AddParam(p ParameterDescriptor) {
	if level, ok := b.params[p.Name]; ok {
		if level == p.Level {
			b.Fail(fmt.Errorf("%w: %q", ErrDuplicateParameter, p.Name))
		}
		return
	}
	b.params[p.Name] = p.Level

	if !p.Flags.Has(Unmatched) {
		b.schema.Params = append(b.schema.Params, p)
		return
	}
	switch {
	case p.Flags.Has(Cascading):
		b.Fail(fmt.Errorf("%w: %q", ErrCascadingUnmatched, p.Name))
	case b.schema.Unmatched != nil:
		b.Fail(fmt.Errorf("%w: %q and %q", ErrMultipleUnmatched, b.schema.Unmatched.Name, p.Name))
	default:
		b.schema.Unmatched = &p
	}
}

// AddHandler records a change handler declared at h.Level.
func (b *Builder) AddHandler(h ChangeHandlerBinding) {
	if level, ok := b.handlers[h.Param]; ok {
		if level == h.Level {
			b.Fail(fmt.Errorf("%w: %q", ErrDuplicateHandler, h.Param))
		}
		return
	}
	b.handlers[h.Param] = h.Level
	b.schema.Handlers = append(b.schema.Handlers, h)
}

// Fail records a validation error. Build reports every recorded error.
func (b *Builder) Fail(err error) {
	b.errs = append(b.errs, err)
}

// Build validates the accumulated declarations and returns the schema.
func (b *Builder) Build() (*ComponentSchema, error) {
	s := b.schema

	for _, h := range s.Handlers {
		p, ok := s.Param(h.Param)
		if !ok {
			b.Fail(fmt.Errorf("%w: %s bound to %q", ErrUnknownHandlerTarget, h.Method, h.Param))
			continue
		}
		p.Handler = h.Method
	}

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return &s, nil
}
