package schema

import "errors"

// Sentinel errors reported while validating a schema. They are wrapped with
// the offending parameter or method name.
var (
	ErrDuplicateParameter   = errors.New("schema: duplicate parameter name")
	ErrMultipleUnmatched    = errors.New("schema: more than one unmatched parameter")
	ErrCascadingUnmatched   = errors.New("schema: cascading parameter cannot capture unmatched values")
	ErrInvalidSink          = errors.New("schema: unmatched parameter must be map[string]any, templ.Attributes or deltacmp.AttributeView")
	ErrUnknownHandlerTarget = errors.New("schema: change handler bound to unknown parameter")
	ErrDuplicateHandler     = errors.New("schema: parameter has more than one change handler")
	ErrHandlerSignature     = errors.New("schema: change handler must be func() or func(context.Context) error")
	ErrAmbiguousBase        = errors.New("schema: component embeds more than one component")
	ErrUnknownOption        = errors.New("schema: unknown tag option")
)
