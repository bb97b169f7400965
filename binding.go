package deltacmp

// Reserved input names used to wire two-way bindings. A component that
// declares a Value / ValueChanged pair receives the trigger chosen by its
// owner under one of these names instead of as an unmatched attribute.
const (
	EventInput  = "oninput"
	EventChange = "onchange"
	EventBlur   = "onblur"
	EventFocus  = "onfocus"
)

// IsBindingEvent reports whether name is a reserved binding event name.
func IsBindingEvent(name string) bool {
	switch name {
	case EventInput, EventChange, EventBlur, EventFocus:
		return true
	default:
		return false
	}
}
