package deltacmp

// Parameter is one named value in a delivery.
type Parameter struct {
	Name  string
	Value any
}

// ParameterView is one delivery batch, in the order the caller supplied it.
type ParameterView []Parameter

// Params builds a ParameterView from alternating name/value pairs.
// A trailing name without a value is delivered as nil.
//
//	deltacmp.Params("Count", 5, "Title", "x")
func Params(pairs ...any) ParameterView {
	view := make(ParameterView, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		var value any
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		view = append(view, Parameter{Name: name, Value: value})
	}
	return view
}

// Get returns the last value delivered under name.
func (v ParameterView) Get(name string) (any, bool) {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i].Name == name {
			return v[i].Value, true
		}
	}
	return nil, false
}

// As converts a delivered value to the declared parameter type.
//
// A nil value converts to the zero value of T. A value of any other
// dynamic type than T reports false and the generated code ignores it.
func As[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, true
	}
	t, ok := v.(T)
	return t, ok
}
