package deltacmp

import (
	"reflect"
	"sort"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassAttribute is the attribute name whose changes dirty CSS state.
const ClassAttribute = "class"

// AttributeView is a read-only snapshot of unmatched attributes.
//
// A component declares it as the unmatched sink when the attributes it
// hands to children must never change underneath them. Every write made
// by MergeView produces a new view; existing views are left untouched.
type AttributeView struct {
	m map[string]any
}

// NewAttributeView returns a view holding a copy of m.
func NewAttributeView(m map[string]any) AttributeView {
	if len(m) == 0 {
		return AttributeView{}
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return AttributeView{m: cp}
}

// IsZero returns true if the view was never populated.
func (v AttributeView) IsZero() bool {
	return v.m == nil
}

// Len returns the number of attributes.
func (v AttributeView) Len() int {
	return len(v.m)
}

// Get returns the attribute stored under name.
func (v AttributeView) Get(name string) (any, bool) {
	val, ok := v.m[name]
	return val, ok
}

// Keys returns the attribute names in sorted order.
func (v AttributeView) Keys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Same reports whether two views share the same underlying snapshot.
func (v AttributeView) Same(other AttributeView) bool {
	return SameMap(v.m, other.m)
}

// With returns a copy of the view with name set to value.
func (v AttributeView) With(name string, value any) AttributeView {
	cp := make(map[string]any, len(v.m)+1)
	for k, val := range v.m {
		cp[k] = val
	}
	cp[name] = value
	return AttributeView{m: cp}
}

// Attributes returns a copy of the view for spreading onto an element in
// a templ template.
func (v AttributeView) Attributes() templ.Attributes {
	attrs := make(templ.Attributes, len(v.m))
	for k, val := range v.m {
		attrs[k] = val
	}
	return attrs
}

// MergeMap merges an unmatched input into a mutable attribute map in place.
//
// Values that are not presentation-safe are dropped. The map is created on
// first use. changed reports an insert or overwrite; cssDirty additionally
// reports that the "class" attribute was written.
func MergeMap[M ~map[string]any](bag *M, name string, value any) (changed, cssDirty bool) {
	if !IsPresentationSafe(value) {
		return false, false
	}
	if *bag == nil {
		*bag = make(M)
	}
	if current, ok := (*bag)[name]; ok && sameAttribute(current, value) {
		return false, false
	}
	(*bag)[name] = value
	return true, name == ClassAttribute
}

// MergeView merges an unmatched input into a read-only attribute view.
//
// Semantics match MergeMap, except that a write replaces *bag with a fresh
// copy instead of mutating the current snapshot.
func MergeView(bag *AttributeView, name string, value any) (changed, cssDirty bool) {
	if !IsPresentationSafe(value) {
		return false, false
	}
	if current, ok := bag.Get(name); ok && sameAttribute(current, value) {
		return false, false
	}
	*bag = bag.With(name, value)
	return true, name == ClassAttribute
}

func sameAttribute(a, b any) bool {
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb) && ta.Location() == tb.Location()
	}
	return Equal(a, b)
}

// IsPresentationSafe reports whether a value may be stored as an unmatched
// attribute: booleans, strings, every integer width, floats, fixed-point
// decimals, times, durations, UUIDs and enumerated values (named integer or
// string types). A non-nil pointer to any of these counts as its target.
func IsPresentationSafe(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64,
		decimal.Decimal,
		time.Time, time.Duration,
		uuid.UUID:
		return true
	}

	// Enumerations and nullable wrappers have no closed set of types.
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return false
		}
		return IsPresentationSafe(rv.Elem().Interface())
	}
	return isEnumKind(t.Kind())
}

func isEnumKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return true
	default:
		return false
	}
}
