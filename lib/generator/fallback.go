package generator

import (
	"fmt"
	"strings"

	"github.com/pthm/deltacmp/lib/schema"
)

// bindingSuffix marks the callback half of a two-way binding pair.
const bindingSuffix = "Changed"

// HasBindingCapability reports whether the schema declares a two-way
// binding pair: a parameter N+"Changed" of callback type next to a
// parameter N.
func HasBindingCapability(s *schema.ComponentSchema) bool {
	for _, p := range s.Params {
		if p.Type.Category != schema.CategoryCallback {
			continue
		}
		base, ok := strings.CutSuffix(p.Name, bindingSuffix)
		if !ok || base == "" {
			continue
		}
		if _, ok := s.Param(base); ok {
			return true
		}
	}
	return false
}

// synthesizeFallback generates the default case receiving every input no
// declared parameter matched. It returns "" when the component neither
// captures unmatched values nor accepts binding events, in which case
// unmatched inputs are ignored.
func synthesizeFallback(s *schema.ComponentSchema) (string, error) {
	binding := HasBindingCapability(s)
	if s.Unmatched == nil && !binding {
		return "", nil
	}

	var w codeWriter
	w.line("default:")

	if binding {
		w.line("if deltacmp.IsBindingEvent(p.Name) {")
		w.line("if c.SetEventType(p.Name) {")
		w.line("changed = true")
		w.line("}")
		w.line("continue")
		w.line("}")
	}

	if sink := s.Unmatched; sink != nil {
		var merge string
		switch sink.Sink {
		case schema.SinkMap:
			merge = "deltacmp.MergeMap"
		case schema.SinkView:
			merge = "deltacmp.MergeView"
		default:
			return "", fmt.Errorf("%w: %s", schema.ErrInvalidSink, sink.Name)
		}
		w.line("if merged, css := %s(&%s, p.Name, p.Value); merged {", merge, sink.Path)
		w.line("changed = true")
		w.line("if css {")
		w.line("c.MarkCSSDirty()")
		w.line("}")
		w.line("}")
	}
	return w.String(), nil
}
