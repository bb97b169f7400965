package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm/deltacmp/lib/schema"
)

// synthesizeCase generates the switch case applying one parameter.
//
// The case assigns the delivered value when the strategy reports a
// difference (always for StrategyNever, once for set-once parameters) and
// then applies every effect the parameter's flags and handler call for.
func synthesizeCase(p schema.ParameterDescriptor, strategy schema.Strategy, h *schema.ChangeHandlerBinding) (string, error) {
	if p.Type.Expr == "" {
		return "", fmt.Errorf("parameter %s: empty type", p.Name)
	}

	var w codeWriter
	w.line("case %s:", strconv.Quote(p.Name))

	if p.Flags.Has(schema.SetOnce) {
		w.line("if c.Latched(%s) {", strconv.Quote(p.Name))
		w.line("continue")
		w.line("}")
	}

	w.line("v, ok := deltacmp.As[%s](p.Value)", p.Type.Expr)
	w.line("if !ok {")
	w.line("continue")
	w.line("}")

	if p.Flags.Has(schema.SetOnce) {
		w.line("%s = v", p.Path)
		w.line("c.Latch(%s)", strconv.Quote(p.Name))
		writeEffects(&w, p, h)
		return w.String(), nil
	}

	cond, err := difference(p, strategy)
	if err != nil {
		return "", err
	}
	if cond == "" {
		w.line("%s = v", p.Path)
		writeEffects(&w, p, h)
		return w.String(), nil
	}

	w.line("if %s {", cond)
	w.line("%s = v", p.Path)
	writeEffects(&w, p, h)
	w.line("}")
	return w.String(), nil
}

// writeEffects emits the effects of an assignment. They are independent of
// each other and all apply.
func writeEffects(w *codeWriter, p schema.ParameterDescriptor, h *schema.ChangeHandlerBinding) {
	if !p.Flags.Has(schema.NoRender) {
		w.line("changed = true")
	}
	if p.Flags.Has(schema.UpdatesCSS) {
		w.line("c.MarkCSSDirty()")
	}
	if h == nil {
		return
	}
	if h.Async {
		w.line("c.Dispatch(%s)", h.Path)
	} else {
		w.line("%s()", h.Path)
	}
}

// difference returns the expression that is true when v differs from the
// current value, or "" for StrategyNever.
func difference(p schema.ParameterDescriptor, strategy schema.Strategy) (string, error) {
	cur := p.Path
	switch strategy {
	case schema.StrategyValue:
		// != only where it cannot panic.
		switch p.Type.Shape {
		case schema.ShapeInterface, schema.ShapeDynamic:
			return fmt.Sprintf("!deltacmp.Equal(%s, v)", cur), nil
		case schema.ShapeIncomparable:
			return "", fmt.Errorf("parameter %s: type %s is not comparable", p.Name, p.Type.Expr)
		default:
			return fmt.Sprintf("%s != v", cur), nil
		}
	case schema.StrategyReference:
		switch p.Type.Shape {
		case schema.ShapeFunc:
			return fmt.Sprintf("!deltacmp.SameFunc(%s, v)", cur), nil
		case schema.ShapeSlice:
			return fmt.Sprintf("!deltacmp.SameSlice(%s, v)", cur), nil
		case schema.ShapeMap:
			return fmt.Sprintf("!deltacmp.SameMap(%s, v)", cur), nil
		case schema.ShapeInterface:
			return fmt.Sprintf("!deltacmp.SameIdentity(%s, v)", cur), nil
		case schema.ShapeIncomparable:
			return "", fmt.Errorf("parameter %s: type %s has no identity", p.Name, p.Type.Expr)
		default:
			return fmt.Sprintf("%s != v", cur), nil
		}
	case schema.StrategyGenericEquality:
		return fmt.Sprintf("!deltacmp.Equal(%s, v)", cur), nil
	case schema.StrategyCallbackEquality:
		return fmt.Sprintf("!%s.Equal(v)", cur), nil
	case schema.StrategyNever:
		return "", nil
	default:
		return "", fmt.Errorf("parameter %s: unknown strategy %d", p.Name, strategy)
	}
}

// codeWriter accumulates generated lines. Indentation is left to go/format.
type codeWriter struct {
	sb strings.Builder
}

func (w *codeWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// String returns the code without its final newline.
func (w *codeWriter) String() string {
	return strings.TrimSuffix(w.sb.String(), "\n")
}
