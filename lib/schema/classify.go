package schema

// Strategy decides how a delivered value is compared with the current one.
type Strategy uint8

const (
	// StrategyValue compares with equality.
	StrategyValue Strategy = iota
	// StrategyReference compares by identity.
	StrategyReference
	// StrategyGenericEquality uses deltacmp.Equal, the default equality
	// for values whose comparability is unknown statically.
	StrategyGenericEquality
	// StrategyCallbackEquality uses the callback type's own Equal method.
	StrategyCallbackEquality
	// StrategyNever always assigns.
	StrategyNever
)

func (s Strategy) String() string {
	switch s {
	case StrategyValue:
		return "value"
	case StrategyReference:
		return "reference"
	case StrategyGenericEquality:
		return "generic-equality"
	case StrategyCallbackEquality:
		return "callback-equality"
	case StrategyNever:
		return "never"
	default:
		return "unknown"
	}
}

// Classify returns the comparison strategy for a declared type. It is total:
// every TypeDesc maps to a strategy, with StrategyValue as the fallback.
func Classify(t TypeDesc) Strategy {
	switch {
	case t.Category == CategoryTypeParam && t.Constraint == ConstraintValue:
		return StrategyValue
	case t.Category == CategoryTypeParam && t.Constraint == ConstraintReference:
		return StrategyReference
	case t.Category == CategoryTypeParam:
		return StrategyGenericEquality
	case t.Category == CategoryCallback:
		return StrategyCallbackEquality
	case t.Category == CategoryValue:
		// No == and no identity to fall back on.
		if t.Shape == ShapeIncomparable {
			return StrategyNever
		}
		return StrategyValue
	case t.Category == CategoryFunction:
		return StrategyReference
	case t.Category == CategoryCollection:
		return StrategyReference
	default:
		return StrategyValue
	}
}
