package schema

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		typ  TypeDesc
		want Strategy
	}{
		{"strict union type param", TypeDesc{Expr: "T", Category: CategoryTypeParam, Shape: ShapeTypeParam, Constraint: ConstraintValue}, StrategyValue},
		{"pointer type param", TypeDesc{Expr: "T", Category: CategoryTypeParam, Shape: ShapeTypeParam, Constraint: ConstraintReference}, StrategyReference},
		{"any type param", TypeDesc{Expr: "T", Category: CategoryTypeParam, Shape: ShapeTypeParam, Constraint: ConstraintAny}, StrategyGenericEquality},
		{"bounded type param", TypeDesc{Expr: "T", Category: CategoryTypeParam, Shape: ShapeTypeParam, Constraint: ConstraintBounded}, StrategyGenericEquality},
		{"event callback", TypeDesc{Expr: "deltacmp.EventCallback", Category: CategoryCallback, Shape: ShapeIncomparable}, StrategyCallbackEquality},
		{"int", TypeDesc{Expr: "int", Category: CategoryValue}, StrategyValue},
		{"string", TypeDesc{Expr: "string", Category: CategoryValue}, StrategyValue},
		{"comparable struct", TypeDesc{Expr: "Point", Category: CategoryValue}, StrategyValue},
		{"struct with slice", TypeDesc{Expr: "Rows", Category: CategoryValue, Shape: ShapeIncomparable}, StrategyNever},
		{"func", TypeDesc{Expr: "func()", Category: CategoryFunction, Shape: ShapeFunc}, StrategyReference},
		{"templ fragment", TypeDesc{Expr: "templ.Component", Category: CategoryFunction, Shape: ShapeInterface}, StrategyReference},
		{"slice", TypeDesc{Expr: "[]string", Category: CategoryCollection, Shape: ShapeSlice}, StrategyReference},
		{"map", TypeDesc{Expr: "map[string]int", Category: CategoryCollection, Shape: ShapeMap}, StrategyReference},
		{"pointer", TypeDesc{Expr: "*User", Category: CategoryReference}, StrategyValue},
		{"interface", TypeDesc{Expr: "fmt.Stringer", Category: CategoryReference, Shape: ShapeInterface}, StrategyValue},
		{"unknown category", TypeDesc{Expr: "?", Category: Category(200)}, StrategyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.typ); got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.typ.Expr, got, tt.want)
			}
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	// Every combination of category, shape and constraint yields a known strategy.
	for c := Category(0); c <= CategoryFunction; c++ {
		for s := Shape(0); s <= ShapeTypeParam; s++ {
			for k := ConstraintAny; k <= ConstraintBounded; k++ {
				got := Classify(TypeDesc{Category: c, Shape: s, Constraint: k})
				if got.String() == "unknown" {
					t.Errorf("Classify(%v, %v, %v) = %d", c, s, k, got)
				}
			}
		}
	}
}
