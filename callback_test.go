package deltacmp

import (
	"context"
	"errors"
	"testing"
)

func TestEventCallback_Equal(t *testing.T) {
	w1 := &widget{id: 1}
	w2 := &widget{id: 2}
	click := NewEventCallback(w1, w1.click)

	tests := []struct {
		name string
		a, b EventCallback
		want bool
	}{
		{"same closure", click, click, true},
		{"method value evaluated twice", NewEventCallback(w1, w1.click), NewEventCallback(w1, w1.click), false},
		{"same bound method", BindEventCallback(w1, (*widget).click), BindEventCallback(w1, (*widget).click), true},
		{"different bound methods", BindEventCallback(w1, (*widget).click), BindEventCallback(w1, (*widget).hover), false},
		{"different receivers", BindEventCallback(w1, (*widget).click), BindEventCallback(w2, (*widget).click), false},
		{"bound method and closure", BindEventCallback(w1, (*widget).click), click, false},
		{"both empty", EventCallback{}, EventCallback{}, true},
		{"empty and bound", EventCallback{}, BindEventCallback(w1, (*widget).click), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventCallback_Invoke(t *testing.T) {
	boom := errors.New("boom")
	called := false
	cb := NewEventCallback(nil, func(ctx context.Context) error {
		called = true
		return boom
	})

	if !cb.HasDelegate() {
		t.Error("HasDelegate() = false")
	}
	if err := cb.Invoke(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Invoke() error = %v", err)
	}
	if !called {
		t.Error("callback not called")
	}

	var empty EventCallback
	if empty.HasDelegate() {
		t.Error("empty callback has no delegate")
	}
	if err := empty.Invoke(context.Background()); err != nil {
		t.Errorf("empty Invoke() = %v", err)
	}
	if BindEventCallback[*widget](nil, nil).HasDelegate() {
		t.Error("nil method has no delegate")
	}
}

type picker struct{ picked string }

func (p *picker) pick(ctx context.Context, v string) error {
	p.picked = v
	return nil
}

func (p *picker) clear(ctx context.Context, v string) error {
	p.picked = ""
	return nil
}

func TestEventCallbackOf_Bound(t *testing.T) {
	p := &picker{}
	a := BindEventCallbackOf(p, (*picker).pick)

	if !a.Equal(BindEventCallbackOf(p, (*picker).pick)) {
		t.Error("same receiver and method should be equal")
	}
	if a.Equal(BindEventCallbackOf(p, (*picker).clear)) {
		t.Error("different methods should differ")
	}
	if a.Equal(BindEventCallbackOf(&picker{}, (*picker).pick)) {
		t.Error("different receivers should differ")
	}

	if err := a.Invoke(context.Background(), "blue"); err != nil {
		t.Fatal(err)
	}
	if p.picked != "blue" {
		t.Errorf("picked = %q, want blue", p.picked)
	}

	var empty EventCallbackOf[string]
	if empty.HasDelegate() || empty.Invoke(context.Background(), "x") != nil {
		t.Error("empty callback should be a no-op")
	}
}

func TestEventCallbackOf_ClosuresInLoop(t *testing.T) {
	rows := make([]string, 2)
	owner := &picker{}

	var callbacks []EventCallbackOf[string]
	for i := range rows {
		callbacks = append(callbacks, NewEventCallbackOf(owner, func(ctx context.Context, v string) error {
			rows[i] = v
			return nil
		}))
	}

	if callbacks[0].Equal(callbacks[1]) {
		t.Fatal("closures with different captures should differ")
	}
	if !callbacks[1].Equal(callbacks[1]) {
		t.Error("a closure should equal itself")
	}

	if err := callbacks[1].Invoke(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if rows[0] != "" || rows[1] != "x" {
		t.Errorf("rows = %q, want second row written", rows)
	}
}
