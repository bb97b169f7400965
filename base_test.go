package deltacmp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestBase_Latches(t *testing.T) {
	var b Base

	if b.Latched("ID") || b.Latched("") {
		t.Fatal("fresh base has no latches")
	}
	b.Latch("ID")
	if !b.Latched("ID") {
		t.Error(`Latched("ID") = false after Latch("ID")`)
	}
	if b.Latched("Key") || b.Latched("id") {
		t.Error("latching one name must not latch others")
	}
	b.Latch("ID")
	if !b.Latched("ID") {
		t.Error("latches are never reset")
	}
}

func TestBase_CSSDirty(t *testing.T) {
	var b Base

	if b.CSSDirty() || b.TakeCSSDirty() {
		t.Fatal("fresh base is clean")
	}
	b.MarkCSSDirty()
	b.MarkCSSDirty()
	if !b.CSSDirty() {
		t.Error("CSSDirty() = false after MarkCSSDirty")
	}
	if !b.TakeCSSDirty() {
		t.Error("TakeCSSDirty() = false, want true")
	}
	if b.TakeCSSDirty() {
		t.Error("TakeCSSDirty() should clear the flag")
	}
}

func TestBase_EventType(t *testing.T) {
	var b Base

	if !b.SetEventType(EventInput) {
		t.Error("first event type should report a change")
	}
	if b.SetEventType(EventInput) {
		t.Error("same event type should not report a change")
	}
	if !b.SetEventType(EventBlur) {
		t.Error("new event type should report a change")
	}
	if b.EventType() != EventBlur {
		t.Errorf("EventType() = %q, want %q", b.EventType(), EventBlur)
	}
}

func TestBase_DispatchWait(t *testing.T) {
	var b Base
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		b.Dispatch(func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("calls = %d, want 5", calls.Load())
	}

	boom := errors.New("boom")
	b.Dispatch(func(ctx context.Context) error { return boom })
	if err := b.Wait(); !errors.Is(err, boom) {
		t.Errorf("Wait() error = %v, want %v", err, boom)
	}
	if err := b.Wait(); err != nil {
		t.Errorf("Wait() after reset = %v, want nil", err)
	}
}

func TestBase_BindContext(t *testing.T) {
	type key struct{}
	var b Base
	b.Bind(context.WithValue(context.Background(), key{}, "bound"))

	var got any
	b.Dispatch(func(ctx context.Context) error {
		got = ctx.Value(key{})
		return nil
	})
	if err := b.Wait(); err != nil {
		t.Fatal(err)
	}
	if got != "bound" {
		t.Errorf("handler context value = %v, want bound", got)
	}
}

func TestBase_DispatchWithoutBind(t *testing.T) {
	var b Base
	b.Dispatch(func(ctx context.Context) error {
		if ctx == nil {
			return errors.New("nil context")
		}
		return ctx.Err()
	})
	if err := b.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}
