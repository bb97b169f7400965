package deltacmp

import "context"

// EventCallback is a bound handle to a component callback.
//
// Callbacks are passed down as parameters so a child can notify its owner.
// They are compared with Equal rather than ==. A callback built from a
// closure is equal only to itself; a closure literal evaluated twice yields
// two callbacks. Owners that rebuild callbacks on every render bind a
// method expression with BindEventCallback instead, which compares by
// receiver and method:
//
//	deltacmp.BindEventCallback(f, (*Form).submit)
type EventCallback struct {
	Receiver any
	fn       func(ctx context.Context) error
	// method is the bound method expression, nil for closures.
	method any
}

// NewEventCallback wraps the closure fn owned by receiver.
func NewEventCallback(receiver any, fn func(ctx context.Context) error) EventCallback {
	return EventCallback{Receiver: receiver, fn: fn}
}

// BindEventCallback binds a method expression to recv, which should be a
// pointer so that equal receivers are the same instance.
func BindEventCallback[R any](recv R, method func(R, context.Context) error) EventCallback {
	cb := EventCallback{Receiver: recv}
	if method != nil {
		cb.method = method
		cb.fn = func(ctx context.Context) error { return method(recv, ctx) }
	}
	return cb
}

// HasDelegate returns true if the callback is bound to a function.
func (cb EventCallback) HasDelegate() bool {
	return cb.fn != nil
}

// Equal reports whether two callbacks run the same closure, or bind the
// same method to the same receiver.
func (cb EventCallback) Equal(other EventCallback) bool {
	return sameDelegate(cb.Receiver, other.Receiver, cb.method, other.method, cb.fn, other.fn)
}

// Invoke calls the bound function. An unbound callback is a no-op.
func (cb EventCallback) Invoke(ctx context.Context) error {
	if cb.fn == nil {
		return nil
	}
	return cb.fn(ctx)
}

// EventCallbackOf is an EventCallback carrying an argument, typically the
// new value in a two-way binding (Value / ValueChanged).
type EventCallbackOf[T any] struct {
	Receiver any
	fn       func(ctx context.Context, arg T) error
	method   any
}

// NewEventCallbackOf wraps the closure fn owned by receiver.
func NewEventCallbackOf[T any](receiver any, fn func(ctx context.Context, arg T) error) EventCallbackOf[T] {
	return EventCallbackOf[T]{Receiver: receiver, fn: fn}
}

// BindEventCallbackOf binds a method expression to recv.
//
//	deltacmp.BindEventCallbackOf(f, (*Form).setName)
func BindEventCallbackOf[R, T any](recv R, method func(R, context.Context, T) error) EventCallbackOf[T] {
	cb := EventCallbackOf[T]{Receiver: recv}
	if method != nil {
		cb.method = method
		cb.fn = func(ctx context.Context, arg T) error { return method(recv, ctx, arg) }
	}
	return cb
}

// HasDelegate returns true if the callback is bound to a function.
func (cb EventCallbackOf[T]) HasDelegate() bool {
	return cb.fn != nil
}

// Equal reports whether two callbacks run the same closure, or bind the
// same method to the same receiver.
func (cb EventCallbackOf[T]) Equal(other EventCallbackOf[T]) bool {
	return sameDelegate(cb.Receiver, other.Receiver, cb.method, other.method, cb.fn, other.fn)
}

// Invoke calls the bound function with arg. An unbound callback is a no-op.
func (cb EventCallbackOf[T]) Invoke(ctx context.Context, arg T) error {
	if cb.fn == nil {
		return nil
	}
	return cb.fn(ctx, arg)
}

// sameDelegate compares two callbacks. Method expressions capture nothing,
// so their code identifies them; closures are compared by identity.
func sameDelegate[F any](ra, rb, ma, mb any, fa, fb F) bool {
	if ma != nil || mb != nil {
		return ma != nil && mb != nil && SameIdentity(ra, rb) && sameMethod(ma, mb)
	}
	return SameFunc(fa, fb)
}
