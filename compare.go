package deltacmp

import "unsafe"

// The helpers in this file back the comparison strategies that cannot be
// expressed with the != operator. Generated code picks one statically from
// the declared type; none of them inspect types at runtime.

// Equal is the default equality used for unconstrained type parameters and
// interface-typed parameters. Values whose dynamic type is not comparable
// are reported as different instead of panicking.
func Equal[T any](a, b T) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return any(a) == any(b)
}

// SameFunc reports whether two func values are the same closure.
func SameFunc[F any](a, b F) bool {
	return *(*unsafe.Pointer)(unsafe.Pointer(&a)) == *(*unsafe.Pointer)(unsafe.Pointer(&b))
}

// SameSlice reports whether two slices share backing array and length.
func SameSlice[S ~[]E, E any](a, b S) bool {
	return len(a) == len(b) && unsafe.SliceData(a) == unsafe.SliceData(b)
}

// SameMap reports whether two maps are the same map instance.
func SameMap[M ~map[K]V, K comparable, V any](a, b M) bool {
	return *(*unsafe.Pointer)(unsafe.Pointer(&a)) == *(*unsafe.Pointer)(unsafe.Pointer(&b))
}

// SameIdentity reports whether two interface values hold the same dynamic
// type and the same data word. Pointer-shaped dynamic values (pointers,
// funcs, maps, channels) compare by identity; other dynamic values are
// boxed, so equal copies generally compare as different.
func SameIdentity(a, b any) bool {
	wa := *(*[2]unsafe.Pointer)(unsafe.Pointer(&a))
	wb := *(*[2]unsafe.Pointer)(unsafe.Pointer(&b))
	return wa == wb
}

// sameMethod reports whether two boxed method expressions have the same
// type and run the same code. A method expression captures nothing, so its
// code identifies it; closures must not be compared this way.
func sameMethod(a, b any) bool {
	wa := *(*[2]unsafe.Pointer)(unsafe.Pointer(&a))
	wb := *(*[2]unsafe.Pointer)(unsafe.Pointer(&b))
	if wa[0] != wb[0] {
		return false
	}
	if wa[1] == nil || wb[1] == nil {
		return wa[1] == wb[1]
	}
	return *(*uintptr)(wa[1]) == *(*uintptr)(wb[1])
}
