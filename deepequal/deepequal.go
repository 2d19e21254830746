// Package deepequal implements the change filter used throughout the cell
// engine: a structural equality predicate where NaN equals itself and
// cyclic values compare equal without looping forever.
package deepequal

import "reflect"

// Equal reports whether a and b are structurally identical.
//
// Unlike reflect.DeepEqual, floating point NaN is considered equal to
// itself, since a cell holding NaN must not re-notify on every write of
// the same NaN. Cycles (through pointers, slices, maps or interfaces) are
// detected the same way the standard library's DeepEqual detects them:
// once a pair of pointers has been seen together anywhere earlier in the
// same comparison, it is assumed equal and the recursion stops there.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	return deepValueEqual(va, vb, make(map[visit]bool))
}

// visit is a pair of pointer values already compared earlier in the
// same Equal call, keyed by type so that a uintptr collision
// across unrelated types can't produce a false cycle.
type visit struct {
	a, b unsafePointerLike
	typ  reflect.Type
}

// unsafePointerLike avoids importing unsafe just to get a comparable
// pointer-sized key; reflect.Value.Pointer() already returns uintptr.
type unsafePointerLike = uintptr

func deepValueEqual(v1, v2 reflect.Value, visited map[visit]bool) bool {
	if !v1.IsValid() || !v2.IsValid() {
		return v1.IsValid() == v2.IsValid()
	}
	if v1.Type() != v2.Type() {
		return false
	}

	switch v1.Kind() {
	case reflect.Float32, reflect.Float64:
		f1, f2 := v1.Float(), v2.Float()
		if f1 != f1 && f2 != f2 { // both NaN
			return true
		}
		return f1 == f2

	case reflect.Complex64, reflect.Complex128:
		c1, c2 := v1.Complex(), v2.Complex()
		r1, i1 := real(c1), imag(c1)
		r2, i2 := real(c2), imag(c2)
		eqR := r1 == r2 || (r1 != r1 && r2 != r2)
		eqI := i1 == i2 || (i1 != i1 && i2 != i2)
		return eqR && eqI

	case reflect.Pointer:
		if v1.IsNil() || v2.IsNil() {
			return v1.IsNil() == v2.IsNil()
		}
		if v1.Pointer() == v2.Pointer() {
			return true
		}
		if seen, ok := markVisited(visited, v1, v2); ok {
			return seen
		}
		return deepValueEqual(v1.Elem(), v2.Elem(), visited)

	case reflect.Interface:
		if v1.IsNil() || v2.IsNil() {
			return v1.IsNil() == v2.IsNil()
		}
		return deepValueEqual(v1.Elem(), v2.Elem(), visited)

	case reflect.Slice:
		if v1.IsNil() != v2.IsNil() {
			return false
		}
		if v1.Len() != v2.Len() {
			return false
		}
		if v1.Pointer() == v2.Pointer() && v1.Len() == v2.Len() {
			return true
		}
		if seen, ok := markVisitedSlices(visited, v1, v2); ok {
			return seen
		}
		for i := 0; i < v1.Len(); i++ {
			if !deepValueEqual(v1.Index(i), v2.Index(i), visited) {
				return false
			}
		}
		return true

	case reflect.Array:
		if v1.Len() != v2.Len() {
			return false
		}
		for i := 0; i < v1.Len(); i++ {
			if !deepValueEqual(v1.Index(i), v2.Index(i), visited) {
				return false
			}
		}
		return true

	case reflect.Map:
		if v1.IsNil() != v2.IsNil() {
			return false
		}
		if v1.Len() != v2.Len() {
			return false
		}
		if v1.Pointer() == v2.Pointer() {
			return true
		}
		if seen, ok := markVisitedMaps(visited, v1, v2); ok {
			return seen
		}
		iter := v1.MapRange()
		for iter.Next() {
			k := iter.Key()
			val2 := v2.MapIndex(k)
			if !val2.IsValid() {
				return false
			}
			if !deepValueEqual(iter.Value(), val2, visited) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < v1.NumField(); i++ {
			if !deepValueEqual(v1.Field(i), v2.Field(i), visited) {
				return false
			}
		}
		return true

	case reflect.Func:
		// functions are only equal if both nil; a non-nil func value is
		// never considered equal to any other for change-detection purposes.
		return v1.IsNil() && v2.IsNil()

	default:
		return v1.Equal(v2)
	}
}

func markVisited(visited map[visit]bool, v1, v2 reflect.Value) (equal, cyclic bool) {
	key := visit{a: v1.Pointer(), b: v2.Pointer(), typ: v1.Type()}
	if visited[key] {
		return true, true
	}
	visited[key] = true
	return false, false
}

func markVisitedSlices(visited map[visit]bool, v1, v2 reflect.Value) (equal, cyclic bool) {
	key := visit{a: v1.Pointer(), b: v2.Pointer(), typ: v1.Type()}
	if visited[key] {
		return true, true
	}
	visited[key] = true
	return false, false
}

func markVisitedMaps(visited map[visit]bool, v1, v2 reflect.Value) (equal, cyclic bool) {
	key := visit{a: v1.Pointer(), b: v2.Pointer(), typ: v1.Type()}
	if visited[key] {
		return true, true
	}
	visited[key] = true
	return false, false
}
