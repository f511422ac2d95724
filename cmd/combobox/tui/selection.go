package tui

import (
	"errors"
	"slices"
)

var (
	// ErrUncontrolled is returned by SetValue on a widget that owns its value.
	ErrUncontrolled = errors.New("select owns its value; construct it with Controlled to control it")

	// ErrModeMismatch is returned when a single value is given to a
	// multi-select widget or vice versa.
	ErrModeMismatch = errors.New("selection mode does not match widget mode")
)

// Selection is the value of a Select. In single mode it holds at most one
// value; in multi mode it holds an ordered set where the order is the order in
// which values were first selected.
type Selection[V comparable] struct {
	multiple bool
	values   []V
}

// NoValue returns an empty single-mode selection.
func NoValue[V comparable]() Selection[V] {
	return Selection[V]{}
}

// SingleValue returns a single-mode selection holding v.
func SingleValue[V comparable](v V) Selection[V] {
	return Selection[V]{values: []V{v}}
}

// MultiValue returns a multi-mode selection holding vs in order. Repeated
// values keep their first position.
func MultiValue[V comparable](vs ...V) Selection[V] {
	s := Selection[V]{multiple: true, values: []V{}}
	for _, v := range vs {
		if !s.Has(v) {
			s.values = append(s.values, v)
		}
	}
	return s
}

// Multiple reports whether this is a multi-mode selection.
func (s Selection[V]) Multiple() bool { return s.multiple }

// Value returns the single selected value. In multi mode it returns the first
// selected value, if any.
func (s Selection[V]) Value() (V, bool) {
	if len(s.values) == 0 {
		var zero V
		return zero, false
	}
	return s.values[0], true
}

// Values returns a copy of the selected values. It is never nil in multi mode.
func (s Selection[V]) Values() []V {
	if s.values == nil && !s.multiple {
		return nil
	}
	out := make([]V, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of selected values.
func (s Selection[V]) Len() int { return len(s.values) }

// Has reports whether v is selected.
func (s Selection[V]) Has(v V) bool {
	return slices.Contains(s.values, v)
}

// Equal reports whether two selections hold the same values in the same order.
func (s Selection[V]) Equal(o Selection[V]) bool {
	return s.multiple == o.multiple && slices.Equal(s.values, o.values)
}

// toggle adds v at the end or removes it if already present.
func (s Selection[V]) toggle(v V) Selection[V] {
	if s.Has(v) {
		return s.without(v)
	}
	out := Selection[V]{multiple: s.multiple, values: make([]V, 0, len(s.values)+1)}
	out.values = append(out.values, s.values...)
	out.values = append(out.values, v)
	return out
}

// without returns a copy of s with v removed.
func (s Selection[V]) without(v V) Selection[V] {
	out := Selection[V]{multiple: s.multiple, values: make([]V, 0, len(s.values))}
	for _, x := range s.values {
		if x != v {
			out.values = append(out.values, x)
		}
	}
	return out
}

// ValueSource decides once, at construction, who owns a Select's value.
type ValueSource[V comparable] struct {
	external bool
	sel      Selection[V]
}

// Uncontrolled lets the Select own its value, seeded with initial.
func Uncontrolled[V comparable](initial Selection[V]) ValueSource[V] {
	return ValueSource[V]{sel: initial}
}

// Controlled makes the owner the source of truth. The Select mirrors value and
// only reports changes; the owner feeds them back with SetValue.
func Controlled[V comparable](value Selection[V]) ValueSource[V] {
	return ValueSource[V]{external: true, sel: value}
}

// valueState is the live form of a ValueSource. The external tag never
// changes after construction.
type valueState[V comparable] struct {
	external bool
	sel      Selection[V]
}

func newValueState[V comparable](src ValueSource[V], multiple bool) valueState[V] {
	return valueState[V]{external: src.external, sel: coerce(src.sel, multiple)}
}

func (v valueState[V]) current() Selection[V] { return v.sel }

// commit records a user-driven change. Controlled state ignores it and waits
// for the owner to call mirror.
func (v *valueState[V]) commit(s Selection[V]) {
	if !v.external {
		v.sel = s
	}
}

func (v *valueState[V]) mirror(s Selection[V]) error {
	if !v.external {
		return ErrUncontrolled
	}
	if s.multiple != v.sel.multiple {
		return ErrModeMismatch
	}
	v.sel = s
	return nil
}

// coerce converts s to the requested mode. A multi selection narrowed to
// single mode keeps its first value.
func coerce[V comparable](s Selection[V], multiple bool) Selection[V] {
	if s.multiple == multiple {
		if multiple && s.values == nil {
			s.values = []V{}
		}
		return s
	}
	if multiple {
		return MultiValue(s.values...)
	}
	if v, ok := s.Value(); ok {
		return SingleValue(v)
	}
	return NoValue[V]()
}
