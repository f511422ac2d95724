package tui

import (
	"errors"
	"fmt"
)

// ErrDuplicateValue is returned by ValidateOptions when two options share a value.
var ErrDuplicateValue = errors.New("duplicate option value")

// Option is a single selectable entry. Value is the option's identity and is
// expected to be unique within one option list.
type Option[V comparable] struct {
	Label    string
	Value    V
	Disabled bool
	Icon     string // optional glyph rendered before the label
}

// NewOption creates an enabled option.
func NewOption[V comparable](label string, value V) Option[V] {
	return Option[V]{Label: label, Value: value}
}

// WithDisabled returns a copy of the option with the disabled flag set.
func (o Option[V]) WithDisabled(disabled bool) Option[V] {
	o.Disabled = disabled
	return o
}

// WithIcon returns a copy of the option with the given icon.
func (o Option[V]) WithIcon(icon string) Option[V] {
	o.Icon = icon
	return o
}

// display returns the label with the icon prefix, if any.
func (o Option[V]) display() string {
	if o.Icon == "" {
		return o.Label
	}
	return o.Icon + " " + o.Label
}

// ValidateOptions reports the first value that appears more than once.
func ValidateOptions[V comparable](opts []Option[V]) error {
	seen := make(map[V]struct{}, len(opts))
	for _, o := range opts {
		if _, ok := seen[o.Value]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicateValue, o.Value)
		}
		seen[o.Value] = struct{}{}
	}
	return nil
}

// findOption returns the first option carrying value v.
func findOption[V comparable](opts []Option[V], v V) (Option[V], bool) {
	for _, o := range opts {
		if o.Value == v {
			return o, true
		}
	}
	return Option[V]{}, false
}

// labelFor resolves the display label for v, falling back to the raw value
// when the option is not in the current list.
func labelFor[V comparable](opts []Option[V], v V) string {
	if o, ok := findOption(opts, v); ok {
		return o.display()
	}
	return fmt.Sprint(v)
}
