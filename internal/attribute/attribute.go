// Package attribute validates and reconciles the open attribute map carried by topic configs.
//
// Requested attribute maps are operations rather than values: a key prefixed with
// '+' adds or updates an attribute, a key prefixed with '-' deletes it. Stored maps
// use the bare attribute names.
package attribute

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Attribute describes one recognized attribute and how its values are checked.
type Attribute interface {
	Name() string
	// Changeable reports whether the attribute may be altered after topic creation.
	Changeable() bool
	Verify(value string) error
}

type base struct {
	name       string
	changeable bool
}

func (b base) Name() string     { return b.name }
func (b base) Changeable() bool { return b.changeable }

// BoolAttribute accepts "true" or "false".
type BoolAttribute struct {
	base
	Default bool
}

// NewBool returns a boolean attribute.
func NewBool(name string, changeable, def bool) *BoolAttribute {
	return &BoolAttribute{base: base{name: name, changeable: changeable}, Default: def}
}

// Verify implements Attribute.
func (a *BoolAttribute) Verify(value string) error {
	if value != "true" && value != "false" {
		return fmt.Errorf("%s: boolean value must be true or false, got %q", a.name, value)
	}
	return nil
}

// EnumAttribute accepts one value out of a fixed universe.
type EnumAttribute struct {
	base
	Universe []string
	Default  string
}

// NewEnum returns an enum attribute.
func NewEnum(name string, changeable bool, universe []string, def string) *EnumAttribute {
	return &EnumAttribute{base: base{name: name, changeable: changeable}, Universe: universe, Default: def}
}

// Verify implements Attribute.
func (a *EnumAttribute) Verify(value string) error {
	if !slices.Contains(a.Universe, value) {
		return fmt.Errorf("%s: value %q is not in set [%s]", a.name, value, strings.Join(a.Universe, ", "))
	}
	return nil
}

// LongAttribute accepts an integer within [Min, Max].
type LongAttribute struct {
	base
	Min, Max, Default int64
}

// NewLong returns a ranged integer attribute.
func NewLong(name string, changeable bool, min, max, def int64) *LongAttribute {
	return &LongAttribute{base: base{name: name, changeable: changeable}, Min: min, Max: max, Default: def}
}

// Verify implements Attribute.
func (a *LongAttribute) Verify(value string) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", a.name, value)
	}
	if n < a.Min || n > a.Max {
		return fmt.Errorf("%s: value %d is not in range [%d, %d]", a.name, n, a.Min, a.Max)
	}
	return nil
}
