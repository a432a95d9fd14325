package poet

import (
	"strings"
)

// Modifier is a set of Java modifiers. Individual modifiers are single bits
// and combine with |. Declaration order of the constants is the canonical
// emission order.
type Modifier uint16

const (
	Public Modifier = 1 << iota
	Protected
	Private
	Abstract
	Default
	Static
	Final
	Transient
	Volatile
	Synchronized
	Native
	Strictfp
)

var modifierNames = [...]string{
	"public", "protected", "private", "abstract", "default", "static",
	"final", "transient", "volatile", "synchronized", "native", "strictfp",
}

func modifiersOf(mods ...Modifier) Modifier {
	var m Modifier
	for _, x := range mods {
		m |= x
	}
	return m
}

// Has reports whether every bit of x is present in m.
func (m Modifier) Has(x Modifier) bool { return m&x == x }

// Without returns m with the bits of x cleared.
func (m Modifier) Without(x Modifier) Modifier { return m &^ x }

func (m Modifier) IsEmpty() bool { return m == 0 }

// Each yields single modifiers in canonical order.
func (m Modifier) Each(fn func(Modifier)) {
	for i := range modifierNames {
		bit := Modifier(1) << i
		if m&bit != 0 {
			fn(bit)
		}
	}
}

func (m Modifier) String() string {
	parts := make([]string, 0, 4)
	for i, name := range modifierNames {
		if m&(Modifier(1)<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifier maps a Java keyword to its modifier.
func ParseModifier(s string) (Modifier, bool) {
	for i, name := range modifierNames {
		if name == s {
			return Modifier(1) << i, true
		}
	}
	return 0, false
}

// exactlyOneOf reports whether m holds exactly one of the given modifiers.
func (m Modifier) exactlyOneOf(mods ...Modifier) bool {
	n := 0
	for _, x := range mods {
		if m.Has(x) {
			n++
		}
	}
	return n == 1
}
