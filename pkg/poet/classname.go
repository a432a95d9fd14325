package poet

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ClassName is a fully-qualified reference to a declared class, interface,
// enum or annotation type. The first segment is the package (empty for the
// default package); the rest are simple names from the top-level type inward.
type ClassName struct {
	names []string
}

var (
	ObjectClass   = MustClassName("java.lang", "Object")
	StringClass   = MustClassName("java.lang", "String")
	OverrideClass = MustClassName("java.lang", "Override")
)

// NewClassName validates and returns the class pkg.simple[.nested...].
func NewClassName(pkg, simple string, nested ...string) (ClassName, error) {
	if pkg != "" && !IsName(pkg) {
		return ClassName{}, markf(ErrInvalidName, "not a valid package name: %q", pkg)
	}
	names := make([]string, 0, len(nested)+2)
	names = append(names, pkg, simple)
	names = append(names, nested...)
	for _, n := range names[1:] {
		if err := checkName("class", n); err != nil {
			return ClassName{}, err
		}
	}
	return ClassName{names: names}, nil
}

// MustClassName is like NewClassName but panics on an invalid name. It is
// meant for package-level variables.
func MustClassName(pkg, simple string, nested ...string) ClassName {
	c, err := NewClassName(pkg, simple, nested...)
	if err != nil {
		panic(err)
	}
	return c
}

// BestGuess splits a canonical name such as "java.util.Map.Entry" assuming
// the usual convention: package segments are lowercase and the first
// capitalized segment starts the class chain.
func BestGuess(canonical string) (ClassName, error) {
	parts := strings.Split(canonical, ".")
	split := -1
	for i, p := range parts {
		r, _ := utf8.DecodeRuneInString(p)
		if unicode.IsUpper(r) {
			split = i
			break
		}
	}
	if split < 0 {
		return ClassName{}, markf(ErrInvalidName, "couldn't make a guess for %q", canonical)
	}
	c, err := NewClassName(strings.Join(parts[:split], "."), parts[split], parts[split+1:]...)
	if err != nil {
		return ClassName{}, errors.Wrapf(err, "guess %q", canonical)
	}
	return c, nil
}

// IsZero reports whether c was never initialized.
func (c ClassName) IsZero() bool { return len(c.names) < 2 }

func (c ClassName) PackageName() string {
	if c.IsZero() {
		return ""
	}
	return c.names[0]
}

func (c ClassName) SimpleName() string {
	if c.IsZero() {
		return ""
	}
	return c.names[len(c.names)-1]
}

// SimpleNames returns the class chain without the package.
func (c ClassName) SimpleNames() []string {
	if c.IsZero() {
		return nil
	}
	out := make([]string, len(c.names)-1)
	copy(out, c.names[1:])
	return out
}

// EnclosingClassName returns the class that declares c, if c is nested.
func (c ClassName) EnclosingClassName() (ClassName, bool) {
	if len(c.names) <= 2 {
		return ClassName{}, false
	}
	return ClassName{names: c.names[:len(c.names)-1 : len(c.names)-1]}, true
}

func (c ClassName) TopLevelClassName() ClassName {
	if c.IsZero() {
		return c
	}
	return ClassName{names: c.names[:2:2]}
}

// NestedClass returns a member class of c. The name is not validated here;
// the builders check the names they declare.
func (c ClassName) NestedClass(name string) ClassName {
	names := make([]string, len(c.names), len(c.names)+1)
	copy(names, c.names)
	return ClassName{names: append(names, name)}
}

// PeerClass returns a class declared alongside c.
func (c ClassName) PeerClass(name string) ClassName {
	names := make([]string, len(c.names))
	copy(names, c.names)
	names[len(names)-1] = name
	return ClassName{names: names}
}

// ReflectionName is the binary name, e.g. "java.util.Map$Entry".
func (c ClassName) ReflectionName() string {
	return c.join("$")
}

// CanonicalName is the dotted source name, e.g. "java.util.Map.Entry".
func (c ClassName) CanonicalName() string {
	return c.join(".")
}

func (c ClassName) join(nestedSep string) string {
	if c.IsZero() {
		return ""
	}
	var sb strings.Builder
	if c.names[0] != "" {
		sb.WriteString(c.names[0])
		sb.WriteByte('.')
	}
	sb.WriteString(strings.Join(c.names[1:], nestedSep))
	return sb.String()
}

func (c ClassName) String() string { return c.CanonicalName() }

func (c ClassName) Equal(o ClassName) bool {
	if len(c.names) != len(o.names) {
		return false
	}
	for i := range c.names {
		if c.names[i] != o.names[i] {
			return false
		}
	}
	return true
}

// Compare orders class names by canonical name.
func (c ClassName) Compare(o ClassName) int {
	return strings.Compare(c.CanonicalName(), o.CanonicalName())
}

func (c ClassName) emit(w *codeWriter) error {
	if c.IsZero() {
		return markf(ErrInvalidType, "zero class name")
	}
	return w.emitAndIndent(w.lookupName(c))
}
