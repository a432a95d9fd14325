package model

import "strings"

type Kind int

const (
	KindInvalid       Kind = iota
	KindPrimitive          // int, boolean, void, ...
	KindNamed              // a class or type variable, resolved later
	KindArray              // Elem[]
	KindParameterized      // Name<Args...>
	KindWildcard           // ?, ? extends Bound, ? super Bound
)

// TypeRef is a parsed type expression such as java.util.Map<K, List<? extends V>>[].
// Names are kept as written; the builder resolves them against the document.
type TypeRef struct {
	Kind Kind
	Name string // primitive keyword or dotted class name

	Elem  *TypeRef   // KindArray
	Args  []*TypeRef // KindParameterized
	Bound *TypeRef   // KindWildcard, nil for ?
	Super bool       // KindWildcard lower bound
}

func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.String() + "[]"
	case KindParameterized:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	case KindWildcard:
		switch {
		case t.Bound == nil:
			return "?"
		case t.Super:
			return "? super " + t.Bound.String()
		default:
			return "? extends " + t.Bound.String()
		}
	default:
		return t.Name
	}
}
