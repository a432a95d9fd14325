package poet

import (
	"fmt"
	"strings"
)

// TypeName is any reference to a Java type that can appear in source text.
// Implementations are ClassName, PrimitiveType, ArrayTypeName,
// ParameterizedTypeName, TypeVariableName and WildcardTypeName.
type TypeName interface {
	fmt.Stringer
	emit(w *codeWriter) error
}

// PrimitiveType is a keyword type such as int or void.
type PrimitiveType string

const (
	Void    PrimitiveType = "void"
	Boolean PrimitiveType = "boolean"
	Byte    PrimitiveType = "byte"
	Short   PrimitiveType = "short"
	Int     PrimitiveType = "int"
	Long    PrimitiveType = "long"
	Char    PrimitiveType = "char"
	Float   PrimitiveType = "float"
	Double  PrimitiveType = "double"
)

var primitives = map[string]PrimitiveType{
	"void": Void, "boolean": Boolean, "byte": Byte, "short": Short, "int": Int,
	"long": Long, "char": Char, "float": Float, "double": Double,
}

// LookupPrimitive returns the primitive type spelled s.
func LookupPrimitive(s string) (PrimitiveType, bool) {
	p, ok := primitives[s]
	return p, ok
}

func (p PrimitiveType) String() string { return string(p) }

func (p PrimitiveType) emit(w *codeWriter) error {
	if _, ok := primitives[string(p)]; !ok {
		return markf(ErrInvalidType, "unknown primitive %q", string(p))
	}
	return w.emitAndIndent(string(p))
}

// Boxed returns the wrapper class of a primitive.
func (p PrimitiveType) Boxed() ClassName {
	switch p {
	case Void:
		return MustClassName("java.lang", "Void")
	case Int:
		return MustClassName("java.lang", "Integer")
	case Char:
		return MustClassName("java.lang", "Character")
	default:
		s := string(p)
		return MustClassName("java.lang", strings.ToUpper(s[:1])+s[1:])
	}
}

// ArrayTypeName is Component[].
type ArrayTypeName struct {
	Component TypeName
}

func ArrayOf(component TypeName) ArrayTypeName {
	return ArrayTypeName{Component: component}
}

func (a ArrayTypeName) String() string { return typeString(a) }

func (a ArrayTypeName) emit(w *codeWriter) error {
	return a.emitArray(w, false)
}

// emitArray writes the outermost dimension as "..." when varargs is set.
func (a ArrayTypeName) emitArray(w *codeWriter, varargs bool) error {
	if a.Component == nil {
		return markf(ErrInvalidType, "array without component type")
	}
	if a.Component == Void {
		return markf(ErrInvalidType, "void is not a valid array component")
	}
	if err := a.Component.emit(w); err != nil {
		return err
	}
	if varargs {
		return w.emitAndIndent("...")
	}
	return w.emitAndIndent("[]")
}

// ParameterizedTypeName is Raw<Args...>.
type ParameterizedTypeName struct {
	Raw  ClassName
	Args []TypeName
}

func ParameterizedOf(raw ClassName, args ...TypeName) ParameterizedTypeName {
	return ParameterizedTypeName{Raw: raw, Args: args}
}

func (p ParameterizedTypeName) String() string { return typeString(p) }

func (p ParameterizedTypeName) emit(w *codeWriter) error {
	if len(p.Args) == 0 {
		return markf(ErrInvalidType, "no type arguments for %s", p.Raw)
	}
	if err := p.Raw.emit(w); err != nil {
		return err
	}
	if err := w.emitAndIndent("<"); err != nil {
		return err
	}
	for i, arg := range p.Args {
		if _, ok := arg.(PrimitiveType); ok {
			return markf(ErrInvalidType, "invalid type argument %s for %s", arg, p.Raw)
		}
		if i > 0 {
			if err := w.emitAndIndent(", "); err != nil {
				return err
			}
		}
		if err := arg.emit(w); err != nil {
			return err
		}
	}
	return w.emitAndIndent(">")
}

// TypeVariableName is a type parameter such as T or E extends Comparable<E>.
// Bounds are only written where the variable is declared.
type TypeVariableName struct {
	Name   string
	Bounds []TypeName
}

func TypeVariable(name string, bounds ...TypeName) TypeVariableName {
	return TypeVariableName{Name: name, Bounds: bounds}
}

func (t TypeVariableName) String() string { return t.Name }

func (t TypeVariableName) emit(w *codeWriter) error {
	return w.emitAndIndent(t.Name)
}

// WildcardTypeName is ?, ? extends Upper or ? super Lower.
type WildcardTypeName struct {
	Upper []TypeName
	Lower []TypeName
}

// Wildcard returns the unbounded wildcard.
func Wildcard() WildcardTypeName {
	return WildcardTypeName{Upper: []TypeName{ObjectClass}}
}

func SubtypeOf(upper TypeName) WildcardTypeName {
	return WildcardTypeName{Upper: []TypeName{upper}}
}

func SupertypeOf(lower TypeName) WildcardTypeName {
	return WildcardTypeName{Upper: []TypeName{ObjectClass}, Lower: []TypeName{lower}}
}

func (t WildcardTypeName) String() string { return typeString(t) }

func (t WildcardTypeName) emit(w *codeWriter) error {
	if len(t.Lower) == 1 {
		if err := w.emitAndIndent("? super "); err != nil {
			return err
		}
		return t.Lower[0].emit(w)
	}
	if len(t.Upper) == 0 {
		return w.emitAndIndent("?")
	}
	if c, ok := t.Upper[0].(ClassName); ok && c.Equal(ObjectClass) {
		return w.emitAndIndent("?")
	}
	if err := w.emitAndIndent("? extends "); err != nil {
		return err
	}
	return t.Upper[0].emit(w)
}

// typeString renders t outside of any file: every class is fully qualified.
func typeString(t TypeName) string {
	s, err := renderDetached(func(w *codeWriter) error { return t.emit(w) })
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return s
}
