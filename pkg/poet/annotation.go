package poet

import (
	"hash/fnv"

	"github.com/google/go-cmp/cmp"
)

// AnnotationSpec is a use of an annotation, such as @Named("x").
type AnnotationSpec struct {
	typ  ClassName
	node *lazy[annotationData]
}

type annotationMember struct {
	Name   string
	Values []CodeBlock
}

type annotationData struct {
	Type    ClassName
	Members []annotationMember
}

type AnnotationBuilder struct {
	typ     ClassName
	members []annotationMember
	errs    error
}

func NewAnnotationBuilder(typ ClassName) *AnnotationBuilder {
	return &AnnotationBuilder{typ: typ}
}

// AddMember appends a value to member name. Several values for the same
// member are written as an array.
func (b *AnnotationBuilder) AddMember(name, format string, args ...any) *AnnotationBuilder {
	c, err := CodeOf(format, args...)
	if err != nil {
		b.errs = combine(b.errs, err)
		return b
	}
	return b.AddMemberCode(name, c)
}

func (b *AnnotationBuilder) AddMemberCode(name string, c CodeBlock) *AnnotationBuilder {
	for i := range b.members {
		if b.members[i].Name == name {
			b.members[i].Values = append(b.members[i].Values, c)
			return b
		}
	}
	b.members = append(b.members, annotationMember{Name: name, Values: []CodeBlock{c}})
	return b
}

func (b *AnnotationBuilder) Build() *AnnotationSpec {
	return &AnnotationSpec{typ: b.typ, node: newLazy("annotation", b.typ.SimpleName(), b.construct)}
}

func (b *AnnotationBuilder) construct() (annotationData, error) {
	errs := b.errs
	if b.typ.IsZero() {
		errs = combine(errs, markf(ErrInvalidType, "annotation without a type"))
	}
	members := make([]annotationMember, len(b.members))
	for i, m := range b.members {
		if err := checkName("annotation member", m.Name); err != nil {
			errs = combine(errs, err)
		}
		members[i] = annotationMember{Name: m.Name, Values: append([]CodeBlock(nil), m.Values...)}
	}
	if errs != nil {
		return annotationData{}, errs
	}
	return annotationData{Type: b.typ, Members: members}, nil
}

// Annotation returns an annotation without members.
func Annotation(typ ClassName) *AnnotationSpec {
	return NewAnnotationBuilder(typ).Build()
}

func (a *AnnotationSpec) Name() string { return a.typ.SimpleName() }

func (a *AnnotationSpec) Type() ClassName { return a.typ }

// Validate forces construction and reports its outcome.
func (a *AnnotationSpec) Validate() error {
	_, err := a.node.get(nil)
	return err
}

func (a *AnnotationSpec) Equal(o *AnnotationSpec) bool {
	if a == o {
		return true
	}
	if a == nil || o == nil {
		return false
	}
	x, errX := a.node.get(nil)
	y, errY := o.node.get(nil)
	if errX != nil || errY != nil {
		return false
	}
	return cmp.Equal(x, y, equalOpts...)
}

func (a *AnnotationSpec) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(a.String()))
	return h.Sum64()
}

func (a *AnnotationSpec) String() string {
	s, err := renderDetached(func(w *codeWriter) error { return a.emit(w, true) })
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// emit writes the annotation. Inline annotations keep their members on one
// line; otherwise each member gets its own line.
func (a *AnnotationSpec) emit(w *codeWriter, inline bool) error {
	d, err := a.node.get(w.cfg)
	if err != nil {
		return err
	}
	whitespace, sep := "\n", ",\n"
	if inline {
		whitespace, sep = "", ", "
	}
	cont := w.cfg.ContinuationIndent

	switch {
	case len(d.Members) == 0:
		return w.emit("@%T", d.Type)
	case len(d.Members) == 1 && d.Members[0].Name == "value":
		if err := w.emit("@%T(", d.Type); err != nil {
			return err
		}
		if err := emitAnnotationValues(w, whitespace, sep, d.Members[0].Values); err != nil {
			return err
		}
		return w.emitAndIndent(")")
	}

	if err := w.emit("@%T("+whitespace, d.Type); err != nil {
		return err
	}
	err = w.indented(cont, func() error {
		for i, m := range d.Members {
			if err := w.emit("%L = ", m.Name); err != nil {
				return err
			}
			if err := emitAnnotationValues(w, whitespace, sep, m.Values); err != nil {
				return err
			}
			if i < len(d.Members)-1 {
				if err := w.emitAndIndent(sep); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.emitAndIndent(whitespace + ")")
}

func emitAnnotationValues(w *codeWriter, whitespace, sep string, values []CodeBlock) error {
	cont := w.cfg.ContinuationIndent
	if len(values) == 1 {
		return w.indented(cont, func() error { return w.emitCode(values[0], false) })
	}
	if err := w.emitAndIndent("{" + whitespace); err != nil {
		return err
	}
	err := w.indented(cont, func() error {
		for i, v := range values {
			if i > 0 {
				if err := w.emitAndIndent(sep); err != nil {
					return err
				}
			}
			if err := w.emitCode(v, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.emitAndIndent(whitespace + "}")
}
