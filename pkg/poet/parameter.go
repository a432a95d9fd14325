package poet

import (
	"hash/fnv"

	"github.com/google/go-cmp/cmp"
)

// ParameterSpec is a method or constructor parameter.
type ParameterSpec struct {
	name string
	node *lazy[parameterData]
}

type parameterData struct {
	Name        string
	Type        TypeName
	Javadoc     CodeBlock
	Annotations []*AnnotationSpec
	Modifiers   Modifier
}

type ParameterBuilder struct {
	typ         TypeName
	name        string
	javadoc     *CodeBlockBuilder
	annotations []*AnnotationSpec
	modifiers   Modifier
}

func NewParameterBuilder(typ TypeName, name string, mods ...Modifier) *ParameterBuilder {
	return &ParameterBuilder{
		typ:       typ,
		name:      name,
		javadoc:   NewCodeBlock(),
		modifiers: modifiersOf(mods...),
	}
}

// Parameter is shorthand for NewParameterBuilder(...).Build().
func Parameter(typ TypeName, name string, mods ...Modifier) *ParameterSpec {
	return NewParameterBuilder(typ, name, mods...).Build()
}

// AddJavadoc documents the parameter; the text becomes an @param tag of the
// enclosing method.
func (b *ParameterBuilder) AddJavadoc(format string, args ...any) *ParameterBuilder {
	b.javadoc.Add(format, args...)
	return b
}

func (b *ParameterBuilder) AddAnnotation(a *AnnotationSpec) *ParameterBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

func (b *ParameterBuilder) AddModifiers(mods ...Modifier) *ParameterBuilder {
	b.modifiers |= modifiersOf(mods...)
	return b
}

func (b *ParameterBuilder) Build() *ParameterSpec {
	return &ParameterSpec{name: b.name, node: newLazy("parameter", b.name, b.construct)}
}

func (b *ParameterBuilder) construct() (parameterData, error) {
	var errs error
	if err := checkName("parameter", b.name); err != nil {
		errs = combine(errs, err)
	}
	if b.typ == nil {
		errs = combine(errs, markf(ErrInvalidType, "parameter %s has no type", b.name))
	} else if b.typ == Void {
		errs = combine(errs, markf(ErrInvalidType, "parameter %s cannot be void", b.name))
	}
	if !b.modifiers.Without(Final).IsEmpty() {
		errs = combine(errs, markf(ErrConstruction, "parameter %s: only final is allowed, got %s", b.name, b.modifiers))
	}
	javadoc, err := b.javadoc.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	for _, a := range b.annotations {
		if err := a.Validate(); err != nil {
			errs = combine(errs, err)
		}
	}
	if errs != nil {
		return parameterData{}, errs
	}
	return parameterData{
		Name:        b.name,
		Type:        b.typ,
		Javadoc:     javadoc,
		Annotations: append([]*AnnotationSpec(nil), b.annotations...),
		Modifiers:   b.modifiers,
	}, nil
}

func (p *ParameterSpec) Name() string { return p.name }

func (p *ParameterSpec) Validate() error {
	_, err := p.node.get(nil)
	return err
}

func (p *ParameterSpec) Equal(o *ParameterSpec) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil {
		return false
	}
	x, errX := p.node.get(nil)
	y, errY := o.node.get(nil)
	if errX != nil || errY != nil {
		return false
	}
	return cmp.Equal(x, y, equalOpts...)
}

func (p *ParameterSpec) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.String()))
	return h.Sum64()
}

func (p *ParameterSpec) String() string {
	s, err := renderDetached(func(w *codeWriter) error { return p.emit(w, false) })
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

func (p *ParameterSpec) emit(w *codeWriter, varargs bool) error {
	d, err := p.node.get(w.cfg)
	if err != nil {
		return err
	}
	if err := w.emitAnnotations(d.Annotations, true); err != nil {
		return err
	}
	if err := w.emitModifiers(d.Modifiers, 0); err != nil {
		return err
	}
	if varargs {
		arr, ok := d.Type.(ArrayTypeName)
		if !ok {
			return markf(ErrInvalidType, "varargs parameter %s is not an array", d.Name)
		}
		err = arr.emitArray(w, true)
	} else {
		err = d.Type.emit(w)
	}
	if err != nil {
		return err
	}
	return w.emit(" %L", d.Name)
}
