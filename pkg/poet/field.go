package poet

import (
	"hash/fnv"

	"github.com/google/go-cmp/cmp"
)

// FieldSpec is a field declaration.
type FieldSpec struct {
	name string
	node *lazy[fieldData]
}

type fieldData struct {
	Name        string
	Type        TypeName
	Javadoc     CodeBlock
	Annotations []*AnnotationSpec
	Modifiers   Modifier
	Initializer CodeBlock
}

type FieldBuilder struct {
	typ         TypeName
	name        string
	javadoc     *CodeBlockBuilder
	annotations []*AnnotationSpec
	modifiers   Modifier
	initializer *CodeBlockBuilder
	initialized bool
	errs        error
}

func NewFieldBuilder(typ TypeName, name string, mods ...Modifier) *FieldBuilder {
	return &FieldBuilder{
		typ:         typ,
		name:        name,
		javadoc:     NewCodeBlock(),
		initializer: NewCodeBlock(),
		modifiers:   modifiersOf(mods...),
	}
}

func (b *FieldBuilder) AddJavadoc(format string, args ...any) *FieldBuilder {
	b.javadoc.Add(format, args...)
	return b
}

func (b *FieldBuilder) AddAnnotation(a *AnnotationSpec) *FieldBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

func (b *FieldBuilder) AddModifiers(mods ...Modifier) *FieldBuilder {
	b.modifiers |= modifiersOf(mods...)
	return b
}

// Initializer sets the expression after "=". It may be set only once.
func (b *FieldBuilder) Initializer(format string, args ...any) *FieldBuilder {
	c, err := CodeOf(format, args...)
	if err != nil {
		b.errs = combine(b.errs, err)
		return b
	}
	return b.InitializerCode(c)
}

func (b *FieldBuilder) InitializerCode(c CodeBlock) *FieldBuilder {
	if b.initialized {
		b.errs = combine(b.errs, markf(ErrConstruction, "field %s: initializer was already set", b.name))
		return b
	}
	b.initialized = true
	b.initializer.AddCode(c)
	return b
}

func (b *FieldBuilder) Build() *FieldSpec {
	return &FieldSpec{name: b.name, node: newLazy("field", b.name, b.construct)}
}

func (b *FieldBuilder) construct() (fieldData, error) {
	errs := b.errs
	if err := checkName("field", b.name); err != nil {
		errs = combine(errs, err)
	}
	if b.typ == nil {
		errs = combine(errs, markf(ErrInvalidType, "field %s has no type", b.name))
	} else if b.typ == Void {
		errs = combine(errs, markf(ErrInvalidType, "field %s cannot be void", b.name))
	}
	javadoc, err := b.javadoc.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	init, err := b.initializer.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	for _, a := range b.annotations {
		if err := a.Validate(); err != nil {
			errs = combine(errs, err)
		}
	}
	if errs != nil {
		return fieldData{}, errs
	}
	return fieldData{
		Name:        b.name,
		Type:        b.typ,
		Javadoc:     javadoc,
		Annotations: append([]*AnnotationSpec(nil), b.annotations...),
		Modifiers:   b.modifiers,
		Initializer: init,
	}, nil
}

func (f *FieldSpec) Name() string { return f.name }

// Modifiers forces construction; it returns 0 for a field that fails it.
func (f *FieldSpec) Modifiers() Modifier {
	d, _ := f.node.get(nil)
	return d.Modifiers
}

func (f *FieldSpec) Validate() error {
	_, err := f.node.get(nil)
	return err
}

func (f *FieldSpec) Equal(o *FieldSpec) bool {
	if f == o {
		return true
	}
	if f == nil || o == nil {
		return false
	}
	x, errX := f.node.get(nil)
	y, errY := o.node.get(nil)
	if errX != nil || errY != nil {
		return false
	}
	return cmp.Equal(x, y, equalOpts...)
}

func (f *FieldSpec) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(f.String()))
	return h.Sum64()
}

func (f *FieldSpec) String() string {
	s, err := renderDetached(func(w *codeWriter) error { return f.emit(w, 0) })
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

func (f *FieldSpec) emit(w *codeWriter, implicit Modifier) error {
	d, err := f.node.get(w.cfg)
	if err != nil {
		return err
	}
	if err := w.emitJavadoc(d.Javadoc); err != nil {
		return err
	}
	if err := w.emitAnnotations(d.Annotations, false); err != nil {
		return err
	}
	if err := w.emitModifiers(d.Modifiers, implicit); err != nil {
		return err
	}
	if err := w.emit("%[%T %L", d.Type, d.Name); err != nil {
		return err
	}
	if !d.Initializer.IsEmpty() {
		if err := w.emitAndIndent(" = "); err != nil {
			return err
		}
		if err := w.emitCode(d.Initializer, false); err != nil {
			return err
		}
	}
	return w.emit(";\n%]")
}
