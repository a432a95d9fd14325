package poet

import (
	"hash/fnv"

	"github.com/google/go-cmp/cmp"
)

const constructorName = "<init>"

// MethodSpec is a method or constructor declaration.
type MethodSpec struct {
	name string
	node *lazy[methodData]
}

type methodData struct {
	Name          string
	Javadoc       CodeBlock
	Annotations   []*AnnotationSpec
	Modifiers     Modifier
	TypeVariables []TypeVariableName
	Returns       TypeName
	Parameters    []*ParameterSpec
	Varargs       bool
	Exceptions    []TypeName
	Code          CodeBlock
	DefaultValue  CodeBlock
}

type MethodBuilder struct {
	name          string
	javadoc       *CodeBlockBuilder
	annotations   []*AnnotationSpec
	modifiers     Modifier
	typeVariables []TypeVariableName
	returns       TypeName
	parameters    []*ParameterSpec
	varargs       bool
	exceptions    []TypeName
	code          *CodeBlockBuilder
	defaultValue  *CodeBlock
	errs          error
}

func NewMethodBuilder(name string) *MethodBuilder {
	return &MethodBuilder{
		name:    name,
		javadoc: NewCodeBlock(),
		code:    NewCodeBlock(),
		returns: Void,
	}
}

func NewConstructorBuilder() *MethodBuilder {
	b := NewMethodBuilder(constructorName)
	b.returns = nil
	return b
}

func (b *MethodBuilder) AddJavadoc(format string, args ...any) *MethodBuilder {
	b.javadoc.Add(format, args...)
	return b
}

func (b *MethodBuilder) AddAnnotation(a *AnnotationSpec) *MethodBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

func (b *MethodBuilder) AddModifiers(mods ...Modifier) *MethodBuilder {
	b.modifiers |= modifiersOf(mods...)
	return b
}

func (b *MethodBuilder) AddTypeVariables(tvs ...TypeVariableName) *MethodBuilder {
	b.typeVariables = append(b.typeVariables, tvs...)
	return b
}

func (b *MethodBuilder) Returns(t TypeName) *MethodBuilder {
	if b.name == constructorName {
		b.errs = combine(b.errs, markf(ErrConstruction, "constructor cannot have a return type"))
		return b
	}
	b.returns = t
	return b
}

func (b *MethodBuilder) AddParameter(p *ParameterSpec) *MethodBuilder {
	b.parameters = append(b.parameters, p)
	return b
}

// AddParameterOf is shorthand for AddParameter(Parameter(typ, name, mods...)).
func (b *MethodBuilder) AddParameterOf(typ TypeName, name string, mods ...Modifier) *MethodBuilder {
	return b.AddParameter(Parameter(typ, name, mods...))
}

// Varargs makes the last parameter, which must be an array, variadic.
func (b *MethodBuilder) Varargs() *MethodBuilder {
	b.varargs = true
	return b
}

func (b *MethodBuilder) AddException(t TypeName) *MethodBuilder {
	b.exceptions = append(b.exceptions, t)
	return b
}

func (b *MethodBuilder) AddCode(format string, args ...any) *MethodBuilder {
	b.code.Add(format, args...)
	return b
}

func (b *MethodBuilder) AddNamedCode(format string, args map[string]any) *MethodBuilder {
	b.code.AddNamed(format, args)
	return b
}

func (b *MethodBuilder) AddCodeBlock(c CodeBlock) *MethodBuilder {
	b.code.AddCode(c)
	return b
}

func (b *MethodBuilder) AddStatement(format string, args ...any) *MethodBuilder {
	b.code.AddStatement(format, args...)
	return b
}

func (b *MethodBuilder) AddComment(format string, args ...any) *MethodBuilder {
	b.code.AddComment(format, args...)
	return b
}

func (b *MethodBuilder) BeginControlFlow(controlFlow string, args ...any) *MethodBuilder {
	b.code.BeginControlFlow(controlFlow, args...)
	return b
}

func (b *MethodBuilder) NextControlFlow(controlFlow string, args ...any) *MethodBuilder {
	b.code.NextControlFlow(controlFlow, args...)
	return b
}

func (b *MethodBuilder) EndControlFlow() *MethodBuilder {
	b.code.EndControlFlow()
	return b
}

func (b *MethodBuilder) EndControlFlowWith(controlFlow string, args ...any) *MethodBuilder {
	b.code.EndControlFlowWith(controlFlow, args...)
	return b
}

// DefaultValue sets the default of an annotation type element.
func (b *MethodBuilder) DefaultValue(format string, args ...any) *MethodBuilder {
	c, err := CodeOf(format, args...)
	if err != nil {
		b.errs = combine(b.errs, err)
		return b
	}
	if b.defaultValue != nil {
		b.errs = combine(b.errs, markf(ErrConstruction, "method %s: default value was already set", b.name))
		return b
	}
	b.defaultValue = &c
	return b
}

func (b *MethodBuilder) Build() *MethodSpec {
	return &MethodSpec{name: b.name, node: newLazy("method", b.name, b.construct)}
}

func (b *MethodBuilder) construct() (methodData, error) {
	errs := b.errs
	if b.name != constructorName {
		if err := checkName("method", b.name); err != nil {
			errs = combine(errs, err)
		}
		if b.returns == nil {
			errs = combine(errs, markf(ErrInvalidType, "method %s has no return type", b.name))
		}
	}
	for _, tv := range b.typeVariables {
		if err := checkName("type variable", tv.Name); err != nil {
			errs = combine(errs, err)
		}
	}
	javadoc, err := b.javadoc.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	code, err := b.code.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	if !code.IsEmpty() && b.modifiers.Has(Abstract) {
		errs = combine(errs, markf(ErrConstruction, "abstract method %s cannot have code", b.name))
	}
	if b.varargs && !lastParameterIsArray(b.parameters) {
		errs = combine(errs, markf(ErrConstruction, "last parameter of varargs method %s must be an array", b.name))
	}
	for _, p := range b.parameters {
		if err := p.Validate(); err != nil {
			errs = combine(errs, err)
		}
	}
	for _, a := range b.annotations {
		if err := a.Validate(); err != nil {
			errs = combine(errs, err)
		}
	}
	if errs != nil {
		return methodData{}, errs
	}

	d := methodData{
		Name:          b.name,
		Javadoc:       javadoc,
		Annotations:   append([]*AnnotationSpec(nil), b.annotations...),
		Modifiers:     b.modifiers,
		TypeVariables: append([]TypeVariableName(nil), b.typeVariables...),
		Returns:       b.returns,
		Parameters:    append([]*ParameterSpec(nil), b.parameters...),
		Varargs:       b.varargs,
		Exceptions:    append([]TypeName(nil), b.exceptions...),
		Code:          code,
	}
	if b.defaultValue != nil {
		d.DefaultValue = *b.defaultValue
	}
	return d, nil
}

func lastParameterIsArray(params []*ParameterSpec) bool {
	if len(params) == 0 {
		return false
	}
	d, err := params[len(params)-1].node.get(nil)
	if err != nil {
		return false
	}
	_, ok := d.Type.(ArrayTypeName)
	return ok
}

func (m *MethodSpec) Name() string { return m.name }

func (m *MethodSpec) IsConstructor() bool { return m.name == constructorName }

func (m *MethodSpec) data() (methodData, error) { return m.node.get(nil) }

func (m *MethodSpec) Validate() error {
	_, err := m.node.get(nil)
	return err
}

func (m *MethodSpec) Equal(o *MethodSpec) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil {
		return false
	}
	x, errX := m.node.get(nil)
	y, errY := o.node.get(nil)
	if errX != nil || errY != nil {
		return false
	}
	return cmp.Equal(x, y, equalOpts...)
}

func (m *MethodSpec) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m.String()))
	return h.Sum64()
}

func (m *MethodSpec) String() string {
	s, err := renderDetached(func(w *codeWriter) error { return m.emit(w, "Constructor", 0) })
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// javadocWithParameters appends an @param tag for each documented parameter.
func (d methodData) javadocWithParameters(cfg *Config) (CodeBlock, error) {
	b := NewCodeBlock().AddCode(d.Javadoc)
	first := true
	for _, p := range d.Parameters {
		pd, err := p.node.get(cfg)
		if err != nil {
			return CodeBlock{}, err
		}
		if pd.Javadoc.IsEmpty() {
			continue
		}
		if first && !d.Javadoc.IsEmpty() {
			b.Add("\n")
		}
		first = false
		b.Add("@param %L %L", pd.Name, pd.Javadoc)
		if !pd.Javadoc.endsWithNewline() {
			b.Add("\n")
		}
	}
	return b.Build()
}

func (m *MethodSpec) emit(w *codeWriter, enclosingName string, implicit Modifier) error {
	d, err := m.node.get(w.cfg)
	if err != nil {
		return err
	}
	javadoc, err := d.javadocWithParameters(w.cfg)
	if err != nil {
		return err
	}
	if err := w.emitJavadoc(javadoc); err != nil {
		return err
	}
	if err := w.emitAnnotations(d.Annotations, false); err != nil {
		return err
	}
	if err := w.emitModifiers(d.Modifiers, implicit); err != nil {
		return err
	}

	if len(d.TypeVariables) > 0 {
		if err := w.emitTypeVariables(d.TypeVariables); err != nil {
			return err
		}
		defer w.popTypeVariables(d.TypeVariables)
		if err := w.emitAndIndent(" "); err != nil {
			return err
		}
	}

	if m.IsConstructor() {
		err = w.emit("%L(%Z", enclosingName)
	} else {
		err = w.emit("%T %L(%Z", d.Returns, d.Name)
	}
	if err != nil {
		return err
	}

	for i, p := range d.Parameters {
		if i > 0 {
			if err := w.emit(",%W"); err != nil {
				return err
			}
		}
		if err := p.emit(w, d.Varargs && i == len(d.Parameters)-1); err != nil {
			return err
		}
	}
	if err := w.emitAndIndent(")"); err != nil {
		return err
	}

	if !d.DefaultValue.IsEmpty() {
		if err := w.emitAndIndent(" default "); err != nil {
			return err
		}
		if err := w.emitCode(d.DefaultValue, false); err != nil {
			return err
		}
	}

	if len(d.Exceptions) > 0 {
		if err := w.emit("%Wthrows"); err != nil {
			return err
		}
		for i, e := range d.Exceptions {
			if i > 0 {
				if err := w.emitAndIndent(","); err != nil {
					return err
				}
			}
			if err := w.emit("%W%T", e); err != nil {
				return err
			}
		}
	}

	switch {
	case d.Modifiers.Has(Abstract):
		return w.emitAndIndent(";\n")
	case d.Modifiers.Has(Native):
		if err := w.emitCode(d.Code, false); err != nil {
			return err
		}
		return w.emitAndIndent(";\n")
	}
	if err := w.emitAndIndent(" {\n"); err != nil {
		return err
	}
	if err := w.indented(1, func() error { return w.emitCode(d.Code, true) }); err != nil {
		return err
	}
	return w.emitAndIndent("}\n")
}
