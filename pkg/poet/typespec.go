package poet

import (
	"hash/fnv"

	"github.com/google/go-cmp/cmp"
)

// TypeKind selects what a TypeSpec declares.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindAnnotation
)

func (k TypeKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAnnotation:
		return "@interface"
	default:
		return "class"
	}
}

// implicit modifiers per kind: those of members, and of the type itself when
// it is nested in another type
type kindRules struct {
	fields  Modifier
	methods Modifier
	types   Modifier
	member  Modifier
}

func (k TypeKind) rules() kindRules {
	switch k {
	case KindInterface, KindAnnotation:
		return kindRules{
			fields:  Public | Static | Final,
			methods: Public | Abstract,
			types:   Public | Static,
			member:  Static,
		}
	case KindEnum:
		return kindRules{member: Static}
	default:
		return kindRules{}
	}
}

// TypeSpec is a class, interface, enum, annotation type or anonymous class.
type TypeSpec struct {
	name    string
	kind    TypeKind
	builder *TypeBuilder
	node    *lazy[typeData]
}

type enumConstant struct {
	Name string
	Body *TypeSpec
}

type typeData struct {
	Kind             TypeKind
	Name             string
	Anonymous        bool
	AnonymousArgs    CodeBlock
	Javadoc          CodeBlock
	Annotations      []*AnnotationSpec
	Modifiers        Modifier
	TypeVariables    []TypeVariableName
	Superclass       TypeName
	Superinterfaces  []TypeName
	EnumConstants    []enumConstant
	Fields           []*FieldSpec
	StaticBlock      CodeBlock
	InitializerBlock CodeBlock
	Methods          []*MethodSpec
	Types            []*TypeSpec
}

// TypeBuilder collects a type declaration. Use NewClassBuilder,
// NewInterfaceBuilder, NewEnumBuilder, NewAnnotationTypeBuilder or
// NewAnonymousClassBuilder.
type TypeBuilder struct {
	kind             TypeKind
	name             string
	anonymous        bool
	anonymousArgs    CodeBlock
	javadoc          *CodeBlockBuilder
	annotations      []*AnnotationSpec
	modifiers        Modifier
	typeVariables    []TypeVariableName
	superclass       TypeName
	superinterfaces  []TypeName
	enumConstants    []enumConstant
	fields           []*FieldSpec
	staticBlock      *CodeBlockBuilder
	initializerBlock *CodeBlockBuilder
	methods          []*MethodSpec
	types            []*TypeSpec
	errs             error
}

func newTypeBuilder(kind TypeKind, name string) *TypeBuilder {
	return &TypeBuilder{
		kind:             kind,
		name:             name,
		javadoc:          NewCodeBlock(),
		staticBlock:      NewCodeBlock(),
		initializerBlock: NewCodeBlock(),
	}
}

func NewClassBuilder(name string) *TypeBuilder     { return newTypeBuilder(KindClass, name) }
func NewInterfaceBuilder(name string) *TypeBuilder { return newTypeBuilder(KindInterface, name) }
func NewEnumBuilder(name string) *TypeBuilder      { return newTypeBuilder(KindEnum, name) }

func NewAnnotationTypeBuilder(name string) *TypeBuilder {
	return newTypeBuilder(KindAnnotation, name)
}

// NewAnonymousClassBuilder starts an anonymous class whose constructor
// arguments are given by format. The same builder describes the body of an
// enum constant.
func NewAnonymousClassBuilder(format string, args ...any) *TypeBuilder {
	b := newTypeBuilder(KindClass, "")
	b.anonymous = true
	c, err := CodeOf(format, args...)
	if err != nil {
		b.errs = combine(b.errs, err)
	}
	b.anonymousArgs = c
	return b
}

func (b *TypeBuilder) AddJavadoc(format string, args ...any) *TypeBuilder {
	b.javadoc.Add(format, args...)
	return b
}

func (b *TypeBuilder) AddAnnotation(a *AnnotationSpec) *TypeBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

func (b *TypeBuilder) AddModifiers(mods ...Modifier) *TypeBuilder {
	if b.anonymous {
		b.errs = combine(b.errs, markf(ErrConstruction, "modifiers are forbidden on anonymous types"))
		return b
	}
	b.modifiers |= modifiersOf(mods...)
	return b
}

func (b *TypeBuilder) AddTypeVariables(tvs ...TypeVariableName) *TypeBuilder {
	if b.anonymous {
		b.errs = combine(b.errs, markf(ErrConstruction, "type variables are forbidden on anonymous types"))
		return b
	}
	b.typeVariables = append(b.typeVariables, tvs...)
	return b
}

// Superclass sets the extended class. Only classes have one, and only once.
func (b *TypeBuilder) Superclass(t TypeName) *TypeBuilder {
	switch {
	case b.kind != KindClass:
		b.errs = combine(b.errs, markf(ErrConstruction, "only classes have super classes, not %s %s", b.kind, b.name))
	case b.superclass != nil:
		b.errs = combine(b.errs, markf(ErrConstruction, "%s: superclass already set to %s", b.name, b.superclass))
	case isPrimitive(t):
		b.errs = combine(b.errs, markf(ErrInvalidType, "%s: superclass may not be a primitive", b.name))
	default:
		b.superclass = t
	}
	return b
}

func (b *TypeBuilder) AddSuperinterface(t TypeName) *TypeBuilder {
	if t == nil || isPrimitive(t) {
		b.errs = combine(b.errs, markf(ErrInvalidType, "%s: invalid superinterface %v", b.name, t))
		return b
	}
	b.superinterfaces = append(b.superinterfaces, t)
	return b
}

// AddEnumConstant adds a constant without arguments or body.
func (b *TypeBuilder) AddEnumConstant(name string) *TypeBuilder {
	return b.AddEnumConstantWith(name, NewAnonymousClassBuilder("").Build())
}

// AddEnumConstantWith adds a constant whose arguments and body come from an
// anonymous class.
func (b *TypeBuilder) AddEnumConstantWith(name string, body *TypeSpec) *TypeBuilder {
	b.enumConstants = append(b.enumConstants, enumConstant{Name: name, Body: body})
	return b
}

func (b *TypeBuilder) AddField(f *FieldSpec) *TypeBuilder {
	b.fields = append(b.fields, f)
	return b
}

func (b *TypeBuilder) AddStaticBlock(c CodeBlock) *TypeBuilder {
	b.staticBlock.BeginControlFlow("static").AddCode(c).EndControlFlow()
	return b
}

func (b *TypeBuilder) AddInitializerBlock(c CodeBlock) *TypeBuilder {
	if b.kind != KindClass && b.kind != KindEnum {
		b.errs = combine(b.errs, markf(ErrConstruction, "%s %s cannot have initializer blocks", b.kind, b.name))
		return b
	}
	b.initializerBlock.Add("{\n").Indent().AddCode(c).Unindent().Add("}\n")
	return b
}

func (b *TypeBuilder) AddMethod(m *MethodSpec) *TypeBuilder {
	b.methods = append(b.methods, m)
	return b
}

func (b *TypeBuilder) AddType(t *TypeSpec) *TypeBuilder {
	b.types = append(b.types, t)
	return b
}

func (b *TypeBuilder) Build() *TypeSpec {
	name := b.name
	if b.anonymous {
		name = "<anonymous>"
	}
	return &TypeSpec{name: b.name, kind: b.kind, builder: b, node: newLazy(b.kind.String(), name, b.construct)}
}

func isPrimitive(t TypeName) bool {
	_, ok := t.(PrimitiveType)
	return ok
}

// checkCycles walks nested declarations through their builders, so a type
// that contains itself is rejected before anything is constructed.
func (b *TypeBuilder) checkCycles(resolving map[*TypeBuilder]bool) error {
	if resolving[b] {
		return markf(ErrConstruction, "type %s contains itself", b.name)
	}
	resolving[b] = true
	defer delete(resolving, b)
	for _, t := range b.types {
		if err := t.builder.checkCycles(resolving); err != nil {
			return err
		}
	}
	for _, ec := range b.enumConstants {
		if ec.Body != nil {
			if err := ec.Body.builder.checkCycles(resolving); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *TypeBuilder) construct() (typeData, error) {
	if err := b.checkCycles(make(map[*TypeBuilder]bool)); err != nil {
		return typeData{}, err
	}

	errs := b.errs
	fail := func(sentinel error, format string, args ...any) {
		errs = combine(errs, markf(sentinel, format, args...))
	}
	rules := b.kind.rules()

	if !b.anonymous {
		if err := checkName("type", b.name); err != nil {
			errs = combine(errs, err)
		}
	}
	for _, tv := range b.typeVariables {
		if err := checkName("type variable", tv.Name); err != nil {
			errs = combine(errs, err)
		}
	}

	for _, ec := range b.enumConstants {
		if b.kind != KindEnum {
			fail(ErrConstruction, "%s is not an enum", b.name)
			break
		}
		if ec.Body == nil || !ec.Body.builder.anonymous {
			fail(ErrConstruction, "enum constant %s.%s must be an anonymous class", b.name, ec.Name)
		}
		if err := checkName("enum constant", ec.Name); err != nil {
			errs = combine(errs, err)
		}
	}
	if b.kind == KindEnum && len(b.enumConstants) == 0 {
		fail(ErrConstruction, "at least one enum constant is required for %s", b.name)
	}

	for _, f := range b.fields {
		if err := f.Validate(); err != nil {
			errs = combine(errs, err)
			continue
		}
		if b.kind == KindInterface || b.kind == KindAnnotation {
			mods := f.Modifiers()
			if !mods.exactlyOneOf(Public, Private) {
				fail(ErrConstruction, "%s %s.%s requires exactly one of public, private", b.kind, b.name, f.Name())
			}
			if !mods.Has(Static | Final) {
				fail(ErrConstruction, "%s %s.%s requires modifiers static final", b.kind, b.name, f.Name())
			}
		}
	}

	isAbstract := b.modifiers.Has(Abstract) || b.kind != KindClass
	for _, m := range b.methods {
		md, err := m.data()
		if err != nil {
			errs = combine(errs, err)
			continue
		}
		mods := md.Modifiers
		switch b.kind {
		case KindInterface:
			if !mods.exactlyOneOf(Public, Private) {
				fail(ErrConstruction, "%s %s.%s requires exactly one of public, private", b.kind, b.name, m.Name())
			}
			if mods.Has(Private) {
				if mods.Has(Default) || mods.Has(Abstract) {
					fail(ErrConstruction, "%s %s.%s cannot be private and default or abstract", b.kind, b.name, m.Name())
				}
			} else if !mods.exactlyOneOf(Abstract, Static, Default) {
				fail(ErrConstruction, "%s %s.%s requires exactly one of abstract, static, default", b.kind, b.name, m.Name())
			}
		case KindAnnotation:
			if mods != rules.methods {
				fail(ErrConstruction, "%s %s.%s requires modifiers %s", b.kind, b.name, m.Name(), rules.methods)
			}
		}
		if b.kind != KindAnnotation && !md.DefaultValue.IsEmpty() {
			fail(ErrConstruction, "%s %s.%s cannot have a default value", b.kind, b.name, m.Name())
		}
		if b.kind != KindInterface && mods.Has(Default) {
			fail(ErrConstruction, "%s %s.%s cannot be default", b.kind, b.name, m.Name())
		}
		if !isAbstract && mods.Has(Abstract) {
			fail(ErrConstruction, "non-abstract type %s cannot declare abstract method %s", b.name, m.Name())
		}
		if m.IsConstructor() && b.kind != KindClass && b.kind != KindEnum {
			fail(ErrConstruction, "%s %s cannot declare a constructor", b.kind, b.name)
		}
	}

	for _, t := range b.types {
		td, err := t.node.get(nil)
		if err != nil {
			errs = combine(errs, err)
			continue
		}
		if td.Anonymous {
			fail(ErrConstruction, "%s: anonymous classes cannot be member types", b.name)
		}
		if !td.Modifiers.Has(rules.types) {
			fail(ErrConstruction, "%s %s.%s requires modifiers %s", b.kind, b.name, t.Name(), rules.types)
		}
	}
	for _, ec := range b.enumConstants {
		if ec.Body != nil {
			if err := ec.Body.Validate(); err != nil {
				errs = combine(errs, err)
			}
		}
	}
	for _, a := range b.annotations {
		if err := a.Validate(); err != nil {
			errs = combine(errs, err)
		}
	}

	if b.anonymous {
		n := len(b.superinterfaces)
		if b.superclass != nil && !isObject(b.superclass) {
			n++
		}
		if n > 1 {
			fail(ErrConstruction, "anonymous type has too many supertypes")
		}
	}

	javadoc, err := b.javadoc.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	staticBlock, err := b.staticBlock.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	initBlock, err := b.initializerBlock.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	if errs != nil {
		return typeData{}, errs
	}

	return typeData{
		Kind:             b.kind,
		Name:             b.name,
		Anonymous:        b.anonymous,
		AnonymousArgs:    b.anonymousArgs,
		Javadoc:          javadoc,
		Annotations:      append([]*AnnotationSpec(nil), b.annotations...),
		Modifiers:        b.modifiers,
		TypeVariables:    append([]TypeVariableName(nil), b.typeVariables...),
		Superclass:       b.superclass,
		Superinterfaces:  append([]TypeName(nil), b.superinterfaces...),
		EnumConstants:    append([]enumConstant(nil), b.enumConstants...),
		Fields:           append([]*FieldSpec(nil), b.fields...),
		StaticBlock:      staticBlock,
		InitializerBlock: initBlock,
		Methods:          append([]*MethodSpec(nil), b.methods...),
		Types:            append([]*TypeSpec(nil), b.types...),
	}, nil
}

func isObject(t TypeName) bool {
	c, ok := t.(ClassName)
	return ok && c.Equal(ObjectClass)
}

// -----------------------------------------------------------------------------
// Node
// -----------------------------------------------------------------------------

// Name is empty for anonymous classes.
func (t *TypeSpec) Name() string { return t.name }

func (t *TypeSpec) Kind() TypeKind { return t.kind }

func (t *TypeSpec) IsAnonymous() bool { return t.builder.anonymous }

func (t *TypeSpec) Validate() error {
	_, err := t.node.get(nil)
	return err
}

func (t *TypeSpec) Equal(o *TypeSpec) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	x, errX := t.node.get(nil)
	y, errY := o.node.get(nil)
	if errX != nil || errY != nil {
		return false
	}
	return cmp.Equal(x, y, equalOpts...)
}

func (t *TypeSpec) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.String()))
	return h.Sum64()
}

func (t *TypeSpec) String() string {
	s, err := renderDetached(func(w *codeWriter) error { return t.emit(w, "", 0) })
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

func (d typeData) nestedNames() map[string]bool {
	out := make(map[string]bool, len(d.Types))
	for _, t := range d.Types {
		out[t.Name()] = true
	}
	return out
}

// emit writes the declaration. enumName is set when the type is the body of
// an enum constant; implicit holds the modifiers implied by the enclosing
// type.
func (t *TypeSpec) emit(w *codeWriter, enumName string, implicit Modifier) error {
	d, err := t.node.get(w.cfg)
	if err != nil {
		return err
	}

	// a nested declaration interrupts the enclosing statement's continuation
	previousStatementLine := w.statementLine
	w.statementLine = -1
	defer func() { w.statementLine = previousStatementLine }()

	rules := d.Kind.rules()
	switch {
	case enumName != "":
		if err := w.emitJavadoc(d.Javadoc); err != nil {
			return err
		}
		if err := w.emitAnnotations(d.Annotations, false); err != nil {
			return err
		}
		if err := w.emit("%L", enumName); err != nil {
			return err
		}
		if !d.AnonymousArgs.IsEmpty() {
			if err := w.emitAndIndent("("); err != nil {
				return err
			}
			if err := w.emitCode(d.AnonymousArgs, false); err != nil {
				return err
			}
			if err := w.emitAndIndent(")"); err != nil {
				return err
			}
		}
		if len(d.Fields) == 0 && len(d.Methods) == 0 && len(d.Types) == 0 {
			return nil
		}
		if err := w.emitAndIndent(" {\n"); err != nil {
			return err
		}

	case d.Anonymous:
		var super TypeName = ObjectClass
		if len(d.Superinterfaces) > 0 {
			super = d.Superinterfaces[0]
		} else if d.Superclass != nil {
			super = d.Superclass
		}
		if err := w.emit("new %T(", super); err != nil {
			return err
		}
		if err := w.emitCode(d.AnonymousArgs, false); err != nil {
			return err
		}
		if err := w.emitAndIndent(") {\n"); err != nil {
			return err
		}

	default:
		// the header sees the type's own name but not its members
		err := w.withFrame(scopeFrame{name: d.Name}, func() error {
			return t.emitHeader(w, d, implicit|rules.member)
		})
		if err != nil {
			return err
		}
		if err := w.emitAndIndent(" {\n"); err != nil {
			return err
		}
	}
	defer w.popTypeVariables(d.TypeVariables)

	frame := scopeFrame{name: d.Name, nested: d.nestedNames(), anonymous: d.Anonymous || enumName != ""}
	err = w.withFrame(frame, func() error {
		return w.indented(1, func() error { return t.emitMembers(w, d) })
	})
	if err != nil {
		return err
	}

	if err := w.emitAndIndent("}"); err != nil {
		return err
	}
	if enumName == "" && !d.Anonymous {
		return w.emitAndIndent("\n")
	}
	return nil
}

func (t *TypeSpec) emitHeader(w *codeWriter, d typeData, implicit Modifier) error {
	if err := w.emitJavadoc(d.Javadoc); err != nil {
		return err
	}
	if err := w.emitAnnotations(d.Annotations, false); err != nil {
		return err
	}
	if err := w.emitModifiers(d.Modifiers, implicit); err != nil {
		return err
	}
	if err := w.emit("%L %L", d.Kind.String(), d.Name); err != nil {
		return err
	}
	if err := w.emitTypeVariables(d.TypeVariables); err != nil {
		return err
	}

	var extends, implements []TypeName
	if d.Kind == KindInterface {
		extends = d.Superinterfaces
	} else {
		if d.Superclass != nil && !isObject(d.Superclass) {
			extends = []TypeName{d.Superclass}
		}
		implements = d.Superinterfaces
	}
	if err := emitSupertypes(w, " extends", extends); err != nil {
		return err
	}
	return emitSupertypes(w, " implements", implements)
}

func emitSupertypes(w *codeWriter, keyword string, types []TypeName) error {
	if len(types) == 0 {
		return nil
	}
	if err := w.emitAndIndent(keyword); err != nil {
		return err
	}
	for i, st := range types {
		if i > 0 {
			if err := w.emitAndIndent(","); err != nil {
				return err
			}
		}
		if err := w.emit(" %T", st); err != nil {
			return err
		}
	}
	return nil
}

// emitMembers writes, in order: enum constants, static fields, the static
// block, instance fields, the initializer block, constructors, methods and
// member types, separated by blank lines.
func (t *TypeSpec) emitMembers(w *codeWriter, d typeData) error {
	rules := d.Kind.rules()
	first := true
	separate := func() error {
		if first {
			first = false
			return nil
		}
		return w.emitAndIndent("\n")
	}

	needsSeparator := d.Kind == KindEnum && (len(d.Fields) > 0 || len(d.Methods) > 0 || len(d.Types) > 0)
	for i, ec := range d.EnumConstants {
		if err := separate(); err != nil {
			return err
		}
		if err := ec.Body.emit(w, ec.Name, 0); err != nil {
			return err
		}
		switch {
		case i < len(d.EnumConstants)-1:
			err := w.emitAndIndent(",\n")
			if err != nil {
				return err
			}
		case !needsSeparator:
			if err := w.emitAndIndent("\n"); err != nil {
				return err
			}
		}
	}
	if needsSeparator {
		if err := w.emitAndIndent(";\n"); err != nil {
			return err
		}
	}

	for _, f := range d.Fields {
		if !f.Modifiers().Has(Static) {
			continue
		}
		if err := separate(); err != nil {
			return err
		}
		if err := f.emit(w, rules.fields); err != nil {
			return err
		}
	}
	if !d.StaticBlock.IsEmpty() {
		if err := separate(); err != nil {
			return err
		}
		if err := w.emitCode(d.StaticBlock, false); err != nil {
			return err
		}
	}
	for _, f := range d.Fields {
		if f.Modifiers().Has(Static) {
			continue
		}
		if err := separate(); err != nil {
			return err
		}
		if err := f.emit(w, rules.fields); err != nil {
			return err
		}
	}
	if !d.InitializerBlock.IsEmpty() {
		if err := separate(); err != nil {
			return err
		}
		if err := w.emitCode(d.InitializerBlock, false); err != nil {
			return err
		}
	}

	enclosing := d.Name
	for _, constructors := range []bool{true, false} {
		for _, m := range d.Methods {
			if m.IsConstructor() != constructors {
				continue
			}
			if err := separate(); err != nil {
				return err
			}
			if err := m.emit(w, enclosing, rules.methods); err != nil {
				return err
			}
		}
	}

	for _, nt := range d.Types {
		if err := separate(); err != nil {
			return err
		}
		if err := nt.emit(w, "", rules.types); err != nil {
			return err
		}
	}
	return nil
}
