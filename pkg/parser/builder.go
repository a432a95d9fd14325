package parser

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/javagen/internal/model"
	"github.com/cmmoran/javagen/pkg/poet"
)

// Builder turns one Document into a poet.JavaFile.
type Builder struct {
	opts *Options
	doc  *model.Document
	log  *slog.Logger

	byName   map[string]poet.ClassName
	declared map[string]bool
}

// NewBuilder initializes a Builder for doc.
func NewBuilder(opts *Options, doc *model.Document) *Builder {
	log := opts.Render.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		opts:     opts,
		doc:      doc,
		log:      log.With("document", doc.Source),
		byName:   make(map[string]poet.ClassName),
		declared: make(map[string]bool),
	}
}

// BuildFile is the main entrypoint:
//  1. Register a class name for every declared type.
//  2. Build the type tree.
//  3. Wrap it in a JavaFile.
func (b *Builder) BuildFile() (*poet.JavaFile, error) {
	if b.doc.Type == nil {
		return nil, errors.Mark(errors.New("document has no type"), ErrDocument)
	}

	// 1) Register names; nested types are reachable by simple name.
	top, err := poet.NewClassName(b.doc.Package, b.doc.Type.Name)
	if err != nil {
		return nil, errors.Wrap(err, "top-level type")
	}
	if err := b.register(top, b.doc.Type); err != nil {
		return nil, err
	}

	// 2) Build types.
	scope := &typeScope{pkg: b.doc.Package, declared: b.byName}
	spec, err := b.buildType(scope, b.doc.Type, top, poet.KindClass)
	if err != nil {
		return nil, err
	}

	// 3) File.
	fb := poet.NewJavaFile(b.doc.Package, spec).SkipJavaLangImports(b.doc.SkipJavaLangImports)
	comment := b.doc.FileComment
	if comment == "" {
		comment = b.opts.FileComment
	}
	if comment != "" {
		fb.AddFileComment("%L", strings.TrimRight(comment, "\n"))
	}
	return fb.Build()
}

// register records c and every nested type beneath it. The first type
// declared with a simple name claims it.
func (b *Builder) register(c poet.ClassName, t *model.Type) error {
	canonical := c.CanonicalName()
	if b.declared[canonical] {
		return errors.Mark(errors.Newf("type %s declared twice", canonical), ErrDocument)
	}
	b.declared[canonical] = true
	if _, ok := b.byName[c.SimpleName()]; !ok {
		b.byName[c.SimpleName()] = c
	}
	for _, nt := range keepTypes(t.Types) {
		if !poet.IsIdentifier(nt.Name) || poet.IsKeyword(nt.Name) {
			return errors.Mark(errors.Newf("invalid type name %q in %s", nt.Name, canonical), ErrDocument)
		}
		if err := b.register(c.NestedClass(nt.Name), nt); err != nil {
			return err
		}
	}
	return nil
}

func typeKind(s string) (poet.TypeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "class":
		return poet.KindClass, nil
	case "interface":
		return poet.KindInterface, nil
	case "enum":
		return poet.KindEnum, nil
	case "annotation", "@interface":
		return poet.KindAnnotation, nil
	}
	return 0, errors.Mark(errors.Newf("unknown type kind %q", s), ErrDocument)
}

func newTypeBuilder(kind poet.TypeKind, name string) *poet.TypeBuilder {
	switch kind {
	case poet.KindInterface:
		return poet.NewInterfaceBuilder(name)
	case poet.KindEnum:
		return poet.NewEnumBuilder(name)
	case poet.KindAnnotation:
		return poet.NewAnnotationTypeBuilder(name)
	default:
		return poet.NewClassBuilder(name)
	}
}

// buildType builds t, whose class name is self, declared inside a type of
// kind parent.
func (b *Builder) buildType(scope *typeScope, t *model.Type, self poet.ClassName, parent poet.TypeKind) (*poet.TypeSpec, error) {
	kind, err := typeKind(t.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", self)
	}
	b.log.Debug("building type", "type", self.CanonicalName(), "kind", kind.String())

	scope = scope.withVars(t.TypeVariables)
	tb := newTypeBuilder(kind, t.Name)

	mods, err := modifiers(t.Modifiers)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", self)
	}
	if parent == poet.KindInterface || parent == poet.KindAnnotation {
		mods |= poet.Public | poet.Static
	}
	if mods != 0 {
		tb.AddModifiers(mods)
	}
	if t.Javadoc != "" {
		tb.AddJavadoc("%L", t.Javadoc)
	}
	for _, a := range t.Annotations {
		spec, err := scope.annotation(a)
		if err != nil {
			return nil, errors.Wrapf(err, "type %s", self)
		}
		tb.AddAnnotation(spec)
	}
	tvs, err := scope.typeVariables(t.TypeVariables)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", self)
	}
	if len(tvs) > 0 {
		tb.AddTypeVariables(tvs...)
	}

	if err := b.supertypes(scope, tb, t, kind); err != nil {
		return nil, errors.Wrapf(err, "type %s", self)
	}

	for _, ec := range t.EnumConstants {
		body, err := b.enumConstant(scope, ec)
		if err != nil {
			return nil, errors.Wrapf(err, "enum constant %s.%s", self, ec.Name)
		}
		tb.AddEnumConstantWith(ec.Name, body)
	}

	fields := keepFields(t.Fields)
	for _, f := range fields {
		spec, err := b.field(scope, f, kind)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", self, f.Name)
		}
		tb.AddField(spec)
	}

	if len(t.StaticBlock) > 0 {
		block, err := scope.block(t.StaticBlock)
		if err != nil {
			return nil, errors.Wrapf(err, "static block of %s", self)
		}
		tb.AddStaticBlock(block)
	}
	if len(t.Initializer) > 0 {
		block, err := scope.block(t.Initializer)
		if err != nil {
			return nil, errors.Wrapf(err, "initializer block of %s", self)
		}
		tb.AddInitializerBlock(block)
	}

	for _, m := range keepMethods(t.Methods) {
		spec, err := b.method(scope, m, kind)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s.%s", self, methodLabel(m))
		}
		tb.AddMethod(spec)
	}

	if kind == poet.KindClass || kind == poet.KindEnum {
		for _, f := range fields {
			if !(t.Accessors || f.Accessors || b.opts.Accessors) {
				continue
			}
			if err := b.accessors(scope, tb, f); err != nil {
				return nil, errors.Wrapf(err, "accessors for %s.%s", self, f.Name)
			}
		}
	}

	for _, nt := range keepTypes(t.Types) {
		spec, err := b.buildType(scope, nt, self.NestedClass(nt.Name), kind)
		if err != nil {
			return nil, err
		}
		tb.AddType(spec)
	}
	return tb.Build(), nil
}

// supertypes applies extends and implements. An interface extends every
// type it names.
func (b *Builder) supertypes(scope *typeScope, tb *poet.TypeBuilder, t *model.Type, kind poet.TypeKind) error {
	if t.Extends != "" {
		st, err := scope.resolve(t.Extends)
		if err != nil {
			return errors.Wrap(err, "extends")
		}
		if kind == poet.KindInterface {
			tb.AddSuperinterface(st)
		} else {
			tb.Superclass(st)
		}
	}
	for _, expr := range t.Implements {
		st, err := scope.resolve(expr)
		if err != nil {
			return errors.Wrap(err, "implements")
		}
		tb.AddSuperinterface(st)
	}
	return nil
}

func (b *Builder) enumConstant(scope *typeScope, ec model.EnumConstant) (*poet.TypeSpec, error) {
	args, err := scope.code(ec.Args)
	if err != nil {
		return nil, err
	}
	var ab *poet.TypeBuilder
	if args.IsEmpty() {
		ab = poet.NewAnonymousClassBuilder("")
	} else {
		ab = poet.NewAnonymousClassBuilder("%L", args)
	}
	if ec.Javadoc != "" {
		ab.AddJavadoc("%L", ec.Javadoc)
	}
	for _, m := range keepMethods(ec.Methods) {
		spec, err := b.method(scope, m, poet.KindClass)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s", methodLabel(m))
		}
		ab.AddMethod(spec)
	}
	return ab.Build(), nil
}

func (b *Builder) field(scope *typeScope, f *model.Field, enclosing poet.TypeKind) (*poet.FieldSpec, error) {
	typ, err := scope.resolve(f.Type)
	if err != nil {
		return nil, err
	}
	mods, err := modifiers(f.Modifiers)
	if err != nil {
		return nil, err
	}
	// implicit in Java source
	if enclosing == poet.KindInterface || enclosing == poet.KindAnnotation {
		if !mods.Has(poet.Private) {
			mods |= poet.Public
		}
		mods |= poet.Static | poet.Final
	}
	fb := poet.NewFieldBuilder(typ, f.Name, mods)
	if f.Javadoc != "" {
		fb.AddJavadoc("%L", f.Javadoc)
	}
	for _, a := range f.Annotations {
		spec, err := scope.annotation(a)
		if err != nil {
			return nil, err
		}
		fb.AddAnnotation(spec)
	}
	if f.Initializer != nil {
		init, err := scope.code(f.Initializer)
		if err != nil {
			return nil, errors.Wrap(err, "initializer")
		}
		fb.InitializerCode(init)
	}
	return fb.Build(), nil
}

func methodLabel(m *model.Method) string {
	if m.Constructor {
		return "<init>"
	}
	return m.Name
}

func (b *Builder) method(scope *typeScope, m *model.Method, enclosing poet.TypeKind) (*poet.MethodSpec, error) {
	var mb *poet.MethodBuilder
	if m.Constructor {
		if m.Returns != "" {
			return nil, errors.Mark(errors.New("constructors have no return type"), ErrDocument)
		}
		mb = poet.NewConstructorBuilder()
	} else {
		mb = poet.NewMethodBuilder(m.Name)
	}
	scope = scope.withVars(m.TypeVariables)

	mods, err := modifiers(m.Modifiers)
	if err != nil {
		return nil, err
	}
	switch enclosing {
	case poet.KindInterface:
		// implicit in Java source
		if !mods.Has(poet.Private) {
			mods |= poet.Public
			if !mods.Has(poet.Static) && !mods.Has(poet.Default) {
				if len(m.Code) == 0 {
					mods |= poet.Abstract
				} else {
					mods |= poet.Default
				}
			}
		}
	case poet.KindAnnotation:
		mods |= poet.Public | poet.Abstract
	}
	if mods != 0 {
		mb.AddModifiers(mods)
	}

	if m.Javadoc != "" {
		mb.AddJavadoc("%L", m.Javadoc)
	}
	for _, a := range m.Annotations {
		spec, err := scope.annotation(a)
		if err != nil {
			return nil, err
		}
		mb.AddAnnotation(spec)
	}
	tvs, err := scope.typeVariables(m.TypeVariables)
	if err != nil {
		return nil, err
	}
	if len(tvs) > 0 {
		mb.AddTypeVariables(tvs...)
	}
	if m.Returns != "" {
		ret, err := scope.resolve(m.Returns)
		if err != nil {
			return nil, errors.Wrap(err, "returns")
		}
		mb.Returns(ret)
	}
	for _, p := range m.Parameters {
		spec, err := b.parameter(scope, p)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", p.Name)
		}
		mb.AddParameter(spec)
	}
	if m.Varargs {
		mb.Varargs()
	}
	for _, expr := range m.Throws {
		t, err := scope.resolve(expr)
		if err != nil {
			return nil, errors.Wrap(err, "throws")
		}
		mb.AddException(t)
	}
	if m.Default != nil {
		dv, err := scope.code(m.Default)
		if err != nil {
			return nil, errors.Wrap(err, "default")
		}
		mb.DefaultValue("%L", dv)
	}
	if len(m.Code) > 0 {
		code, err := scope.block(m.Code)
		if err != nil {
			return nil, errors.Wrap(err, "code")
		}
		mb.AddCodeBlock(code)
	}
	return mb.Build(), nil
}

func (b *Builder) parameter(scope *typeScope, p model.Parameter) (*poet.ParameterSpec, error) {
	typ, err := scope.resolve(p.Type)
	if err != nil {
		return nil, err
	}
	pb := poet.NewParameterBuilder(typ, p.Name)
	if p.Final {
		pb.AddModifiers(poet.Final)
	}
	if p.Javadoc != "" {
		pb.AddJavadoc("%L", p.Javadoc)
	}
	for _, a := range p.Annotations {
		spec, err := scope.annotation(a)
		if err != nil {
			return nil, err
		}
		pb.AddAnnotation(spec)
	}
	return pb.Build(), nil
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// accessors adds a getter, a setter unless f is final, and for collection
// fields with a plural name a singular adder such as addTopping.
func (b *Builder) accessors(scope *typeScope, tb *poet.TypeBuilder, f *model.Field) error {
	mods, err := modifiers(f.Modifiers)
	if err != nil {
		return err
	}
	if mods.Has(poet.Static) {
		return nil
	}
	typ, err := scope.resolve(f.Type)
	if err != nil {
		return err
	}

	prefix := "get"
	if typ == poet.Boolean {
		prefix = "is"
	}
	tb.AddMethod(poet.NewMethodBuilder(prefix+capitalize(f.Name)).
		AddModifiers(poet.Public).
		Returns(typ).
		AddStatement("return this.%N", f.Name).
		Build())

	if !mods.Has(poet.Final) {
		tb.AddMethod(poet.NewMethodBuilder("set"+capitalize(f.Name)).
			AddModifiers(poet.Public).
			AddParameterOf(typ, f.Name).
			AddStatement("this.%N = %N", f.Name, f.Name).
			Build())
	}

	p, ok := typ.(poet.ParameterizedTypeName)
	if !ok || !collectionTypes[p.Raw.CanonicalName()] || len(p.Args) != 1 {
		return nil
	}
	elem := p.Args[0]
	if w, ok := elem.(poet.WildcardTypeName); ok {
		if len(w.Lower) == 0 {
			return nil
		}
		elem = w.Lower[0]
	}
	singular := inflection.Singular(f.Name)
	if singular == f.Name || poet.IsKeyword(singular) {
		b.log.Debug("no singular form for adder", "field", f.Name)
		return nil
	}
	tb.AddMethod(poet.NewMethodBuilder("add"+capitalize(singular)).
		AddModifiers(poet.Public).
		AddParameterOf(elem, singular).
		AddStatement("this.%N.add(%N)", f.Name, singular).
		Build())
	return nil
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
