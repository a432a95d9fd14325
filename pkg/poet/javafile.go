package poet

import (
	"io"
	"path"
	"strings"
)

// JavaFile is the root of a render: one top-level type in a package.
type JavaFile struct {
	packageName         string
	typeSpec            *TypeSpec
	fileComment         CodeBlock
	skipJavaLangImports bool
}

type JavaFileBuilder struct {
	packageName         string
	typeSpec            *TypeSpec
	fileComment         *CodeBlockBuilder
	skipJavaLangImports bool
}

func NewJavaFile(packageName string, typeSpec *TypeSpec) *JavaFileBuilder {
	return &JavaFileBuilder{
		packageName: packageName,
		typeSpec:    typeSpec,
		fileComment: NewCodeBlock(),
	}
}

// AddFileComment adds a // comment above the package declaration.
func (b *JavaFileBuilder) AddFileComment(format string, args ...any) *JavaFileBuilder {
	b.fileComment.Add(format, args...)
	return b
}

// SkipJavaLangImports omits import lines for java.lang types in this file,
// whatever the render configuration says.
func (b *JavaFileBuilder) SkipJavaLangImports(skip bool) *JavaFileBuilder {
	b.skipJavaLangImports = skip
	return b
}

func (b *JavaFileBuilder) Build() (*JavaFile, error) {
	var errs error
	if b.packageName != "" && !IsName(b.packageName) {
		errs = combine(errs, markf(ErrInvalidName, "not a valid package name: %q", b.packageName))
	}
	if b.typeSpec == nil {
		errs = combine(errs, markf(ErrConstruction, "java file has no type"))
	} else if b.typeSpec.IsAnonymous() {
		errs = combine(errs, markf(ErrConstruction, "top-level type cannot be anonymous"))
	}
	comment, err := b.fileComment.Build()
	if err != nil {
		errs = combine(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return &JavaFile{
		packageName:         b.packageName,
		typeSpec:            b.typeSpec,
		fileComment:         comment,
		skipJavaLangImports: b.skipJavaLangImports,
	}, nil
}

func (f *JavaFile) PackageName() string { return f.packageName }

func (f *JavaFile) TypeSpec() *TypeSpec { return f.typeSpec }

// ArtifactName is the conventional relative path of the file, such as
// "com/example/Foo.java".
func (f *JavaFile) ArtifactName() string {
	name := f.typeSpec.Name() + ".java"
	if f.packageName == "" {
		return name
	}
	return path.Join(strings.ReplaceAll(f.packageName, ".", "/"), name)
}

// Artifact is a rendered file.
type Artifact struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
}

func (f *JavaFile) Artifact(cfg *Config) (Artifact, error) {
	src, err := RenderString(f, cfg)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: f.ArtifactName(), Source: src}, nil
}

// WriteTo renders f with the default configuration.
func (f *JavaFile) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	err := Render(f, cw, nil)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (f *JavaFile) String() string {
	s, err := RenderString(f, nil)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

func (f *JavaFile) emit(w *codeWriter) error {
	w.packageName = f.packageName
	defer func() { w.packageName = "" }()

	if !f.fileComment.IsEmpty() {
		if err := w.emitComment(f.fileComment); err != nil {
			return err
		}
	}
	if f.packageName != "" {
		if err := w.emit("package %L;\n\n", f.packageName); err != nil {
			return err
		}
	}

	skipJavaLang := f.skipJavaLangImports || w.cfg.SkipJavaLangImports
	imported := 0
	for _, c := range w.bindings.Imports() {
		if skipJavaLang && c.PackageName() == "java.lang" {
			continue
		}
		if err := w.emit("import %L;\n", c.CanonicalName()); err != nil {
			return err
		}
		imported++
	}
	if imported > 0 {
		if err := w.emitAndIndent("\n"); err != nil {
			return err
		}
	}
	return f.typeSpec.emit(w, "", 0)
}
