package poet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	. "github.com/cmmoran/javagen/pkg/poet"
)

var (
	systemClass = MustClassName("java.lang", "System")
	listClass   = MustClassName("java.util", "List")
)

func mustFile(t *testing.T, pkg string, typ *TypeSpec) *JavaFile {
	t.Helper()
	f, err := NewJavaFile(pkg, typ).Build()
	require.NoError(t, err)
	return f
}

func TestRender(ttt *testing.T) {
	tests := []struct {
		name string
		pkg  string
		typ  func() *TypeSpec
		cfg  *Config
		want string
	}{
		{
			name: "hello world",
			pkg:  "com.example.helloworld",
			typ: func() *TypeSpec {
				main := NewMethodBuilder("main").
					AddModifiers(Public, Static).
					AddParameterOf(ArrayOf(StringClass), "args").
					AddStatement("%T.out.println(%S)", systemClass, "Hello, JavaPoet!").
					Build()
				return NewClassBuilder("HelloWorld").
					AddModifiers(Public, Final).
					AddMethod(main).
					Build()
			},
			want: `package com.example.helloworld;

import java.lang.String;
import java.lang.System;

public final class HelloWorld {
  public static void main(String[] args) {
    System.out.println("Hello, JavaPoet!");
  }
}
`,
		},
		{
			name: "colliding simple names keep the first import",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				return NewClassBuilder("Holder").
					AddField(NewFieldBuilder(MustClassName("com.x", "C"), "first").Build()).
					AddField(NewFieldBuilder(MustClassName("com.y", "C"), "second").Build()).
					Build()
			},
			want: `package com.example;

import com.x.C;

class Holder {
  C first;

  com.y.C second;
}
`,
		},
		{
			name: "member type shadows an imported name",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				nested := NewClassBuilder("List").AddModifiers(Static).Build()
				return NewClassBuilder("Foo").
					AddField(NewFieldBuilder(ParameterizedOf(listClass, StringClass), "items").Build()).
					AddField(NewFieldBuilder(MustClassName("com.example", "Foo", "List"), "local").Build()).
					AddType(nested).
					Build()
			},
			want: `package com.example;

import java.lang.String;

class Foo {
  java.util.List<String> items;

  List local;

  static class List {
  }
}
`,
		},
		{
			name: "member type wins over an import of the same simple name",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				return NewClassBuilder("Outer").
					Superclass(MustClassName("com.y", "Inner")).
					AddField(NewFieldBuilder(MustClassName("com.example", "Outer", "Inner"), "local").Build()).
					AddType(NewClassBuilder("Inner").AddModifiers(Static).Build()).
					Build()
			},
			want: `package com.example;

import com.y.Inner;

class Outer extends Inner {
  Inner local;

  static class Inner {
  }
}
`,
		},
		{
			name: "type variable shadows a class",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				return NewClassBuilder("Box").
					AddTypeVariables(TypeVariable("T")).
					AddField(NewFieldBuilder(TypeVariable("T"), "value").Build()).
					AddField(NewFieldBuilder(MustClassName("com.other", "T"), "other").Build()).
					Build()
			},
			want: `package com.example;

class Box<T> {
  T value;

  com.other.T other;
}
`,
		},
		{
			name: "same package name wins over an import",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				return NewClassBuilder("Pair").
					AddField(NewFieldBuilder(MustClassName("com.example", "Other"), "mine").Build()).
					AddField(NewFieldBuilder(MustClassName("com.lib", "Other"), "theirs").Build()).
					Build()
			},
			want: `package com.example;

class Pair {
  Other mine;

  com.lib.Other theirs;
}
`,
		},
		{
			name: "control flow",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				sum := NewMethodBuilder("sum").
					Returns(Int).
					AddStatement("int total = 0").
					BeginControlFlow("for (int i = 0; i < %L; i++)", 10).
					BeginControlFlow("if (i %% 2 == 0)").
					AddStatement("total += i").
					NextControlFlow("else").
					AddStatement("total -= i").
					EndControlFlow().
					EndControlFlow().
					AddStatement("return total").
					Build()
				return NewClassBuilder("Math").AddMethod(sum).Build()
			},
			want: `package com.example;

class Math {
  int sum() {
    int total = 0;
    for (int i = 0; i < 10; i++) {
      if (i % 2 == 0) {
        total += i;
      } else {
        total -= i;
      }
    }
    return total;
  }
}
`,
		},
		{
			name: "enum with constant arguments",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				ctor := NewConstructorBuilder().
					AddParameterOf(StringClass, "handsign").
					AddStatement("this.%N = %N", "handsign", "handsign").
					Build()
				return NewEnumBuilder("Roshambo").
					AddModifiers(Public).
					AddEnumConstantWith("ROCK", NewAnonymousClassBuilder("%S", "fist").Build()).
					AddEnumConstantWith("PAPER", NewAnonymousClassBuilder("%S", "flat").Build()).
					AddField(NewFieldBuilder(StringClass, "handsign", Private, Final).Build()).
					AddMethod(ctor).
					Build()
			},
			want: `package com.example;

import java.lang.String;

public enum Roshambo {
  ROCK("fist"),

  PAPER("flat");

  private final String handsign;

  Roshambo(String handsign) {
    this.handsign = handsign;
  }
}
`,
		},
		{
			name: "interface members drop implicit modifiers",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				return NewInterfaceBuilder("Greeter").
					AddModifiers(Public).
					AddField(NewFieldBuilder(StringClass, "PREFIX", Public, Static, Final).Initializer("%S", "Hello, ").Build()).
					AddMethod(NewMethodBuilder("name").AddModifiers(Public, Abstract).Returns(StringClass).Build()).
					AddMethod(NewMethodBuilder("greet").AddModifiers(Public, Default).Returns(StringClass).
						AddStatement("return PREFIX + name()").Build()).
					Build()
			},
			cfg: NewConfig(WithSkipJavaLangImports()),
			want: `package com.example;

public interface Greeter {
  String PREFIX = "Hello, ";

  String name();

  default String greet() {
    return PREFIX + name();
  }
}
`,
		},
		{
			name: "annotations and javadoc",
			pkg:  "com.example",
			typ: func() *TypeSpec {
				route := NewAnnotationBuilder(MustClassName("com.example.web", "Route")).
					AddMember("path", "%S", "/tacos").
					AddMember("method", "%S", "GET").
					Build()
				toString := NewMethodBuilder("toString").
					AddAnnotation(Annotation(OverrideClass)).
					AddModifiers(Public).
					Returns(StringClass).
					AddStatement("return %S", "Taco").
					Build()
				return NewClassBuilder("TacoController").
					AddJavadoc("Serves tacos.\n").
					AddAnnotation(route).
					AddModifiers(Public).
					AddMethod(toString).
					Build()
			},
			cfg: NewConfig(WithSkipJavaLangImports()),
			want: `package com.example;

import com.example.web.Route;

/**
 * Serves tacos.
 */
@Route(
  path = "/tacos",
  method = "GET"
)
public class TacoController {
  @Override
  public String toString() {
    return "Taco";
  }
}
`,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := mustFile(t, tt.pkg, tt.typ())
			got, err := RenderString(f, tt.cfg)
			require.NoError(t, err)
			diff := cmp.Diff(tt.want, got)
			require.EqualValuesf(t, tt.want, got, "RenderString() diff = %s", diff)
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	typ := NewClassBuilder("Twice").
		AddField(NewFieldBuilder(MustClassName("com.x", "C"), "c").Build()).
		AddMethod(NewMethodBuilder("run").AddStatement("%T.gc()", systemClass).Build()).
		Build()
	f := mustFile(t, "com.example", typ)

	first, err := RenderString(f, nil)
	require.NoError(t, err)
	second, err := RenderString(f, nil)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second))
}

func TestBindingsAreDeterministic(t *testing.T) {
	typ := NewClassBuilder("Refs").
		AddField(NewFieldBuilder(MustClassName("com.b", "Beta"), "b").Build()).
		AddField(NewFieldBuilder(MustClassName("com.a", "Alpha"), "a").Build()).
		AddField(NewFieldBuilder(MustClassName("com.z", "Alpha"), "z").Build()).
		Build()
	f := mustFile(t, "com.example", typ)

	for i := 0; i < 5; i++ {
		table, err := CollectBindings(f, nil)
		require.NoError(t, err)
		names := make([]string, 0, table.Len())
		for _, c := range table.Imports() {
			names = append(names, c.CanonicalName())
		}
		require.Equal(t, []string{"com.a.Alpha", "com.b.Beta"}, names)
	}
}

func TestNestedReferenceImportsTopLevelOnce(t *testing.T) {
	deep := MustClassName("com.a", "A", "B", "C")
	typ := NewClassBuilder("Uses").
		AddField(NewFieldBuilder(deep, "ref").Build()).
		AddField(NewFieldBuilder(deep, "again").Build()).
		Build()
	got, err := RenderString(mustFile(t, "com.example", typ), nil)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(got, "import "))
	require.Contains(t, got, "import com.a.A;\n")
	require.Contains(t, got, "  A.B.C ref;\n")
	require.Contains(t, got, "  A.B.C again;\n")
}

func TestPackageQualifiedReferenceImportsOnce(t *testing.T) {
	c := MustClassName("A.B", "C")
	typ := NewClassBuilder("Uses").
		AddField(NewFieldBuilder(c, "ref").Build()).
		AddMethod(NewMethodBuilder("get").Returns(c).AddStatement("return ref").Build()).
		Build()
	got, err := RenderString(mustFile(t, "com.example", typ), nil)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(got, "A.B.C"))
	require.Contains(t, got, "import A.B.C;\n")
	require.Contains(t, got, "  C ref;\n")
	require.Contains(t, got, "  C get() {\n")
}

func TestWrapSafety(t *testing.T) {
	call := NewMethodBuilder("call").
		AddParameterOf(StringClass, "alpha").
		AddParameterOf(StringClass, "beta").
		AddParameterOf(StringClass, "gamma").
		Build()
	typ := NewClassBuilder("Wide").AddMethod(call).Build()
	got, err := RenderString(mustFile(t, "", typ), NewConfig(WithMaxWidth(40)))
	require.NoError(t, err)

	want := `import java.lang.String;

class Wide {
  void call(String alpha, String beta,
    String gamma) {
  }
}
`
	require.EqualValuesf(t, want, got, "diff = %s", cmp.Diff(want, got))
	for _, line := range strings.Split(got, "\n") {
		require.LessOrEqual(t, len(line), 40, "line %q", line)
	}
}

func TestStringLiteralContinuation(t *testing.T) {
	c := MustCode("%S", "first\nsecond")
	require.Equal(t, "\"first\\n\"\n  + \"second\"", c.String())

	escaped := MustCode("%S", "tab\there \"quoted\" \\ 'single'")
	require.Equal(t, `"tab\there \"quoted\" \\ 'single'"`, escaped.String())

	require.Equal(t, "null", MustCode("%S", nil).String())
}

type failingWriter struct {
	after int
	err   error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, w.err
	}
	if len(p) > w.after {
		n := w.after
		w.after = 0
		return n, w.err
	}
	w.after -= len(p)
	return len(p), nil
}

func TestSinkFailureIsReturnedUnchanged(t *testing.T) {
	errSink := errors.New("disk full")
	typ := NewClassBuilder("Big").
		AddMethod(NewMethodBuilder("run").AddStatement("%T.gc()", systemClass).Build()).
		Build()
	f := mustFile(t, "com.example", typ)

	for _, after := range []int{0, 10, 40} {
		err := Render(f, &failingWriter{after: after, err: errSink}, nil)
		require.Error(t, err)
		require.True(t, err == errSink, "got %v", err)
	}
}

func TestConstructionFailureAbortsBeforeOutput(t *testing.T) {
	broken := NewEnumBuilder("Empty").Build()
	f := mustFile(t, "com.example", broken)

	var out bytes.Buffer
	err := Render(f, &out, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConstruction))
	require.Zero(t, out.Len())

	// memoized: the same failure again
	err2 := Render(f, &out, nil)
	require.Error(t, err2)
	require.Equal(t, err.Error(), err2.Error())
}

func TestUnbalancedControlFlowFailsConstruction(t *testing.T) {
	m := NewMethodBuilder("open").BeginControlFlow("if (ready)").AddStatement("go()").Build()
	f := mustFile(t, "com.example", NewClassBuilder("Open").AddMethod(m).Build())

	_, err := RenderString(f, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConstruction))
	require.True(t, errors.Is(err, ErrControlFlow))
}

func TestJavaFileArtifact(t *testing.T) {
	f := mustFile(t, "com.example.tacos", NewClassBuilder("Taco").Build())
	require.Equal(t, "com/example/tacos/Taco.java", f.ArtifactName())

	a, err := f.Artifact(NewConfig())
	require.NoError(t, err)
	require.Equal(t, "com/example/tacos/Taco.java", a.Name)
	require.Equal(t, "package com.example.tacos;\n\nclass Taco {\n}\n", a.Source)

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
}

func TestFileComment(t *testing.T) {
	f, err := NewJavaFile("com.example", NewClassBuilder("Gen").Build()).
		AddFileComment("Code generated by javagen. DO NOT EDIT.").
		Build()
	require.NoError(t, err)
	got, err := RenderString(f, nil)
	require.NoError(t, err)
	require.Equal(t, "// Code generated by javagen. DO NOT EDIT.\npackage com.example;\n\nclass Gen {\n}\n", got)
}

func TestTabsIndent(t *testing.T) {
	m := NewMethodBuilder("run").AddStatement("stop()").Build()
	f := mustFile(t, "", NewClassBuilder("Tabbed").AddMethod(m).Build())
	got, err := RenderString(f, NewConfig(WithTabs()))
	require.NoError(t, err)
	require.Equal(t, "class Tabbed {\n\tvoid run() {\n\t\tstop();\n\t}\n}\n", got)
}
