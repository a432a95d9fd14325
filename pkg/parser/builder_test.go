package parser

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/javagen/internal/model"
	"github.com/cmmoran/javagen/pkg/poet"
)

func renderDocument(t *testing.T, opts *Options, src string) (string, error) {
	t.Helper()
	docs, err := DecodeDocuments("yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	opts.Normalize()
	f, err := NewBuilder(opts, docs[0]).BuildFile()
	if err != nil {
		return "", err
	}
	return poet.RenderString(f, &opts.Render)
}

func TestBuildFile(ttt *testing.T) {
	tests := []struct {
		name string
		opts []Option
		doc  string
		want string
	}{
		{
			name: "interface members get implicit modifiers",
			doc: `
package: com.example
type:
  kind: interface
  name: Repo
  type_variables: [{name: T}]
  methods:
    - name: find
      returns: java.util.Optional<T>
      parameters: [{name: id, type: long}]
    - name: all
      modifiers: [static]
      returns: int
      code: [{statement: return 0}]
  types:
    - name: Entry
`,
			want: `package com.example;

import java.util.Optional;

interface Repo<T> {
  Optional<T> find(long id);

  static int all() {
    return 0;
  }

  class Entry {
  }
}
`,
		},
		{
			name: "annotation type with defaults",
			doc: `
package: com.example
skip_java_lang_imports: true
type:
  kind: annotation
  name: Retry
  modifiers: [public]
  annotations:
    - type: java.lang.annotation.Retention
      members:
        - name: value
          format: "%T.RUNTIME"
          args: [{T: java.lang.annotation.RetentionPolicy}]
  methods:
    - name: attempts
      returns: int
      default: {format: "3"}
    - name: reason
      returns: String
      default: {format: "%S", args: [{S: none}]}
`,
			want: `package com.example;

import java.lang.annotation.Retention;
import java.lang.annotation.RetentionPolicy;

@Retention(RetentionPolicy.RUNTIME)
public @interface Retry {
  int attempts() default 3;

  String reason() default "none";
}
`,
		},
		{
			name: "enum constants with arguments and bodies",
			doc: `
package: com.example
skip_java_lang_imports: true
type:
  kind: enum
  name: Op
  enum_constants:
    - name: ADD
      args: {format: "%S", args: [{S: "+"}]}
    - name: NEG
      javadoc: Unary minus.
      args: {format: "%S", args: [{S: "-"}]}
      methods:
        - name: unary
          modifiers: [public]
          returns: boolean
          annotations: [{type: Override}]
          code: [{statement: return true}]
  fields:
    - name: symbol
      type: String
      modifiers: [private, final]
  methods:
    - constructor: true
      parameters: [{name: symbol, type: String}]
      code:
        - statement: "this.%N = %N"
          args: [{N: symbol}, {N: symbol}]
    - name: unary
      modifiers: [public]
      returns: boolean
      code: [{statement: return false}]
`,
			want: `package com.example;

enum Op {
  ADD("+"),

  /**
   * Unary minus.
   */
  NEG("-") {
    @Override
    public boolean unary() {
      return true;
    }
  };

  private final String symbol;

  Op(String symbol) {
    this.symbol = symbol;
  }

  public boolean unary() {
    return false;
  }
}
`,
		},
		{
			name: "static and initializer blocks with control flow",
			doc: `
package: com.example
type:
  name: Registry
  fields:
    - name: NAMES
      type: java.util.Map<String, Integer>
      modifiers: [static, final]
      initializer: {format: "new %T<>()", args: [{T: java.util.HashMap}]}
    - name: ready
      type: boolean
  static_block:
    - begin: "for (int i = 0; i < %L; i++)"
      args: [{L: 3}]
    - statement: "NAMES.put(%T.valueOf(i), i)"
      args: [{T: String}]
    - end: true
  initializer_block:
    - comment: warm up
    - begin: if (!ready)
    - statement: ready = true
    - next: else
    - statement: "throw new %T(%S)"
      args: [{T: IllegalStateException}, {S: twice}]
    - end: true
`,
			opts: []Option{WithRender(poet.WithSkipJavaLangImports())},
			want: `package com.example;

import java.util.HashMap;
import java.util.Map;

class Registry {
  static final Map<String, Integer> NAMES = new HashMap<>();

  static {
    for (int i = 0; i < 3; i++) {
      NAMES.put(String.valueOf(i), i);
    }
  }

  boolean ready;

  {
    // warm up
    if (!ready) {
      ready = true;
    } else {
      throw new IllegalStateException("twice");
    }
  }
}
`,
		},
		{
			name: "accessors from options skip static fields",
			opts: []Option{WithAccessors(), WithFileComment("generated\n")},
			doc: `
package: com.example
skip_java_lang_imports: true
type:
  name: Team
  fields:
    - name: COUNT
      type: int
      modifiers: [static]
    - name: people
      type: java.util.Set<? super String>
      modifiers: [final]
    - name: items
      type: java.util.List<byte[]>
      modifiers: [final]
`,
			want: `// generated
package com.example;

import java.util.List;
import java.util.Set;

class Team {
  static int COUNT;

  final Set<? super String> people;

  final List<byte[]> items;

  public Set<? super String> getPeople() {
    return this.people;
  }

  public void addPerson(String person) {
    this.people.add(person);
  }

  public List<byte[]> getItems() {
    return this.items;
  }

  public void addItem(byte[] item) {
    this.items.add(item);
  }
}
`,
		},
		{
			name: "nested names resolve through the document",
			doc: `
package: com.example
skip_java_lang_imports: true
type:
  name: Outer
  fields:
    - name: leaf
      type: Middle.Leaf
    - name: peer
      type: Helper
  types:
    - name: Middle
      modifiers: [static]
      types:
        - name: Leaf
          modifiers: [static]
`,
			want: `package com.example;

class Outer {
  Middle.Leaf leaf;

  Helper peer;

  static class Middle {
    static class Leaf {
    }
  }
}
`,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := NewOptions()
			for _, fn := range tt.opts {
				fn(opts)
			}
			got, err := renderDocument(t, opts, tt.doc)
			require.NoError(t, err)
			diff := cmp.Diff(tt.want, got)
			require.EqualValuesf(t, tt.want, got, "BuildFile() diff = %s", diff)
		})
	}
}

func TestBuildFileErrors(ttt *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "no type",
			doc:     "package: com.example\n",
			wantErr: ErrDocument,
		},
		{
			name:    "duplicate nested type",
			doc:     "package: a\ntype: {name: A, types: [{name: B}, {name: B}]}\n",
			wantErr: ErrDocument,
			wantMsg: "a.A.B declared twice",
		},
		{
			name:    "unknown modifier",
			doc:     "package: a\ntype: {name: A, modifiers: [sealed]}\n",
			wantErr: ErrDocument,
			wantMsg: `unknown modifier "sealed"`,
		},
		{
			name:    "constructor with return type",
			doc:     "package: a\ntype: {name: A, methods: [{constructor: true, returns: int}]}\n",
			wantErr: ErrDocument,
			wantMsg: "method a.A.<init>",
		},
		{
			name:    "two keys in one step",
			doc:     "package: a\ntype: {name: A, methods: [{name: m, code: [{statement: x, add: y}]}]}\n",
			wantErr: ErrDocument,
			wantMsg: "step 1 sets 2",
		},
		{
			name:    "bad argument kind",
			doc:     "package: a\ntype: {name: A, methods: [{name: m, code: [{statement: x, args: [{Q: 1}]}]}]}\n",
			wantErr: ErrDocument,
			wantMsg: `unknown kind "Q"`,
		},
		{
			name:    "bad type expression",
			doc:     "package: a\ntype: {name: A, fields: [{name: f, type: \"List<\"}]}\n",
			wantErr: ErrTypeExpression,
			wantMsg: "field a.A.f",
		},
		{
			name:    "type variable with arguments",
			doc:     "package: a\ntype: {name: A, type_variables: [{name: T}], fields: [{name: f, type: \"T<String>\"}]}\n",
			wantErr: ErrTypeExpression,
		},
		{
			name:    "unbalanced control flow",
			doc:     "package: a\ntype: {name: A, methods: [{name: m, code: [{begin: if (x)}]}]}\n",
			wantErr: poet.ErrControlFlow,
		},
		{
			name:    "format arity",
			doc:     "package: a\ntype: {name: A, fields: [{name: f, type: int, initializer: {format: \"%L + %L\", args: [{L: 1}]}}]}\n",
			wantErr: poet.ErrFormat,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			docs, err := DecodeDocuments("yaml", []byte(tt.doc))
			require.NoError(t, err)
			opts := NewOptions()
			opts.Normalize()
			_, err = NewBuilder(opts, docs[0]).BuildFile()
			require.Error(t, err)
			require.Truef(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				require.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestScopeResolution(t *testing.T) {
	top := poet.MustClassName("com.example", "Outer")
	s := &typeScope{
		pkg:      "com.example",
		declared: map[string]poet.ClassName{"Outer": top, "Inner": top.NestedClass("Inner")},
	}
	s = s.withVars([]model.TypeVariable{{Name: "T"}})

	tests := []struct {
		expr string
		want poet.TypeName
	}{
		{"T", poet.TypeVariable("T")},
		{"Inner", top.NestedClass("Inner")},
		{"Outer.Inner.Deep", top.NestedClass("Inner").NestedClass("Deep")},
		{"String", poet.StringClass},
		{"Widget", poet.MustClassName("com.example", "Widget")},
		{"java.util.Map.Entry", poet.MustClassName("java.util", "Map", "Entry")},
		{"long[]", poet.ArrayOf(poet.Long)},
		{"java.util.List<T>", poet.ParameterizedOf(poet.MustClassName("java.util", "List"), poet.TypeVariable("T"))},
	}
	for _, tt := range tests {
		got, err := s.resolve(tt.expr)
		require.NoError(t, err, tt.expr)
		require.Equal(t, tt.want.String(), got.String(), tt.expr)
	}

	_, err := s.resolveClass("T")
	require.True(t, errors.Is(err, ErrTypeExpression))
}
