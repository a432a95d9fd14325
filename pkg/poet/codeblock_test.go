package poet_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	. "github.com/cmmoran/javagen/pkg/poet"
)

func TestCodeOf(ttt *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{name: "literal", format: "int x = %L", args: []any{42}, want: "int x = 42"},
		{name: "escaped sigil", format: "100%%", want: "100%"},
		{name: "string", format: "s = %S", args: []any{"taco"}, want: `s = "taco"`},
		{name: "null string", format: "s = %S", args: []any{nil}, want: "s = null"},
		{name: "type is qualified when detached", format: "%T list", args: []any{listClass}, want: "java.util.List list"},
		{name: "primitive", format: "%T i", args: []any{Int}, want: "int i"},
		{name: "name", format: "this.%N", args: []any{"count"}, want: "this.count"},
		{name: "indexed", format: "%2L %1L %2L", args: []any{"a", "b"}, want: "b a b"},
		{name: "nested block", format: "return %L", args: []any{MustCode("%S", "x")}, want: `return "x"`},
		{
			name:   "parameterized",
			format: "%T m",
			args:   []any{ParameterizedOf(MustClassName("java.util", "Map"), StringClass, SubtypeOf(MustClassName("java.lang", "Number")))},
			want:   "java.util.Map<java.lang.String, ? extends java.lang.Number> m",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			c, err := CodeOf(tt.format, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, c.String())
		})
	}
}

func TestCodeOfErrors(ttt *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
	}{
		{name: "too few arguments", format: "%L and %L", args: []any{1}},
		{name: "too many arguments", format: "%L", args: []any{1, 2}},
		{name: "arguments without placeholders", format: "plain", args: []any{1}},
		{name: "mixed indexed and relative", format: "%1L %L", args: []any{1, 2}},
		{name: "unused indexed argument", format: "%1L", args: []any{1, 2}},
		{name: "index out of range", format: "%3L", args: []any{1}},
		{name: "dangling sigil", format: "oops %"},
		{name: "unknown placeholder", format: "%Q", args: []any{1}},
		{name: "type placeholder with a string", format: "%T", args: []any{"String"}},
		{name: "string placeholder with a number", format: "%S", args: []any{3}},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			_, err := CodeOf(tt.format, tt.args...)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}

func TestAddNamed(t *testing.T) {
	c, err := NewCodeBlock().
		AddNamed("%food:L tacos are %adjective:L", map[string]any{"food": "beef", "adjective": "great"}).
		Build()
	require.NoError(t, err)
	require.Equal(t, "beef tacos are great", c.String())

	_, err = NewCodeBlock().AddNamed("%missing:L", map[string]any{"food": "beef"}).Build()
	require.True(t, errors.Is(err, ErrFormat))

	_, err = NewCodeBlock().AddNamed("%x:L", map[string]any{"Upper": 1, "x": 1}).Build()
	require.True(t, errors.Is(err, ErrFormat))

	_, err = NewCodeBlock().AddNamed("%food:L", map[string]any{"food": "beef", "extra": 1, "drink": 2}).Build()
	require.True(t, errors.Is(err, ErrFormat))
	require.ErrorContains(t, err, "unused arguments %drink, %extra")

	c, err = NewCodeBlock().AddNamed("%food:L and %food:L", map[string]any{"food": "beef"}).Build()
	require.NoError(t, err)
	require.Equal(t, "beef and beef", c.String())
}

func TestControlFlowBalance(t *testing.T) {
	c, err := NewCodeBlock().
		BeginControlFlow("do").
		AddStatement("next()").
		EndControlFlowWith("while (more())").
		Build()
	require.NoError(t, err)
	require.Equal(t, "do {\n  next();\n} while (more());\n", c.String())

	_, err = NewCodeBlock().EndControlFlow().Build()
	require.True(t, errors.Is(err, ErrControlFlow))

	_, err = NewCodeBlock().NextControlFlow("else").Build()
	require.True(t, errors.Is(err, ErrControlFlow))

	_, err = NewCodeBlock().Indent().Add("x\n").Build()
	require.Error(t, err)

	_, err = NewCodeBlock().Unindent().Build()
	require.Error(t, err)
}

func TestCodeBlockEqual(t *testing.T) {
	a := MustCode("%T x = %S", StringClass, "y")
	b := MustCode("%T x = %S", StringClass, "y")
	c := MustCode("%T x = %S", StringClass, "z")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))

	joined := JoinCode([]CodeBlock{MustCode("a"), MustCode("b"), MustCode("c")}, ", ")
	require.Equal(t, "a, b, c", joined.String())
	require.True(t, CodeBlock{}.IsEmpty())
}
