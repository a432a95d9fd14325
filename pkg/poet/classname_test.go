package poet_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	. "github.com/cmmoran/javagen/pkg/poet"
)

func TestClassName(t *testing.T) {
	entry := MustClassName("java.util", "Map", "Entry")
	require.Equal(t, "java.util", entry.PackageName())
	require.Equal(t, "Entry", entry.SimpleName())
	require.Equal(t, []string{"Map", "Entry"}, entry.SimpleNames())
	require.Equal(t, "java.util.Map.Entry", entry.CanonicalName())
	require.Equal(t, "java.util.Map$Entry", entry.ReflectionName())

	outer, ok := entry.EnclosingClassName()
	require.True(t, ok)
	require.True(t, outer.Equal(MustClassName("java.util", "Map")))
	require.True(t, entry.TopLevelClassName().Equal(outer))
	require.True(t, outer.NestedClass("Entry").Equal(entry))
	require.Equal(t, "java.util.Map.Node", entry.PeerClass("Node").CanonicalName())

	_, ok = outer.EnclosingClassName()
	require.False(t, ok)

	noPkg := MustClassName("", "Local")
	require.Equal(t, "Local", noPkg.CanonicalName())
}

func TestNewClassNameRejectsBadNames(ttt *testing.T) {
	tests := []struct {
		name   string
		pkg    string
		simple string
		nested []string
	}{
		{name: "keyword", pkg: "com.example", simple: "class"},
		{name: "empty", pkg: "com.example", simple: ""},
		{name: "digit start", pkg: "com.example", simple: "1Thing"},
		{name: "bad package", pkg: "com..example", simple: "Thing"},
		{name: "dotted simple name", pkg: "com.example", simple: "A.B"},
		{name: "bad nested name", pkg: "com.example", simple: "A", nested: []string{"int"}},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			_, err := NewClassName(tt.pkg, tt.simple, tt.nested...)
			require.True(t, errors.Is(err, ErrInvalidName), "got %v", err)
		})
	}
}

func TestBestGuess(ttt *testing.T) {
	tests := []struct {
		in      string
		pkg     string
		simples []string
		wantErr bool
	}{
		{in: "java.lang.String", pkg: "java.lang", simples: []string{"String"}},
		{in: "java.util.Map.Entry", pkg: "java.util", simples: []string{"Map", "Entry"}},
		{in: "Foo", pkg: "", simples: []string{"Foo"}},
		{in: "java.util", wantErr: true},
		{in: "com.example.Foo.class", wantErr: true},
	}
	for _, tt := range tests {
		ttt.Run(tt.in, func(t *testing.T) {
			c, err := BestGuess(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.pkg, c.PackageName())
			require.Equal(t, tt.simples, c.SimpleNames())
		})
	}
}

func TestClassNameCompare(t *testing.T) {
	a := MustClassName("com.a", "Zed")
	b := MustClassName("com.b", "Alpha")
	require.Negative(t, a.Compare(b))
	require.Positive(t, b.Compare(a))
	require.Zero(t, a.Compare(MustClassName("com.a", "Zed")))
}

func TestModifiers(t *testing.T) {
	m, ok := ParseModifier("static")
	require.True(t, ok)
	require.Equal(t, Static, m)
	_, ok = ParseModifier("sealed")
	require.False(t, ok)

	require.Equal(t, "public static final", (Final | Static | Public).String())
	require.True(t, (Public | Static).Has(Static))
	require.False(t, (Public | Static).Has(Static|Final))
	require.Equal(t, Static, (Public | Static).Without(Public))
}

func TestNames(t *testing.T) {
	require.True(t, IsKeyword("class"))
	require.True(t, IsKeyword("null"))
	require.False(t, IsKeyword("klass"))
	require.True(t, IsIdentifier("$taco_1"))
	require.False(t, IsIdentifier("1taco"))
	require.True(t, IsName("com.example.taco"))
	require.False(t, IsName("com.example."))
}
