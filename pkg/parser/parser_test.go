package parser_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	. "github.com/cmmoran/javagen/pkg/parser"
	"github.com/cmmoran/javagen/pkg/poet"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	inDir     = "testdata/documents"
	expectDir = "testdata/expectations"
)

func TestRenderAll(ttt *testing.T) {
	type args struct {
		opts []Option
	}
	tests := []struct {
		name      string
		args      args
		wantNames []string
		wantErr   bool
	}{
		{
			name: "render with defaults",
			args: args{
				opts: []Option{WithInFiles(inDir)},
			},
			wantNames: []string{
				"com/example/pizza/Pizza.java",
				"com/example/shapes/Shape.java",
				"com/example/util/Box.java",
			},
		},
		{
			name: "render serially",
			args: args{
				opts: []Option{WithInFiles(inDir), WithJobs(1)},
			},
			wantNames: []string{
				"com/example/pizza/Pizza.java",
				"com/example/shapes/Shape.java",
				"com/example/util/Box.java",
			},
		},
		{
			name: "render with excludetype",
			args: args{
				opts: []Option{WithInFiles(inDir), WithExcludeTypes(" shape ")},
			},
			wantNames: []string{
				"com/example/pizza/Pizza.java",
				"com/example/util/Box.java",
			},
		},
		{
			name: "render single file",
			args: args{
				opts: []Option{WithInFiles(filepath.Join(inDir, "box.json"))},
			},
			wantNames: []string{"com/example/util/Box.java"},
		},
		{
			name: "missing input",
			args: args{
				opts: []Option{WithInFiles(filepath.Join(inDir, "nope.yaml"))},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.args.opts...)
			require.NoError(t, err)
			jsbyt, _ := json.MarshalIndent(got.Opts, "", "  ")
			t.Logf("Options: %v", string(jsbyt))

			err = got.Parse()
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			arts, err := got.RenderAll(context.Background())
			require.NoError(t, err)
			names := make([]string, len(arts))
			for i, a := range arts {
				names[i] = a.Name
				expectedBytes, err := os.ReadFile(filepath.Join(expectDir, filepath.FromSlash(a.Name)))
				require.NoError(t, err)
				diff := cmp.Diff(string(expectedBytes), a.Source)
				require.EqualValuesf(t, string(expectedBytes), a.Source, "RenderAll() %s diff = %s", a.Name, diff)
			}
			require.Equal(t, tt.wantNames, names)
		})
	}
}

func TestNewRequiresInput(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}

func TestOptionsNormalize(t *testing.T) {
	o := &Options{ExcludeTypes: []string{" Foo "}}
	o.Normalize()
	require.Equal(t, "java", o.OutDir)
	require.Equal(t, "javasrc", o.BundlePackage)
	require.Equal(t, "sources_gen.go", o.BundleFile)
	require.Positive(t, o.Jobs)
	require.Equal(t, []string{"Foo"}, o.ExcludeTypes)
	require.Equal(t, poet.DefaultMaxWidth, o.Render.MaxWidth)
	require.Equal(t, poet.DefaultContinuationIndent, o.Render.ContinuationIndent)

	o = NewOptions()
	WithRender(poet.WithMaxWidth(80), poet.WithTabs())(o)
	o.Normalize()
	require.Equal(t, 80, o.Render.MaxWidth)
	require.True(t, o.Render.UseTabs)
}

func TestDecodeDocuments(ttt *testing.T) {
	tests := []struct {
		name    string
		ext     string
		data    string
		want    []string
		wantErr error
	}{
		{
			name: "yaml stream",
			ext:  ".yaml",
			data: "package: a\ntype: {name: One}\n---\npackage: b\ntype: {name: Two}\n",
			want: []string{"a.One", "b.Two"},
		},
		{
			name: "toml",
			ext:  "toml",
			data: "package = \"a\"\n[type]\nname = \"One\"\n",
			want: []string{"a.One"},
		},
		{
			name: "json",
			ext:  ".JSON",
			data: `{"package": "a", "type": {"name": "One"}}`,
			want: []string{"a.One"},
		},
		{
			name:    "unknown yaml key",
			ext:     ".yml",
			data:    "package: a\ntype: {name: One, colour: red}\n",
			wantErr: ErrDocument,
		},
		{
			name:    "unknown toml key",
			ext:     ".toml",
			data:    "package = \"a\"\nflavour = \"x\"\n[type]\nname = \"One\"\n",
			wantErr: ErrDocument,
		},
		{
			name:    "unknown json key",
			ext:     ".json",
			data:    `{"package": "a", "kind": "class"}`,
			wantErr: ErrDocument,
		},
		{
			name:    "unsupported",
			ext:     ".xml",
			data:    "<type/>",
			wantErr: ErrUnsupportedFormat,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			docs, err := DecodeDocuments(tt.ext, []byte(tt.data))
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Truef(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			got := make([]string, len(docs))
			for i, d := range docs {
				got[i] = d.Package + "." + d.Type.Name
			}
			require.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestRenderAllRejectsDuplicateArtifacts(t *testing.T) {
	dir := t.TempDir()
	doc := "package: com.example\ntype: {name: Same}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(doc), 0o644))

	p, err := New(WithInFiles(dir))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Len(t, p.Documents, 2)

	_, err = p.RenderAll(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDocument))
	require.Contains(t, err.Error(), "com/example/Same.java")
}

func TestRenderAllHonoursCancellation(t *testing.T) {
	p, err := New(WithInFiles(inDir))
	require.NoError(t, err)
	require.NoError(t, p.Parse())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.RenderAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFilesReportsSource(t *testing.T) {
	dir := t.TempDir()
	bad := "package: com.example\ntype: {name: Bad, kind: struct}\n"
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	p, err := New(WithInFiles(path))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	_, err = p.Files()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDocument))
	require.Contains(t, err.Error(), path)
	require.Contains(t, err.Error(), `unknown type kind "struct"`)
}
