package render

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/javagen/pkg/parser"
	"github.com/cmmoran/javagen/pkg/poet"
)

// Artifacts parses the documents named by p and renders every file.
func Artifacts(ctx context.Context, p *parser.Options) ([]poet.Artifact, error) {
	par, err := parser.NewWithOpts(p)
	if err != nil {
		return nil, err
	}
	if err = par.Parse(); err != nil {
		return nil, err
	}
	return par.RenderAll(ctx)
}

// Generate renders every document and writes the sources under dir, one file
// per artifact. It returns the written paths.
func Generate(ctx context.Context, p *parser.Options) ([]string, error) {
	arts, err := Artifacts(ctx, p)
	if err != nil {
		return nil, err
	}
	return WriteArtifacts(p.OutDir, arts)
}

// WriteArtifacts writes arts under dir. Nothing is written when any artifact
// name would escape dir.
func WriteArtifacts(dir string, arts []poet.Artifact) ([]string, error) {
	paths := make([]string, len(arts))
	for i, a := range arts {
		rel := filepath.FromSlash(a.Name)
		if !filepath.IsLocal(rel) {
			return nil, errors.Newf("artifact %s escapes %s", a.Name, dir)
		}
		paths[i] = filepath.Join(dir, rel)
	}
	for i, a := range arts {
		if err := os.MkdirAll(filepath.Dir(paths[i]), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create %s", filepath.Dir(paths[i]))
		}
		if err := os.WriteFile(paths[i], []byte(a.Source), 0o644); err != nil {
			return nil, errors.Wrapf(err, "write %s", paths[i])
		}
	}
	return paths, nil
}

// Print writes arts to out, each preceded by a header comment naming it.
func Print(out io.Writer, arts []poet.Artifact) error {
	for _, a := range arts {
		if _, err := io.WriteString(out, "// ==> "+a.Name+"\n"+a.Source); err != nil {
			return err
		}
	}
	return nil
}
