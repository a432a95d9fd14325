package bundle

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/javagen/pkg/action/render"
	"github.com/cmmoran/javagen/pkg/parser"
	"github.com/cmmoran/javagen/pkg/poet"
)

// File builds a Go source file in package pkg that embeds arts:
//
//	var Sources = map[string]string{"com/example/Foo.java": "...", ...}
//	var Names = []string{...}
//	func Lookup(name string) (string, bool)
func File(pkg string, arts []poet.Artifact) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by javagen. DO NOT EDIT.")

	f.Comment("Sources maps artifact names to rendered Java source.")
	f.Var().Id("Sources").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, a := range arts {
			d[jen.Lit(a.Name)] = jen.Lit(a.Source)
		}
	}))

	f.Comment("Names lists the artifact names in order.")
	f.Var().Id("Names").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, a := range arts {
			g.Lit(a.Name)
		}
	})

	f.Comment("Lookup returns the source rendered for name.")
	f.Func().Id("Lookup").Params(jen.Id("name").String()).Params(jen.String(), jen.Bool()).Block(
		jen.List(jen.Id("src"), jen.Id("ok")).Op(":=").Id("Sources").Index(jen.Id("name")),
		jen.Return(jen.Id("src"), jen.Id("ok")),
	)
	return f
}

// Write renders the bundle for arts to out.
func Write(out io.Writer, pkg string, arts []poet.Artifact) error {
	return File(pkg, arts).Render(out)
}

// Generate renders every document and writes the bundle to
// OutDir/BundleFile. It returns the written path.
func Generate(ctx context.Context, opts *parser.Options) (string, error) {
	arts, err := render.Artifacts(ctx, opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(opts.OutDir, opts.BundleFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	ff, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", path)
	}
	if err := Write(ff, opts.BundlePackage, arts); err != nil {
		_ = ff.Close()
		return "", errors.Wrapf(err, "render %s", path)
	}
	return path, errors.Wrapf(ff.Close(), "close %s", path)
}
