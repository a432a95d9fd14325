package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/javagen/internal/model"
	"github.com/cmmoran/javagen/pkg/poet"
)

// Parser holds state/results of a parse run.
type Parser struct {
	Opts Options

	// Documents in the order they were read.
	Documents []*model.Document
}

func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	opts.Normalize()
	if len(opts.InFiles) == 0 {
		return nil, errors.New("no input files")
	}

	return &Parser{Opts: *opts}, nil
}

// Parse reads every input. Directories contribute the documents directly
// inside them in name order.
func (p *Parser) Parse() error {
	p.Documents = p.Documents[:0]
	for _, in := range p.Opts.InFiles {
		files, err := expandInput(in)
		if err != nil {
			return err
		}
		for _, f := range files {
			docs, err := readDocuments(f)
			if err != nil {
				return err
			}
			p.Documents = append(p.Documents, docs...)
		}
	}
	return nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	}
	return false
}

func expandInput(in string) ([]string, error) {
	fi, err := os.Stat(in)
	if err != nil {
		return nil, errors.Wrapf(err, "input %s", in)
	}
	if !fi.IsDir() {
		return []string{in}, nil
	}
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, errors.Wrapf(err, "input %s", in)
	}
	var out []string
	for _, e := range entries {
		if e.Type()&fs.ModeType != 0 || !isDocument(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(in, e.Name()))
	}
	return out, nil
}

// readDocuments decodes path by extension. A YAML file may hold several
// documents separated by ---.
func readDocuments(path string) ([]*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	docs, err := DecodeDocuments(filepath.Ext(path), data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	for i, d := range docs {
		d.Source = path
		if len(docs) > 1 {
			d.Source = path + "#" + strconv.Itoa(i+1)
		}
	}
	return docs, nil
}

// DecodeDocuments decodes data written in the format named by ext.
func DecodeDocuments(ext string, data []byte) ([]*model.Document, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		var docs []*model.Document
		for {
			d := new(model.Document)
			err := dec.Decode(d)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, errors.Mark(err, ErrDocument)
			}
			docs = append(docs, d)
		}
		return docs, nil
	case "toml":
		d := new(model.Document)
		md, err := toml.Decode(string(data), d)
		if err != nil {
			return nil, errors.Mark(err, ErrDocument)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Mark(errors.Newf("unknown keys %v", undecoded), ErrDocument)
		}
		return []*model.Document{d}, nil
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		d := new(model.Document)
		if err := dec.Decode(d); err != nil {
			return nil, errors.Mark(err, ErrDocument)
		}
		return []*model.Document{d}, nil
	}
	return nil, errors.Mark(errors.Newf("extension %q", ext), ErrUnsupportedFormat)
}

// Files builds a JavaFile for every document that is not omitted.
func (p *Parser) Files() ([]*poet.JavaFile, error) {
	out := make([]*poet.JavaFile, 0, len(p.Documents))
	for _, doc := range p.Documents {
		if shouldOmitDocument(doc, &p.Opts) {
			continue
		}
		f, err := NewBuilder(&p.Opts, doc).BuildFile()
		if err != nil {
			return nil, errors.Wrapf(err, "%s", doc.Source)
		}
		out = append(out, f)
	}
	return out, nil
}

// RenderAll renders every file with at most Opts.Jobs renders in flight.
// Artifacts are sorted by name; two documents producing the same file name
// is an error.
func (p *Parser) RenderAll(ctx context.Context) ([]poet.Artifact, error) {
	files, err := p.Files()
	if err != nil {
		return nil, err
	}

	arts := make([]poet.Artifact, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Opts.Jobs)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := f.Artifact(&p.Opts.Render)
			if err != nil {
				return errors.Wrapf(err, "render %s", f.ArtifactName())
			}
			arts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(arts, func(i, j int) bool { return arts[i].Name < arts[j].Name })
	for i := 1; i < len(arts); i++ {
		if arts[i].Name == arts[i-1].Name {
			return nil, errors.Mark(errors.Newf("%s is produced by more than one document", arts[i].Name), ErrDocument)
		}
	}
	return arts, nil
}
