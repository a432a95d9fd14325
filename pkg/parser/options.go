package parser

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cmmoran/javagen/pkg/poet"
)

// Options control loading documents and rendering them.
//
// InFiles       – declaration documents (.yaml, .yml, .toml, .json) or directories of them.
// OutDir        – output directory for rendered sources.
// BundlePackage – Go package name of the generated bundle.
// BundleFile    – filename of the generated bundle, relative to OutDir.
// FileComment   – comment added to every file that has none of its own.
// Accessors     – generate accessors for every class, as if each document asked for them.
// ExcludeTypes  – names of top-level types to skip (case‑insensitive).
// Jobs          – files rendered concurrently; 0 means GOMAXPROCS.
// Render        – rendering configuration handed to the engine.
type Options struct {
	InFiles       []string    `json:"in_files,omitempty" yaml:"in_files,omitempty" toml:"in_files,omitempty" mapstructure:"in_files,omitempty"`
	OutDir        string      `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	BundlePackage string      `json:"bundle_package,omitempty" yaml:"bundle_package,omitempty" toml:"bundle_package,omitempty" mapstructure:"bundle_package,omitempty"`
	BundleFile    string      `json:"bundle_file,omitempty" yaml:"bundle_file,omitempty" toml:"bundle_file,omitempty" mapstructure:"bundle_file,omitempty"`
	FileComment   string      `json:"file_comment,omitempty" yaml:"file_comment,omitempty" toml:"file_comment,omitempty" mapstructure:"file_comment,omitempty"`
	Accessors     bool        `json:"accessors,omitempty" yaml:"accessors,omitempty" toml:"accessors,omitempty" mapstructure:"accessors,omitempty"`
	ExcludeTypes  []string    `json:"exclude_types,omitempty" yaml:"exclude_types,omitempty" toml:"exclude_types,omitempty" mapstructure:"exclude_types,omitempty"`
	Jobs          int         `json:"jobs,omitempty" yaml:"jobs,omitempty" toml:"jobs,omitempty" mapstructure:"jobs,omitempty"`
	Render        poet.Config `json:"render,omitempty" yaml:"render,omitempty" toml:"render,omitempty" mapstructure:"render,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		OutDir:        "java",
		BundlePackage: "javasrc",
		BundleFile:    "sources_gen.go",
		Render:        *poet.NewConfig(),
	}
}

func (o *Options) Normalize() {
	if len(o.OutDir) == 0 {
		o.OutDir = "java"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if len(o.BundlePackage) == 0 {
		o.BundlePackage = "javasrc"
	}
	if len(o.BundleFile) == 0 {
		o.BundleFile = "sources_gen.go"
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	for i, n := range o.ExcludeTypes {
		o.ExcludeTypes[i] = strings.TrimSpace(n)
	}
	o.Render.Normalize()
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInFiles(files ...string) Option {
	return func(o *Options) { o.InFiles = append(o.InFiles, files...) }
}
func WithOutDir(d string) Option        { return func(o *Options) { o.OutDir = d } }
func WithBundlePackage(p string) Option { return func(o *Options) { o.BundlePackage = p } }
func WithBundleFile(f string) Option    { return func(o *Options) { o.BundleFile = f } }
func WithFileComment(c string) Option   { return func(o *Options) { o.FileComment = c } }
func WithAccessors() Option             { return func(o *Options) { o.Accessors = true } }
func WithJobs(n int) Option             { return func(o *Options) { o.Jobs = n } }
func WithRender(opts ...poet.Option) Option {
	return func(o *Options) {
		for _, fn := range opts {
			fn(&o.Render)
		}
	}
}
func WithExcludeTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeTypes = append(o.ExcludeTypes, strings.TrimSpace(n))
		}
	}
}
