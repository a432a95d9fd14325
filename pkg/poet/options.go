package poet

import (
	"log/slog"
	"strings"
)

// LevelTrace is the slog level used for per-node bookkeeping messages.
const LevelTrace = slog.Level(-8)

const (
	DefaultMaxWidth           = 100
	DefaultIndentWidth        = 2
	DefaultContinuationIndent = 1
)

// Config controls how a tree is rendered.
//
// MaxWidth            – column limit honored at safe-wrap-marks.
// IndentWidth         – spaces per indentation level (also the width of a tab).
// UseTabs             – indent with tabs instead of spaces.
// ContinuationIndent  – extra levels applied to wrapped and multi-line statements.
// SkipJavaLangImports – omit import lines for java.lang types.
// Trace               – log every lazy node access at LevelTrace.
// Logger              – destination for construction diagnostics.
type Config struct {
	MaxWidth            int          `json:"max_width,omitempty" yaml:"max_width,omitempty" toml:"max_width,omitempty" mapstructure:"max_width,omitempty"`
	IndentWidth         int          `json:"indent_width,omitempty" yaml:"indent_width,omitempty" toml:"indent_width,omitempty" mapstructure:"indent_width,omitempty"`
	UseTabs             bool         `json:"use_tabs,omitempty" yaml:"use_tabs,omitempty" toml:"use_tabs,omitempty" mapstructure:"use_tabs,omitempty"`
	ContinuationIndent  int          `json:"continuation_indent,omitempty" yaml:"continuation_indent,omitempty" toml:"continuation_indent,omitempty" mapstructure:"continuation_indent,omitempty"`
	SkipJavaLangImports bool         `json:"skip_java_lang_imports,omitempty" yaml:"skip_java_lang_imports,omitempty" toml:"skip_java_lang_imports,omitempty" mapstructure:"skip_java_lang_imports,omitempty"`
	Trace               bool         `json:"trace,omitempty" yaml:"trace,omitempty" toml:"trace,omitempty" mapstructure:"trace,omitempty"`
	Logger              *slog.Logger `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// NewConfig returns a normalized Config with opts applied over the defaults.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		MaxWidth:           DefaultMaxWidth,
		IndentWidth:        DefaultIndentWidth,
		ContinuationIndent: DefaultContinuationIndent,
	}
	for _, fn := range opts {
		fn(c)
	}
	c.Normalize()
	return c
}

// Normalize replaces unset or out of range values with defaults.
func (c *Config) Normalize() {
	if c.MaxWidth <= 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	if c.IndentWidth <= 0 {
		c.IndentWidth = DefaultIndentWidth
	}
	if c.ContinuationIndent <= 0 {
		c.ContinuationIndent = DefaultContinuationIndent
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

func (c *Config) indentUnit() string {
	if c.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", c.IndentWidth)
}

// orDefault never mutates the caller's config.
func (c *Config) orDefault() *Config {
	if c == nil {
		return NewConfig()
	}
	cp := *c
	cp.Normalize()
	return &cp
}

// functional option pattern ---------------------------------------------------

type Option func(*Config)

func WithMaxWidth(n int) Option           { return func(c *Config) { c.MaxWidth = n } }
func WithIndentWidth(n int) Option        { return func(c *Config) { c.IndentWidth = n } }
func WithTabs() Option                    { return func(c *Config) { c.UseTabs = true } }
func WithContinuationIndent(n int) Option { return func(c *Config) { c.ContinuationIndent = n } }
func WithSkipJavaLangImports() Option     { return func(c *Config) { c.SkipJavaLangImports = true } }
func WithTrace() Option                   { return func(c *Config) { c.Trace = true } }
func WithLogger(l *slog.Logger) Option    { return func(c *Config) { c.Logger = l } }
