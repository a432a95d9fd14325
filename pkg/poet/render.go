package poet

import (
	"io"
	"strings"
)

// Render writes f to sink: a collection pass decides the imports, then an
// emission pass writes the text. A nil cfg means NewConfig(). Construction
// errors abort the render before anything reaches sink; a sink error is
// returned unchanged.
func Render(f *JavaFile, sink io.Writer, cfg *Config) error {
	cfg = cfg.orDefault()
	table, err := CollectBindings(f, cfg)
	if err != nil {
		return err
	}
	return Emit(f, table, sink, cfg)
}

// RenderString is Render into a string.
func RenderString(f *JavaFile, cfg *Config) (string, error) {
	var sb strings.Builder
	if err := Render(f, &sb, cfg); err != nil {
		return "", err
	}
	return sb.String(), nil
}
