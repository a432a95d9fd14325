package poet

import (
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// BindingTable maps simple names to the top-level classes that are imported
// under them for one file. It is produced by CollectBindings and consumed by
// Emit; it is never shared between files.
type BindingTable struct {
	bySimple map[string]ClassName
}

// Lookup returns the class imported under simple.
func (t *BindingTable) Lookup(simple string) (ClassName, bool) {
	if t == nil {
		return ClassName{}, false
	}
	c, ok := t.bySimple[simple]
	return c, ok
}

// Imports returns the bound classes ordered by canonical name.
func (t *BindingTable) Imports() []ClassName {
	if t == nil {
		return nil
	}
	out := make([]ClassName, 0, len(t.bySimple))
	for _, c := range t.bySimple {
		out = append(out, c)
	}
	slices.SortFunc(out, ClassName.Compare)
	return out
}

func (t *BindingTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bySimple)
}

// bindingCollector records, during the collection pass, every top-level
// class that could be imported. The first class seen under a simple name
// keeps it.
type bindingCollector struct {
	importable map[string]ClassName
	// simple names of same-package top-level types that were referenced;
	// importing anything under those names would shadow them
	referenced map[string]bool
}

func newBindingCollector() *bindingCollector {
	return &bindingCollector{
		importable: make(map[string]ClassName),
		referenced: make(map[string]bool),
	}
}

func (bc *bindingCollector) offer(c ClassName) {
	if c.PackageName() == "" {
		return
	}
	top := c.TopLevelClassName()
	if _, taken := bc.importable[top.SimpleName()]; !taken {
		bc.importable[top.SimpleName()] = top
	}
}

func (bc *bindingCollector) table() *BindingTable {
	t := &BindingTable{bySimple: make(map[string]ClassName, len(bc.importable))}
	for simple, c := range bc.importable {
		if bc.referenced[simple] {
			continue
		}
		t.bySimple[simple] = c
	}
	return t
}

// lookupName returns the shortest spelling of c that resolves back to c from
// the current position: the innermost segment that resolves to the matching
// class determines the suffix. If the top-level simple name resolves to some
// other class, or is hidden by a type variable, c is fully qualified.
func (w *codeWriter) lookupName(c ClassName) string {
	top := c.TopLevelClassName().SimpleName()
	if w.typeVars[top] > 0 {
		return c.CanonicalName()
	}

	resolvedAny := false
	for cur, ok := c, true; ok; cur, ok = cur.EnclosingClassName() {
		resolved, found := w.resolve(cur.SimpleName())
		resolvedAny = found
		if found && resolved.Equal(cur) {
			names := c.SimpleNames()
			return strings.Join(names[len(cur.SimpleNames())-1:], ".")
		}
	}
	if resolvedAny {
		return c.CanonicalName()
	}

	if c.PackageName() == w.packageName {
		if w.collector != nil {
			w.collector.referenced[top] = true
		}
		return strings.Join(c.SimpleNames(), ".")
	}

	if w.collector != nil && !w.javadoc {
		w.collector.offer(c)
	}
	return c.CanonicalName()
}

// resolve finds what simple means at the current position: a member type of
// an enclosing declaration (innermost first), the top-level type itself, or
// an import. Anonymous classes declare nothing nameable.
func (w *codeWriter) resolve(simple string) (ClassName, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		f := w.frames[i]
		if f.anonymous {
			continue
		}
		if f.nested[simple] {
			return w.frameClassName(i).NestedClass(simple), true
		}
	}
	if len(w.frames) > 0 && !w.frames[0].anonymous && w.frames[0].name == simple {
		return ClassName{names: []string{w.packageName, simple}}, true
	}
	return w.bindings.Lookup(simple)
}

// frameClassName is the class declared by frames[0..depth].
func (w *codeWriter) frameClassName(depth int) ClassName {
	c := ClassName{names: []string{w.packageName, w.frames[0].name}}
	for i := 1; i <= depth; i++ {
		if w.frames[i].anonymous {
			continue
		}
		c = c.NestedClass(w.frames[i].name)
	}
	return c
}

// -----------------------------------------------------------------------------
// Passes
// -----------------------------------------------------------------------------

// CollectBindings runs the collection pass over f and returns the names it
// will import. Nothing is written.
func CollectBindings(f *JavaFile, cfg *Config) (*BindingTable, error) {
	cfg = cfg.orDefault()
	collector := newBindingCollector()
	w := newCodeWriter(io.Discard, cfg, nil, collector)
	if err := f.emit(w); err != nil {
		return nil, err
	}
	if err := w.close(); err != nil {
		return nil, err
	}
	return collector.table(), nil
}

// Emit runs the emission pass over f, spelling names against table, and
// writes the text to sink. A sink error is returned as is.
func Emit(f *JavaFile, table *BindingTable, sink io.Writer, cfg *Config) error {
	cfg = cfg.orDefault()
	w := newCodeWriter(sink, cfg, table, nil)
	if err := f.emit(w); err != nil {
		return err
	}
	if err := w.close(); err != nil {
		return err
	}
	if w.indentLevel != 0 {
		return errors.AssertionFailedf("indentation level %d after emitting %s", w.indentLevel, f.ArtifactName())
	}
	return nil
}
