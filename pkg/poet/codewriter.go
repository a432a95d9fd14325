package poet

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// scopeFrame is one enclosing type declaration during emission.
type scopeFrame struct {
	name      string
	nested    map[string]bool
	anonymous bool
}

// codeWriter walks a declaration tree and streams its text through a
// lineWrapper. The same walk runs twice per render: once with a collector to
// build the BindingTable, once with that table to spell names.
type codeWriter struct {
	cfg         *Config
	out         *lineWrapper
	indentLevel int

	javadoc bool
	comment bool

	packageName string
	frames      []scopeFrame
	typeVars    map[string]int

	bindings  *BindingTable
	collector *bindingCollector

	trailingNewline bool
	// -1 outside a statement, otherwise the number of lines the current
	// statement has spanned so far
	statementLine int
	lastChar      byte
}

func newCodeWriter(out io.Writer, cfg *Config, bindings *BindingTable, collector *bindingCollector) *codeWriter {
	return &codeWriter{
		cfg:           cfg,
		out:           newLineWrapper(out, cfg),
		typeVars:      make(map[string]int),
		bindings:      bindings,
		collector:     collector,
		statementLine: -1,
	}
}

// renderDetached renders a fragment outside of any file; every class name is
// fully qualified.
func renderDetached(fn func(w *codeWriter) error) (string, error) {
	var sb strings.Builder
	w := newCodeWriter(&sb, NewConfig(), nil, nil)
	if err := fn(w); err != nil {
		return "", err
	}
	if err := w.close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (w *codeWriter) close() error {
	return w.out.close()
}

// -----------------------------------------------------------------------------
// Indentation and scope
// -----------------------------------------------------------------------------

func (w *codeWriter) indent(levels int) {
	w.indentLevel += levels
}

func (w *codeWriter) unindent(levels int) error {
	if w.indentLevel-levels < 0 {
		return errors.AssertionFailedf("cannot unindent %d from indentation level %d", levels, w.indentLevel)
	}
	w.indentLevel -= levels
	return nil
}

// indented runs fn one or more levels deeper and always restores the level.
func (w *codeWriter) indented(levels int, fn func() error) (err error) {
	w.indent(levels)
	defer func() {
		if uerr := w.unindent(levels); err == nil {
			err = uerr
		}
	}()
	return fn()
}

func (w *codeWriter) withFrame(f scopeFrame, fn func() error) error {
	w.frames = append(w.frames, f)
	defer func() { w.frames = w.frames[:len(w.frames)-1] }()
	return fn()
}

func (w *codeWriter) pushTypeVariables(tvs []TypeVariableName) {
	for _, tv := range tvs {
		w.typeVars[tv.Name]++
	}
}

func (w *codeWriter) popTypeVariables(tvs []TypeVariableName) {
	for _, tv := range tvs {
		if w.typeVars[tv.Name]--; w.typeVars[tv.Name] <= 0 {
			delete(w.typeVars, tv.Name)
		}
	}
}

// -----------------------------------------------------------------------------
// Text
// -----------------------------------------------------------------------------

func (w *codeWriter) write(s string) error {
	if s == "" {
		return nil
	}
	if err := w.out.append(s); err != nil {
		return err
	}
	w.lastChar = s[len(s)-1]
	return nil
}

func (w *codeWriter) emitIndentation() error {
	return w.write(strings.Repeat(w.out.indent, w.indentLevel))
}

// emitAndIndent writes s, indenting each new line and prefixing javadoc and
// comment lines. A newline inside a statement starts its continuation.
func (w *codeWriter) emitAndIndent(s string) error {
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			if (w.javadoc || w.comment) && w.trailingNewline {
				if err := w.emitIndentation(); err != nil {
					return err
				}
				prefix := "//"
				if w.javadoc {
					prefix = " *"
				}
				if err := w.write(prefix); err != nil {
					return err
				}
			}
			if err := w.write("\n"); err != nil {
				return err
			}
			w.trailingNewline = true
			if w.statementLine != -1 {
				if w.statementLine == 0 {
					w.indent(w.cfg.ContinuationIndent)
				}
				w.statementLine++
			}
		}
		if line == "" {
			continue
		}
		if w.trailingNewline {
			if err := w.emitIndentation(); err != nil {
				return err
			}
			switch {
			case w.javadoc:
				if err := w.write(" * "); err != nil {
					return err
				}
			case w.comment:
				if err := w.write("// "); err != nil {
					return err
				}
			}
		}
		if err := w.write(line); err != nil {
			return err
		}
		w.trailingNewline = false
	}
	return nil
}

// emit formats an internal template and writes it. Templates may open a
// statement or indentation that a later call closes.
func (w *codeWriter) emit(format string, args ...any) error {
	b := NewCodeBlock().Add(format, args...)
	if b.errs != nil {
		return b.errs
	}
	return w.emitCode(CodeBlock{parts: b.parts}, false)
}

func (w *codeWriter) emitCode(c CodeBlock, ensureTrailingNewline bool) error {
	for _, p := range c.parts {
		var err error
		switch p.kind {
		case partText:
			err = w.emitAndIndent(p.text)
		case partLiteral:
			err = w.emitLiteral(p.arg)
		case partString:
			err = w.emitString(p.arg)
		case partType:
			err = p.arg.(TypeName).emit(w)
		case partName:
			err = w.emitAndIndent(p.arg.(string))
		case partIndent:
			w.indent(1)
		case partUnindent:
			err = w.unindent(1)
		case partStmtBegin:
			if w.statementLine != -1 {
				return errors.AssertionFailedf("statement enter %%[ followed by statement enter %%[")
			}
			w.statementLine = 0
		case partStmtEnd:
			if w.statementLine == -1 {
				return errors.AssertionFailedf("statement exit %%] has no matching statement enter %%[")
			}
			if w.statementLine > 0 {
				err = w.unindent(w.cfg.ContinuationIndent)
			}
			w.statementLine = -1
		case partWrap:
			err = w.emitWrappingSpace()
		case partZeroWidth:
			err = w.out.zeroWidthSpace(w.indentLevel + w.cfg.ContinuationIndent)
		}
		if err != nil {
			return err
		}
	}
	if ensureTrailingNewline && w.lastChar != '\n' {
		return w.emitAndIndent("\n")
	}
	return nil
}

func (w *codeWriter) emitWrappingSpace() error {
	return w.out.wrappingSpace(w.indentLevel + w.cfg.ContinuationIndent)
}

func (w *codeWriter) emitLiteral(arg any) error {
	switch v := arg.(type) {
	case nil:
		return w.emitAndIndent("null")
	case CodeBlock:
		return w.emitCode(v, false)
	case *TypeSpec:
		return v.emit(w, "", 0)
	case *AnnotationSpec:
		return v.emit(w, true)
	case string:
		return w.emitAndIndent(v)
	default:
		return w.emitAndIndent(fmt.Sprint(v))
	}
}

func (w *codeWriter) emitString(arg any) error {
	s, ok := arg.(string)
	if !ok {
		return w.emitAndIndent("null")
	}
	cont := ""
	if w.statementLine == -1 {
		cont = strings.Repeat(w.out.indent, w.cfg.ContinuationIndent)
	}
	return w.emitAndIndent(stringLiteral(s, cont))
}

// stringLiteral quotes and escapes value. Embedded newlines split the literal
// into a concatenation with one source line per line of text.
func stringLiteral(value, cont string) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte('"')
	for i, r := range value {
		switch r {
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteString(charLiteral(r))
		}
		if r == '\n' && i+1 < len(value) {
			sb.WriteString("\"\n" + cont + "+ \"")
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func charLiteral(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	}
	if unicode.IsControl(r) {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return string(r)
}

// -----------------------------------------------------------------------------
// Declaration pieces
// -----------------------------------------------------------------------------

func (w *codeWriter) emitJavadoc(c CodeBlock) error {
	if c.IsEmpty() {
		return nil
	}
	if err := w.emitAndIndent("/**\n"); err != nil {
		return err
	}
	w.javadoc = true
	err := w.emitCode(c, true)
	w.javadoc = false
	if err != nil {
		return err
	}
	return w.emitAndIndent(" */\n")
}

func (w *codeWriter) emitComment(c CodeBlock) error {
	w.trailingNewline = true
	w.comment = true
	defer func() { w.comment = false }()
	if err := w.emitCode(c, false); err != nil {
		return err
	}
	return w.emitAndIndent("\n")
}

func (w *codeWriter) emitAnnotations(anns []*AnnotationSpec, inline bool) error {
	sep := "\n"
	if inline {
		sep = " "
	}
	for _, a := range anns {
		if err := a.emit(w, inline); err != nil {
			return err
		}
		if err := w.emitAndIndent(sep); err != nil {
			return err
		}
	}
	return nil
}

func (w *codeWriter) emitModifiers(mods, implicit Modifier) error {
	var err error
	mods.Without(implicit).Each(func(m Modifier) {
		if err == nil {
			err = w.emitAndIndent(m.String() + " ")
		}
	})
	return err
}

// emitTypeVariables writes a declaration such as <K, V extends Comparable<V>>
// and brings the variables into scope. Callers pop them when the declaring
// element ends.
func (w *codeWriter) emitTypeVariables(tvs []TypeVariableName) error {
	if len(tvs) == 0 {
		return nil
	}
	w.pushTypeVariables(tvs)
	if err := w.emitAndIndent("<"); err != nil {
		return err
	}
	for i, tv := range tvs {
		if i > 0 {
			if err := w.emitAndIndent(", "); err != nil {
				return err
			}
		}
		if err := w.emitAndIndent(tv.Name); err != nil {
			return err
		}
		for j, bound := range tv.Bounds {
			sep := " & "
			if j == 0 {
				sep = " extends "
			}
			if err := w.emitAndIndent(sep); err != nil {
				return err
			}
			if err := bound.emit(w); err != nil {
				return err
			}
		}
	}
	return w.emitAndIndent(">")
}
