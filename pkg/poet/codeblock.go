package poet

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
)

type partKind uint8

const (
	partText partKind = iota
	partLiteral
	partString
	partType
	partName
	partIndent
	partUnindent
	partStmtBegin
	partStmtEnd
	partWrap
	partZeroWidth
)

type part struct {
	kind partKind
	text string
	arg  any
}

// CodeBlock is an immutable fragment of code: literal text interleaved with
// typed arguments and layout markers. The zero value is empty.
type CodeBlock struct {
	parts []part
}

// CodeOf builds a single fragment from a format and its relative or
// indexed arguments.
func CodeOf(format string, args ...any) (CodeBlock, error) {
	return NewCodeBlock().Add(format, args...).Build()
}

// MustCode is like CodeOf but panics on error.
func MustCode(format string, args ...any) CodeBlock {
	c, err := CodeOf(format, args...)
	if err != nil {
		panic(err)
	}
	return c
}

// JoinCode concatenates blocks with sep between them.
func JoinCode(blocks []CodeBlock, sep string) CodeBlock {
	b := NewCodeBlock()
	for i, c := range blocks {
		if i > 0 {
			b.parts = append(b.parts, part{kind: partText, text: sep})
		}
		b.AddCode(c)
	}
	return CodeBlock{parts: b.parts}
}

func (c CodeBlock) IsEmpty() bool { return len(c.parts) == 0 }

func (c CodeBlock) endsWithNewline() bool {
	for i := len(c.parts) - 1; i >= 0; i-- {
		p := c.parts[i]
		switch p.kind {
		case partText:
			return strings.HasSuffix(p.text, "\n")
		case partIndent, partUnindent, partStmtEnd:
			continue
		}
		return false
	}
	return false
}

// Equal compares fragments part by part. Arguments are compared
// structurally, and declaration nodes through their own Equal.
func (c CodeBlock) Equal(o CodeBlock) bool {
	if len(c.parts) != len(o.parts) {
		return false
	}
	for i := range c.parts {
		a, b := c.parts[i], o.parts[i]
		if a.kind != b.kind || a.text != b.text {
			return false
		}
		if !cmp.Equal(a.arg, b.arg, equalOpts...) {
			return false
		}
	}
	return true
}

// String renders the fragment with fully qualified type names.
func (c CodeBlock) String() string {
	s, err := renderDetached(func(w *codeWriter) error { return w.emitCode(c, false) })
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

var equalOpts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// -----------------------------------------------------------------------------
// Builder
// -----------------------------------------------------------------------------

// CodeBlockBuilder accumulates fragments. Format and balance errors are
// collected and reported by Build, so calls can be chained.
type CodeBlockBuilder struct {
	parts []part
	flow  []string
	errs  error
}

func NewCodeBlock() *CodeBlockBuilder {
	return &CodeBlockBuilder{}
}

func (b *CodeBlockBuilder) fail(err error) *CodeBlockBuilder {
	b.errs = combine(b.errs, err)
	return b
}

// Add appends format with relative (%L) or indexed (%1L) arguments. Mixing
// both styles, leaving an indexed argument unused, or passing a different
// number of relative arguments than placeholders is an error.
func (b *CodeBlockBuilder) Add(format string, args ...any) *CodeBlockBuilder {
	var (
		relative, indexed bool
		next              int
		used              = make([]bool, len(args))
		parts             = make([]part, 0, 4)
	)
	for p := 0; p < len(format); {
		if format[p] != '%' {
			end := strings.IndexByte(format[p+1:], '%')
			if end < 0 {
				end = len(format)
			} else {
				end += p + 1
			}
			parts = append(parts, part{kind: partText, text: format[p:end]})
			p = end
			continue
		}
		p++
		digits := p
		for p < len(format) && format[p] >= '0' && format[p] <= '9' {
			p++
		}
		if p >= len(format) {
			return b.fail(markf(ErrFormat, "dangling format characters in %q", format))
		}
		indexText, c := format[digits:p], format[p]
		p++

		if kind, ok := noArgPlaceholder(c); ok {
			if indexText != "" {
				return b.fail(markf(ErrFormat, "%%%c may not have an index in %q", c, format))
			}
			if kind == partText {
				parts = append(parts, part{kind: partText, text: "%"})
			} else {
				parts = append(parts, part{kind: kind})
			}
			continue
		}

		var idx int
		if indexText != "" {
			n, err := strconv.Atoi(indexText)
			if err != nil || n < 1 || n > len(args) {
				return b.fail(markf(ErrFormat, "index %s for %q not in range (received %d arguments)",
					indexText, format[digits-1:p], len(args)))
			}
			idx = n - 1
			indexed = true
		} else {
			idx = next
			next++
			relative = true
		}
		if relative && indexed {
			return b.fail(markf(ErrFormat, "cannot mix indexed and positional parameters in %q", format))
		}
		if idx >= len(args) {
			continue // reported below with the full count
		}
		used[idx] = true
		pt, err := argPart(c, args[idx])
		if err != nil {
			return b.fail(errors.Wrapf(err, "format %q", format))
		}
		parts = append(parts, pt)
	}

	if relative && next != len(args) {
		return b.fail(markf(ErrFormat, "%d placeholders for %d arguments in %q", next, len(args), format))
	}
	if !relative && !indexed && len(args) > 0 {
		return b.fail(markf(ErrFormat, "no placeholders for %d arguments in %q", len(args), format))
	}
	if indexed {
		unused := make([]string, 0)
		for i, u := range used {
			if !u {
				unused = append(unused, "%"+strconv.Itoa(i+1))
			}
		}
		if len(unused) > 0 {
			return b.fail(markf(ErrFormat, "unused arguments %s in %q", strings.Join(unused, ", "), format))
		}
	}
	b.parts = append(b.parts, parts...)
	return b
}

// AddNamed appends format using %name:X placeholders looked up in args.
// Names start with a lowercase letter and may contain letters, digits and
// underscores. Every entry in args must be referenced at least once.
func (b *CodeBlockBuilder) AddNamed(format string, args map[string]any) *CodeBlockBuilder {
	for name := range args {
		if !isArgName(name) {
			return b.fail(markf(ErrFormat, "argument %q must start with a lowercase character", name))
		}
	}
	parts := make([]part, 0, 4)
	used := make(map[string]bool, len(args))
	for p := 0; p < len(format); {
		if format[p] != '%' {
			end := strings.IndexByte(format[p+1:], '%')
			if end < 0 {
				end = len(format)
			} else {
				end += p + 1
			}
			parts = append(parts, part{kind: partText, text: format[p:end]})
			p = end
			continue
		}
		if p+1 >= len(format) {
			return b.fail(markf(ErrFormat, "dangling %% at end of %q", format))
		}
		if kind, ok := noArgPlaceholder(format[p+1]); ok {
			if kind == partText {
				parts = append(parts, part{kind: partText, text: "%"})
			} else {
				parts = append(parts, part{kind: kind})
			}
			p += 2
			continue
		}
		colon := strings.IndexByte(format[p:], ':')
		if colon < 0 || p+colon+1 >= len(format) {
			return b.fail(markf(ErrFormat, "dangling format characters in %q", format[p:]))
		}
		name, c := format[p+1:p+colon], format[p+colon+1]
		if !isArgName(name) {
			return b.fail(markf(ErrFormat, "invalid argument name %q in %q", name, format))
		}
		arg, ok := args[name]
		if !ok {
			return b.fail(markf(ErrFormat, "missing named argument for %%%s", name))
		}
		used[name] = true
		pt, err := argPart(c, arg)
		if err != nil {
			return b.fail(errors.Wrapf(err, "format %q", format))
		}
		parts = append(parts, pt)
		p += colon + 2
	}
	unused := make([]string, 0)
	for name := range args {
		if !used[name] {
			unused = append(unused, "%"+name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return b.fail(markf(ErrFormat, "unused arguments %s in %q", strings.Join(unused, ", "), format))
	}
	b.parts = append(b.parts, parts...)
	return b
}

func isArgName(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

func noArgPlaceholder(c byte) (partKind, bool) {
	switch c {
	case '%':
		return partText, true
	case '>':
		return partIndent, true
	case '<':
		return partUnindent, true
	case '[':
		return partStmtBegin, true
	case ']':
		return partStmtEnd, true
	case 'W':
		return partWrap, true
	case 'Z':
		return partZeroWidth, true
	}
	return 0, false
}

// named is implemented by every declaration node.
type named interface {
	Name() string
}

func argPart(c byte, arg any) (part, error) {
	switch c {
	case 'L':
		return part{kind: partLiteral, arg: arg}, nil
	case 'S':
		switch s := arg.(type) {
		case nil:
			return part{kind: partString}, nil
		case string:
			return part{kind: partString, arg: s}, nil
		case interface{ String() string }:
			return part{kind: partString, arg: s.String()}, nil
		}
		return part{}, markf(ErrFormat, "expected string for %%S but was %T", arg)
	case 'N':
		switch n := arg.(type) {
		case string:
			return part{kind: partName, arg: n}, nil
		case named:
			return part{kind: partName, arg: n.Name()}, nil
		}
		return part{}, markf(ErrFormat, "expected name for %%N but was %T", arg)
	case 'T':
		if t, ok := arg.(TypeName); ok && t != nil {
			return part{kind: partType, arg: t}, nil
		}
		return part{}, markf(ErrFormat, "expected type for %%T but was %T", arg)
	}
	return part{}, markf(ErrFormat, "invalid format character %q", string(c))
}

// AddCode appends a finished block.
func (b *CodeBlockBuilder) AddCode(c CodeBlock) *CodeBlockBuilder {
	b.parts = append(b.parts, c.parts...)
	return b
}

// AddStatement appends one statement terminated by ";\n". Lines after the
// first receive continuation indentation.
func (b *CodeBlockBuilder) AddStatement(format string, args ...any) *CodeBlockBuilder {
	b.parts = append(b.parts, part{kind: partStmtBegin})
	b.Add(format, args...)
	b.parts = append(b.parts, part{kind: partText, text: ";\n"}, part{kind: partStmtEnd})
	return b
}

// AddComment appends a single line comment.
func (b *CodeBlockBuilder) AddComment(format string, args ...any) *CodeBlockBuilder {
	return b.Add("// "+format+"\n", args...)
}

// BeginControlFlow opens a block such as "if (x)" or "for (...)". Each call
// must be closed by EndControlFlow or EndControlFlowWith.
func (b *CodeBlockBuilder) BeginControlFlow(controlFlow string, args ...any) *CodeBlockBuilder {
	b.Add(controlFlow+" {\n", args...)
	b.parts = append(b.parts, part{kind: partIndent})
	b.flow = append(b.flow, controlFlow)
	return b
}

// NextControlFlow continues the innermost open block, as in "else if (y)".
func (b *CodeBlockBuilder) NextControlFlow(controlFlow string, args ...any) *CodeBlockBuilder {
	if len(b.flow) == 0 {
		return b.fail(markf(ErrControlFlow, "%q without an open control flow", controlFlow))
	}
	b.parts = append(b.parts, part{kind: partUnindent})
	b.Add("} "+controlFlow+" {\n", args...)
	b.parts = append(b.parts, part{kind: partIndent})
	b.flow[len(b.flow)-1] = controlFlow
	return b
}

// EndControlFlow closes the innermost open block.
func (b *CodeBlockBuilder) EndControlFlow() *CodeBlockBuilder {
	if len(b.flow) == 0 {
		return b.fail(markf(ErrControlFlow, "end of control flow without an open control flow"))
	}
	b.parts = append(b.parts, part{kind: partUnindent}, part{kind: partText, text: "}\n"})
	b.flow = b.flow[:len(b.flow)-1]
	return b
}

// EndControlFlowWith closes the innermost open block with a trailer, as in
// "} while (more);".
func (b *CodeBlockBuilder) EndControlFlowWith(controlFlow string, args ...any) *CodeBlockBuilder {
	if len(b.flow) == 0 {
		return b.fail(markf(ErrControlFlow, "%q without an open control flow", controlFlow))
	}
	b.parts = append(b.parts, part{kind: partUnindent})
	b.Add("} "+controlFlow+";\n", args...)
	b.flow = b.flow[:len(b.flow)-1]
	return b
}

func (b *CodeBlockBuilder) Indent() *CodeBlockBuilder {
	b.parts = append(b.parts, part{kind: partIndent})
	return b
}

func (b *CodeBlockBuilder) Unindent() *CodeBlockBuilder {
	b.parts = append(b.parts, part{kind: partUnindent})
	return b
}

func (b *CodeBlockBuilder) IsEmpty() bool { return len(b.parts) == 0 }

// Build returns the accumulated block, or every error collected so far plus
// any imbalance of control flow, statements or indentation.
func (b *CodeBlockBuilder) Build() (CodeBlock, error) {
	errs := b.errs
	if len(b.flow) > 0 {
		errs = combine(errs, markf(ErrControlFlow, "unclosed control flow %q", b.flow[len(b.flow)-1]))
	}
	errs = combine(errs, checkBalance(b.parts))
	if errs != nil {
		return CodeBlock{}, errs
	}
	parts := make([]part, len(b.parts))
	copy(parts, b.parts)
	return CodeBlock{parts: parts}, nil
}

func checkBalance(parts []part) error {
	depth, inStatement := 0, false
	for _, p := range parts {
		switch p.kind {
		case partIndent:
			depth++
		case partUnindent:
			if depth == 0 {
				return markf(ErrControlFlow, "unindent below the block's starting level")
			}
			depth--
		case partStmtBegin:
			if inStatement {
				return markf(ErrControlFlow, "statement enter %%[ followed by statement enter %%[")
			}
			inStatement = true
		case partStmtEnd:
			if !inStatement {
				return markf(ErrControlFlow, "statement exit %%] has no matching statement enter %%[")
			}
			inStatement = false
		}
	}
	if inStatement {
		return markf(ErrControlFlow, "statement enter %%[ is never closed")
	}
	if depth != 0 {
		return markf(ErrControlFlow, "%d indentation levels left open", depth)
	}
	return nil
}
