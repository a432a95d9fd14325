package parser

import (
	"strings"
	"text/scanner"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/javagen/internal/model"
	"github.com/cmmoran/javagen/pkg/poet"
)

// typeScanner is a recursive descent parser over the grammar
//
//	type := name [ "<" arg { "," arg } ">" ] { "[" "]" }
//	arg  := "?" [ ( "extends" | "super" ) type ] | type
//	name := ident { "." ident }
type typeScanner struct {
	s    scanner.Scanner
	tok  rune
	expr string
	errs []string
}

// parseType parses a Java type expression such as
// java.util.Map<String, java.util.List<? extends Number>>[].
func parseType(expr string) (*model.TypeRef, error) {
	ts := &typeScanner{expr: expr}
	ts.s.Init(strings.NewReader(expr))
	ts.s.Mode = scanner.ScanIdents
	ts.s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || ch == '$' || unicode.IsLetter(ch) || (i > 0 && unicode.IsDigit(ch))
	}
	ts.s.Error = func(_ *scanner.Scanner, msg string) { ts.errs = append(ts.errs, msg) }
	ts.next()

	t, err := ts.typ()
	if err == nil && ts.tok != scanner.EOF {
		err = ts.unexpected()
	}
	if err == nil && len(ts.errs) > 0 {
		err = errors.Mark(errors.Newf("%s", strings.Join(ts.errs, "; ")), ErrTypeExpression)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "type %q", expr)
	}
	return t, nil
}

func (ts *typeScanner) next() {
	ts.tok = ts.s.Scan()
}

func (ts *typeScanner) unexpected() error {
	if ts.tok == scanner.EOF {
		return errors.Mark(errors.New("unexpected end of type"), ErrTypeExpression)
	}
	return errors.Mark(errors.Newf("unexpected %q at column %d", ts.s.TokenText(), ts.s.Position.Column), ErrTypeExpression)
}

func (ts *typeScanner) expect(r rune) error {
	if ts.tok != r {
		return ts.unexpected()
	}
	ts.next()
	return nil
}

func (ts *typeScanner) name() (string, error) {
	if ts.tok != scanner.Ident {
		return "", ts.unexpected()
	}
	parts := []string{ts.s.TokenText()}
	ts.next()
	for ts.tok == '.' {
		ts.next()
		if ts.tok != scanner.Ident {
			return "", ts.unexpected()
		}
		parts = append(parts, ts.s.TokenText())
		ts.next()
	}
	return strings.Join(parts, "."), nil
}

func (ts *typeScanner) typ() (*model.TypeRef, error) {
	name, err := ts.name()
	if err != nil {
		return nil, err
	}
	t := &model.TypeRef{Kind: model.KindNamed, Name: name}
	if _, ok := poet.LookupPrimitive(name); ok {
		t.Kind = model.KindPrimitive
	}

	if ts.tok == '<' {
		if t.Kind == model.KindPrimitive {
			return nil, errors.Mark(errors.Newf("primitive %s cannot have type arguments", name), ErrTypeExpression)
		}
		ts.next()
		t.Kind = model.KindParameterized
		for {
			arg, err := ts.arg()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
			if ts.tok != ',' {
				break
			}
			ts.next()
		}
		if err := ts.expect('>'); err != nil {
			return nil, err
		}
	}

	for ts.tok == '[' {
		ts.next()
		if err := ts.expect(']'); err != nil {
			return nil, err
		}
		t = &model.TypeRef{Kind: model.KindArray, Elem: t}
	}
	return t, nil
}

func (ts *typeScanner) arg() (*model.TypeRef, error) {
	if ts.tok != '?' {
		return ts.typ()
	}
	ts.next()
	w := &model.TypeRef{Kind: model.KindWildcard}
	if ts.tok != scanner.Ident {
		return w, nil
	}
	switch ts.s.TokenText() {
	case "extends":
	case "super":
		w.Super = true
	default:
		return nil, ts.unexpected()
	}
	ts.next()
	bound, err := ts.typ()
	if err != nil {
		return nil, err
	}
	w.Bound = bound
	return w, nil
}
