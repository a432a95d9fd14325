package parser

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/javagen/internal/model"
	"github.com/cmmoran/javagen/pkg/poet"
)

// typeScope resolves names at one point of a document. Lookup order: type
// variables in scope, types declared in the document, then externalClass.
type typeScope struct {
	pkg      string
	declared map[string]poet.ClassName
	vars     map[string]bool
}

// withVars returns a scope that also sees tvs.
func (s *typeScope) withVars(tvs []model.TypeVariable) *typeScope {
	if len(tvs) == 0 {
		return s
	}
	vars := make(map[string]bool, len(s.vars)+len(tvs))
	for k := range s.vars {
		vars[k] = true
	}
	for _, tv := range tvs {
		vars[tv.Name] = true
	}
	return &typeScope{pkg: s.pkg, declared: s.declared, vars: vars}
}

func (s *typeScope) resolve(expr string) (poet.TypeName, error) {
	ref, err := parseType(expr)
	if err != nil {
		return nil, err
	}
	return s.toTypeName(ref)
}

// resolveClass resolves expr and insists on a class.
func (s *typeScope) resolveClass(expr string) (poet.ClassName, error) {
	t, err := s.resolve(expr)
	if err != nil {
		return poet.ClassName{}, err
	}
	c, ok := t.(poet.ClassName)
	if !ok {
		return poet.ClassName{}, errors.Mark(errors.Newf("%q is not a class", expr), ErrTypeExpression)
	}
	return c, nil
}

func (s *typeScope) toTypeName(t *model.TypeRef) (poet.TypeName, error) {
	switch t.Kind {
	case model.KindPrimitive:
		p, _ := poet.LookupPrimitive(t.Name)
		return p, nil
	case model.KindNamed:
		return s.named(t.Name)
	case model.KindArray:
		elem, err := s.toTypeName(t.Elem)
		if err != nil {
			return nil, err
		}
		return poet.ArrayOf(elem), nil
	case model.KindParameterized:
		raw, err := s.named(t.Name)
		if err != nil {
			return nil, err
		}
		rc, ok := raw.(poet.ClassName)
		if !ok {
			return nil, errors.Mark(errors.Newf("type variable %s cannot take type arguments", t.Name), ErrTypeExpression)
		}
		args := make([]poet.TypeName, len(t.Args))
		for i, a := range t.Args {
			if args[i], err = s.toTypeName(a); err != nil {
				return nil, err
			}
		}
		return poet.ParameterizedOf(rc, args...), nil
	case model.KindWildcard:
		if t.Bound == nil {
			return poet.Wildcard(), nil
		}
		bound, err := s.toTypeName(t.Bound)
		if err != nil {
			return nil, err
		}
		if t.Super {
			return poet.SupertypeOf(bound), nil
		}
		return poet.SubtypeOf(bound), nil
	}
	return nil, errors.Mark(errors.Newf("unexpected type %s", t), ErrTypeExpression)
}

func (s *typeScope) named(name string) (poet.TypeName, error) {
	first, rest, dotted := strings.Cut(name, ".")
	if !dotted && s.vars[name] {
		return poet.TypeVariable(name), nil
	}
	if c, ok := s.declared[first]; ok {
		if !dotted {
			return c, nil
		}
		for _, seg := range strings.Split(rest, ".") {
			if !poet.IsIdentifier(seg) || poet.IsKeyword(seg) {
				return nil, errors.Mark(errors.Newf("invalid nested name %q in %s", seg, name), ErrTypeExpression)
			}
			c = c.NestedClass(seg)
		}
		return c, nil
	}
	return externalClass(s.pkg, name)
}

// -----------------------------------------------------------------------------
// Code
// -----------------------------------------------------------------------------

func (s *typeScope) code(c *model.Code) (poet.CodeBlock, error) {
	if c == nil {
		return poet.CodeBlock{}, nil
	}
	args, err := s.args(c.Args)
	if err != nil {
		return poet.CodeBlock{}, err
	}
	return poet.CodeOf(c.Format, args...)
}

// args converts document arguments into values for the format placeholders.
func (s *typeScope) args(in []model.Arg) ([]any, error) {
	out := make([]any, len(in))
	for i, a := range in {
		if len(a) != 1 {
			return nil, errors.Mark(errors.Newf("argument %d must have exactly one of T, S, N, L", i+1), ErrDocument)
		}
		for k, v := range a {
			switch k {
			case "T":
				expr, ok := v.(string)
				if !ok {
					return nil, errors.Mark(errors.Newf("argument %d: T wants a type expression, got %T", i+1, v), ErrDocument)
				}
				t, err := s.resolve(expr)
				if err != nil {
					return nil, errors.Wrapf(err, "argument %d", i+1)
				}
				out[i] = t
			case "S":
				if v != nil {
					if _, ok := v.(string); !ok {
						return nil, errors.Mark(errors.Newf("argument %d: S wants a string or null, got %T", i+1, v), ErrDocument)
					}
				}
				out[i] = v
			case "N":
				name, ok := v.(string)
				if !ok {
					return nil, errors.Mark(errors.Newf("argument %d: N wants a name, got %T", i+1, v), ErrDocument)
				}
				out[i] = name
			case "L":
				out[i] = v
			default:
				return nil, errors.Mark(errors.Newf("argument %d: unknown kind %q", i+1, k), ErrDocument)
			}
		}
	}
	return out, nil
}

// steps appends a code body to b.
func (s *typeScope) steps(b *poet.CodeBlockBuilder, steps []model.Step) error {
	for i, st := range steps {
		if n := stepKeys(st); n != 1 {
			return errors.Mark(errors.Newf("step %d sets %d of statement, add, comment, begin, next, end, end_with", i+1, n), ErrDocument)
		}
		args, err := s.args(st.Args)
		if err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
		switch {
		case st.Statement != "":
			b.AddStatement(st.Statement, args...)
		case st.Add != "":
			b.Add(st.Add, args...)
		case st.Comment != "":
			b.AddComment(st.Comment, args...)
		case st.Begin != "":
			b.BeginControlFlow(st.Begin, args...)
		case st.Next != "":
			b.NextControlFlow(st.Next, args...)
		case st.EndWith != "":
			b.EndControlFlowWith(st.EndWith, args...)
		case st.End:
			if len(args) > 0 {
				return errors.Mark(errors.Newf("step %d: end takes no arguments", i+1), ErrDocument)
			}
			b.EndControlFlow()
		}
	}
	return nil
}

func stepKeys(st model.Step) int {
	n := 0
	for _, set := range []bool{st.Statement != "", st.Add != "", st.Comment != "", st.Begin != "", st.Next != "", st.End, st.EndWith != ""} {
		if set {
			n++
		}
	}
	return n
}

func (s *typeScope) block(steps []model.Step) (poet.CodeBlock, error) {
	b := poet.NewCodeBlock()
	if err := s.steps(b, steps); err != nil {
		return poet.CodeBlock{}, err
	}
	return b.Build()
}

func (s *typeScope) annotation(a model.Annotation) (*poet.AnnotationSpec, error) {
	c, err := s.resolveClass(a.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "annotation %s", a.Type)
	}
	b := poet.NewAnnotationBuilder(c)
	for _, m := range a.Members {
		code, err := s.code(&m.Code)
		if err != nil {
			return nil, errors.Wrapf(err, "annotation %s member %s", a.Type, m.Name)
		}
		b.AddMemberCode(m.Name, code)
	}
	return b.Build(), nil
}

func (s *typeScope) typeVariables(tvs []model.TypeVariable) ([]poet.TypeVariableName, error) {
	out := make([]poet.TypeVariableName, 0, len(tvs))
	for _, tv := range tvs {
		bounds := make([]poet.TypeName, 0, len(tv.Bounds))
		for _, expr := range tv.Bounds {
			t, err := s.resolve(expr)
			if err != nil {
				return nil, errors.Wrapf(err, "bound of %s", tv.Name)
			}
			bounds = append(bounds, t)
		}
		out = append(out, poet.TypeVariable(tv.Name, bounds...))
	}
	return out, nil
}

func modifiers(names []string) (poet.Modifier, error) {
	var mods poet.Modifier
	for _, n := range names {
		m, ok := poet.ParseModifier(strings.TrimSpace(n))
		if !ok {
			return 0, errors.Mark(errors.Newf("unknown modifier %q", n), ErrDocument)
		}
		mods |= m
	}
	return mods, nil
}
