package parser

import (
	"strings"

	"github.com/cmmoran/javagen/internal/model"
)

// shouldOmitDocument reports whether a document is skipped entirely, either
// because its top-level type is marked omit or because its name is listed in
// Options.ExcludeTypes.
func shouldOmitDocument(doc *model.Document, opts *Options) bool {
	if doc == nil || doc.Type == nil {
		return false
	}
	if doc.Type.Omit {
		return true
	}
	for _, ex := range opts.ExcludeTypes {
		if strings.EqualFold(ex, doc.Type.Name) {
			return true
		}
	}
	return false
}

// keepFields drops fields marked omit.
func keepFields(fields []*model.Field) []*model.Field {
	out := make([]*model.Field, 0, len(fields))
	for _, f := range fields {
		if f == nil || f.Omit {
			continue
		}
		out = append(out, f)
	}
	return out
}

// keepMethods drops methods marked omit.
func keepMethods(methods []*model.Method) []*model.Method {
	out := make([]*model.Method, 0, len(methods))
	for _, m := range methods {
		if m == nil || m.Omit {
			continue
		}
		out = append(out, m)
	}
	return out
}

// keepTypes drops nested types marked omit.
func keepTypes(types []*model.Type) []*model.Type {
	out := make([]*model.Type, 0, len(types))
	for _, t := range types {
		if t == nil || t.Omit {
			continue
		}
		out = append(out, t)
	}
	return out
}
