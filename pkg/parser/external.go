package parser

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/javagen/pkg/poet"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrDocument          = errors.New("invalid document")
	ErrTypeExpression    = errors.New("invalid type expression")
	ErrUnknownType       = errors.New("unknown type")
)

// javaLang lists the java.lang types a document may name without a package.
var javaLang = map[string]bool{
	"AutoCloseable":                 true,
	"Boolean":                       true,
	"Byte":                          true,
	"CharSequence":                  true,
	"Character":                     true,
	"Class":                         true,
	"Cloneable":                     true,
	"Comparable":                    true,
	"Deprecated":                    true,
	"Double":                        true,
	"Enum":                          true,
	"Error":                         true,
	"Exception":                     true,
	"Float":                         true,
	"FunctionalInterface":           true,
	"IllegalArgumentException":      true,
	"IllegalStateException":         true,
	"IndexOutOfBoundsException":     true,
	"Integer":                       true,
	"Iterable":                      true,
	"Long":                          true,
	"Math":                          true,
	"NullPointerException":          true,
	"Number":                        true,
	"Object":                        true,
	"Override":                      true,
	"Record":                        true,
	"Runnable":                      true,
	"RuntimeException":              true,
	"SafeVarargs":                   true,
	"Short":                         true,
	"String":                        true,
	"StringBuilder":                 true,
	"SuppressWarnings":              true,
	"System":                        true,
	"Thread":                        true,
	"Throwable":                     true,
	"UnsupportedOperationException": true,
	"Void":                          true,
}

// externalClass resolves a name that no declaration in the document
// provides. Simple names are java.lang types when well known and members of
// pkg otherwise; dotted names are split by convention.
func externalClass(pkg, name string) (poet.ClassName, error) {
	if name == "" {
		return poet.ClassName{}, errors.Mark(errors.New("empty type name"), ErrUnknownType)
	}
	if !strings.Contains(name, ".") {
		if javaLang[name] {
			return poet.NewClassName("java.lang", name)
		}
		return poet.NewClassName(pkg, name)
	}
	c, err := poet.BestGuess(name)
	if err != nil {
		return poet.ClassName{}, errors.Mark(err, ErrUnknownType)
	}
	return c, nil
}

// collectionTypes are the raw types that get singular adders.
var collectionTypes = map[string]bool{
	"java.util.Collection": true,
	"java.util.List":       true,
	"java.util.Set":        true,
	"java.util.SortedSet":  true,
	"java.util.Queue":      true,
	"java.util.Deque":      true,
}
