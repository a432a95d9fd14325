package poet

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrConstruction marks every failure raised while a lazy node is
	// materialized, including builder validation errors.
	ErrConstruction = errors.New("poet: node construction failed")
	// ErrInvalidName marks identifiers that are not legal Java names.
	ErrInvalidName = errors.New("poet: invalid name")
	// ErrInvalidType marks type references that cannot appear where used.
	ErrInvalidType = errors.New("poet: invalid type")
	// ErrFormat marks malformed format strings and argument mismatches.
	ErrFormat = errors.New("poet: invalid format")
	// ErrControlFlow marks unbalanced control-flow, statement or indentation
	// markers in a code block.
	ErrControlFlow = errors.New("poet: unbalanced code block")
)

func markf(sentinel error, format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), sentinel)
}

func combine(errs error, err error) error {
	return errors.CombineErrors(errs, err)
}
