package poet

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// lazy is the pending state of a declaration node. build snapshots and
// validates the builder; it runs at most once, on first use, and its outcome
// is memoized. Failures are fatal to the caller: they are logged and returned
// marked with ErrConstruction on every access.
type lazy[T any] struct {
	once  sync.Once
	done  atomic.Bool
	kind  string
	name  string
	build func() (T, error)
	value T
	err   error
}

func newLazy[T any](kind, name string, build func() (T, error)) *lazy[T] {
	return &lazy[T]{kind: kind, name: name, build: build}
}

func (l *lazy[T]) get(cfg *Config) (T, error) {
	log := cfg.orDefault().Logger
	if l.done.Load() {
		if cfg != nil && cfg.Trace {
			log.Log(context.Background(), LevelTrace, "node already constructed",
				"kind", l.kind, "name", l.name, "failed", l.err != nil)
		}
		return l.value, l.err
	}
	l.once.Do(func() {
		log.Debug("constructing node", "kind", l.kind, "name", l.name)
		l.value, l.err = l.build()
		if l.err != nil {
			l.err = errors.Mark(errors.Wrapf(l.err, "construct %s %s", l.kind, l.name), ErrConstruction)
			log.Error("node construction failed", "kind", l.kind, "name", l.name, "error", l.err)
		}
		// drop the builder reference; later mutations must not be observable
		l.build = nil
		l.done.Store(true)
	})
	return l.value, l.err
}

// constructed reports whether the node has left the pending state.
func (l *lazy[T]) constructed() bool {
	return l.done.Load()
}
