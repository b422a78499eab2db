package llm

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// loader coordinates lazy, single-flight initialization of a backend handle.
// Concurrent first callers share one load; a failed load is not cached, so
// the next caller retries. After a successful load every call returns the
// same handle with no further synchronization.
type loader struct {
	load   func(ctx context.Context) (any, error)
	group  singleflight.Group
	mu     sync.RWMutex
	handle any
}

func newLoader(load func(ctx context.Context) (any, error)) *loader {
	return &loader{load: load}
}

func (l *loader) get(ctx context.Context) (any, error) {
	l.mu.RLock()
	h := l.handle
	l.mu.RUnlock()
	if h != nil {
		return h, nil
	}

	v, err, _ := l.group.Do("handle", func() (any, error) {
		l.mu.RLock()
		h := l.handle
		l.mu.RUnlock()
		if h != nil {
			return h, nil
		}
		// The load outlives any one caller: if the first caller gives up,
		// the others waiting on this flight still get the handle.
		h, err := l.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.handle = h
		l.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}
