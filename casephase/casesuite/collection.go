package casesuite

import (
	"context"
	"sort"
	"sync"

	"github.com/JeremiahSanders/testingutils-xunit-extras/casephase"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// ContextFactory builds the shared context for a named group
type ContextFactory[C any] func(name string) (C, error)

// Collection holds one shared context per group name. Each context is built on first use
// and reused by every later caller asking for the same name, across goroutines.
type Collection[C any] struct {
	factory ContextFactory[C]

	mu      sync.Mutex
	entries map[string]*entry[C]
}

type entry[C any] struct {
	once     sync.Once
	value    C
	err      error
	disposed bool // guarded by Collection.mu
}

// NewCollection creates a collection that builds contexts with factory
func NewCollection[C any](factory ContextFactory[C]) *Collection[C] {
	return &Collection[C]{
		factory: factory,
		entries: make(map[string]*entry[C]),
	}
}

// Get returns the context for name, building it if this is the first request.
// A failed build is remembered and returned to every caller for that name.
func (c *Collection[C]) Get(name string) (C, error) {
	c.mu.Lock()
	e, ok := c.entries[name]
	if !ok {
		e = &entry[C]{}
		c.entries[name] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		if c.factory == nil {
			e.err = errors.New("collection context factory is required")
			return
		}
		e.value, e.err = c.factory(name)
		if e.err != nil {
			e.err = errors.Wrapf(e.err, "failed to build shared context for collection %s", name)
		}
	})
	return e.value, e.err
}

// MustGet returns the context for name and panics if it could not be built
func (c *Collection[C]) MustGet(name string) C {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Names returns the group names requested so far, sorted
func (c *Collection[C]) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispose cleans up every built context that implements casephase.Cleaner, in reverse
// name order. All contexts are attempted; their errors are combined. Each context is
// cleaned up at most once, so a repeated Dispose only reaches contexts built since.
func (c *Collection[C]) Dispose(ctx context.Context) error {
	names := c.Names()
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var combined error
	for _, name := range names {
		c.mu.Lock()
		e := c.entries[name]
		claimed := !e.disposed
		e.disposed = true
		c.mu.Unlock()
		if !claimed {
			continue
		}

		// Waits for an in-flight build; an entry not yet built stays unbuilt
		e.once.Do(func() { e.err = errors.Newf("collection %s disposed before use", name) })
		value, err := e.value, e.err
		if err != nil {
			continue
		}
		cleaner, ok := any(value).(casephase.Cleaner)
		if !ok {
			continue
		}
		if err := casephase.Dispose(ctx, cleaner); err != nil {
			combined = errors.CombineErrors(combined, errors.Wrapf(err, "collection %s", name))
		}
	}
	return combined
}
