package casesuite

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

type sharedDatabase struct {
	Name     string
	cleaned  bool
	cleanups int
}

func (d *sharedDatabase) Cleanup(context.Context) error {
	d.cleaned = true
	d.cleanups++
	if d.Name == "broken" {
		return errors.New("drop failed")
	}
	return nil
}

func TestCollectionOncePerName(t *testing.T) {
	var builds atomic.Int32
	c := NewCollection(func(name string) (*sharedDatabase, error) {
		builds.Add(1)
		return &sharedDatabase{Name: name}, nil
	})

	first, err := c.Get("orders")
	require.NoError(t, err)
	second, err := c.Get("orders")
	require.NoError(t, err)
	other := c.MustGet("billing")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, "orders", first.Name)
	assert.Equal(t, int32(2), builds.Load())
	assert.Equal(t, []string{"billing", "orders"}, c.Names())
}

func TestCollectionConcurrentGet(t *testing.T) {
	var builds atomic.Int32
	c := NewCollection(func(name string) (*sharedDatabase, error) {
		builds.Add(1)
		return &sharedDatabase{Name: name}, nil
	})

	const workers = 32
	results := make([]*sharedDatabase, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.MustGet("shared")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestCollectionFactoryError(t *testing.T) {
	var builds atomic.Int32
	c := NewCollection(func(name string) (int, error) {
		builds.Add(1)
		return 0, errors.New("connection refused")
	})

	_, err := c.Get("orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build shared context for collection orders")

	_, err = c.Get("orders")
	require.Error(t, err)
	assert.Equal(t, int32(1), builds.Load())
	assert.Panics(t, func() { c.MustGet("orders") })
}

func TestCollectionNilFactory(t *testing.T) {
	_, err := NewCollection[string](nil).Get("x")
	require.Error(t, err)
}

func TestCollectionDispose(t *testing.T) {
	c := NewCollection(func(name string) (*sharedDatabase, error) {
		return &sharedDatabase{Name: name}, nil
	})
	orders := c.MustGet("orders")
	broken := c.MustGet("broken")

	err := c.Dispose(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection broken")
	assert.True(t, orders.cleaned)
	assert.True(t, broken.cleaned)
}

func TestCollectionDisposeTwice(t *testing.T) {
	c := NewCollection(func(name string) (*sharedDatabase, error) {
		return &sharedDatabase{Name: name}, nil
	})
	orders := c.MustGet("orders")
	broken := c.MustGet("broken")

	require.Error(t, c.Dispose(context.Background()))
	assert.NoError(t, c.Dispose(context.Background()))
	assert.Equal(t, 1, orders.cleanups)
	assert.Equal(t, 1, broken.cleanups)

	// a context first requested after disposal is still cleaned up once
	billing := c.MustGet("billing")
	assert.NoError(t, c.Dispose(context.Background()))
	assert.Equal(t, 1, billing.cleanups)
	assert.Equal(t, 1, orders.cleanups)
}

func TestCollectionDisposeSkipsNonCleaners(t *testing.T) {
	c := NewCollection(func(name string) (string, error) { return name, nil })
	c.MustGet("plain")
	assert.NoError(t, c.Dispose(context.Background()))
}
