package casephase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type databaseContext struct {
	ConnectionString string
}

type seededFixture struct {
	*Fixture[*databaseContext]
	seeded  string
	cleaned bool
}

func (f *seededFixture) Arrange(context.Context) error {
	f.seeded = f.Context().ConnectionString
	return nil
}

func (f *seededFixture) Cleanup(context.Context) error {
	f.cleaned = true
	return nil
}

func TestFixtureContext(t *testing.T) {
	shared := &databaseContext{ConnectionString: "memory"}
	f := NewFixture(shared)
	assert.Same(t, shared, f.Context())

	var _ Arrangement = f
}

func TestFixtureOverrides(t *testing.T) {
	shared := &databaseContext{ConnectionString: "memory"}
	f := &seededFixture{Fixture: NewFixture(shared)}

	ctx := context.Background()
	require.NoError(t, Initialize(ctx, f))
	assert.Equal(t, "memory", f.seeded)

	require.NoError(t, Dispose(ctx, f))
	assert.True(t, f.cleaned)
}

func TestFixtureValueContext(t *testing.T) {
	f := NewFixture(databaseContext{ConnectionString: "a"})
	got := f.Context()
	got.ConnectionString = "b"
	assert.Equal(t, "a", f.Context().ConnectionString)
}
