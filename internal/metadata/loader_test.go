package metadata

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/graph-gophers/dataloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSource struct {
	mu      sync.Mutex
	batches [][]string
	source  BatchSource
	err     error
}

func (s *recordingSource) LoadClasses(ctx context.Context, classes []string) (map[string]*ClassMetadata, error) {
	s.mu.Lock()
	batch := append([]string(nil), classes...)
	sort.Strings(batch)
	s.batches = append(s.batches, batch)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.source.LoadClasses(ctx, classes)
}

func (s *recordingSource) calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.batches...)
}

func TestLoader_BatchesAndCaches(t *testing.T) {
	source := &recordingSource{source: NewRegistry(
		&ClassMetadata{Class: "Product"},
		&ClassMetadata{Class: "User"},
	)}
	loader := NewLoader(source, 10*time.Millisecond)
	ctx := context.Background()

	product := loader.Loader.Load(ctx, dataloader.StringKey("Product"))
	order := loader.Loader.Load(ctx, dataloader.StringKey("Order"))

	data, err := product()
	require.NoError(t, err)
	assert.Equal(t, "Product", data.(*ClassMetadata).Class)

	_, err = order()
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"Order", "Product"}}, source.calls())

	md, err := loader.ClassMetadata(ctx, "Product")
	require.NoError(t, err)
	require.NotNil(t, md)

	md, err = loader.ClassMetadata(ctx, "Order")
	require.NoError(t, err)
	assert.Nil(t, md)

	assert.Len(t, source.calls(), 1, "cached keys must not reach the source again")
}

func TestLoader_LoadMany(t *testing.T) {
	source := &recordingSource{source: NewRegistry(
		&ClassMetadata{Class: "Product"},
		&ClassMetadata{Class: "User"},
	)}
	loader := NewLoader(source, 10*time.Millisecond)
	ctx := context.Background()

	found, err := loader.LoadMany(ctx, []string{"User", "Order", "Product"})
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "User", found[0].Class)
	assert.Nil(t, found[1])
	assert.Equal(t, "Product", found[2].Class)

	md, err := loader.ClassMetadata(ctx, "User")
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, [][]string{{"Order", "Product", "User"}}, source.calls())
}

func TestLoader_PropagatesSourceErrors(t *testing.T) {
	boom := errors.New("catalog unavailable")
	loader := NewLoader(&recordingSource{err: boom}, time.Millisecond)

	_, err := loader.ClassMetadata(context.Background(), "Product")
	require.ErrorIs(t, err, boom)

	_, err = loader.LoadMany(context.Background(), []string{"Order", "User"})
	require.ErrorIs(t, err, boom)
}

func TestLoaderFromContext(t *testing.T) {
	assert.Nil(t, LoaderFromContext(context.Background()))

	loader := NewLoader(NewRegistry(), time.Millisecond)
	ctx := WithLoader(context.Background(), loader)
	assert.Same(t, loader, LoaderFromContext(ctx))
}
