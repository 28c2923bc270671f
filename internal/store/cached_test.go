package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// countingStore records how often reads reach the wrapped store.
type countingStore struct {
	*Memory
	reads int
	err   error
}

func (c *countingStore) FindDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	c.reads++
	if c.err != nil {
		return nil, c.err
	}
	return c.Memory.FindDocuments(ctx, collection, filter, limit)
}

func newCached(t *testing.T) (*Cached, *countingStore, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	inner := &countingStore{Memory: NewMemory("test")}
	return NewCached(inner, client, time.Minute, "menuitem", "special"), inner, m
}

func TestCachedServesRepeatReadsFromRedis(t *testing.T) {
	ctx := context.Background()
	c, inner, _ := newCached(t)
	_, err := c.CreateDocument(ctx, "menuitem", dish{Name: "Risotto", Featured: true})
	require.NoError(t, err)

	first := c.GetDocuments(ctx, "menuitem", Filter{"featured": true}, 0)
	second := c.GetDocuments(ctx, "menuitem", Filter{"featured": true}, 0)
	require.Equal(t, 1, inner.reads)
	require.Len(t, second, 1)
	require.Equal(t, first[0]["name"], second[0]["name"])
	require.Equal(t, first[0][CreatedAtField], second[0][CreatedAtField], "bson types survive the cache")

	// a different filter is a different entry
	c.GetDocuments(ctx, "menuitem", Filter{"featured": false}, 0)
	require.Equal(t, 2, inner.reads)
}

func TestCachedWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	c, inner, _ := newCached(t)
	require.Empty(t, c.GetDocuments(ctx, "menuitem", nil, 0))

	n, err := c.CreateDocuments(ctx, "menuitem", []any{dish{Name: "A"}, dish{Name: "B"}})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.Len(t, c.GetDocuments(ctx, "menuitem", nil, 0), 2)
	require.Equal(t, 2, inner.reads)
}

func TestCachedSkipsUncachedCollections(t *testing.T) {
	ctx := context.Background()
	c, inner, _ := newCached(t)
	c.GetDocuments(ctx, "reservation", nil, 100)
	c.GetDocuments(ctx, "reservation", nil, 100)
	require.Equal(t, 2, inner.reads)
}

func TestCachedFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	c, inner, m := newCached(t)
	_, err := c.CreateDocument(ctx, "special", map[string]any{"title": "Brunch", "active": true})
	require.NoError(t, err)
	m.Close()

	docs := c.GetDocuments(ctx, "special", Filter{"active": true}, 0)
	require.Len(t, docs, 1)
	require.Equal(t, 1, inner.reads)

	_, err = c.CreateDocument(ctx, "special", map[string]any{"title": "Late lunch"})
	require.NoError(t, err, "writes succeed even when the cache cannot be bumped")
}

func TestCachedDoesNotCacheUnavailableStore(t *testing.T) {
	ctx := context.Background()
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	c := NewCached(NewMongo(nil), client, time.Minute, "menuitem")

	require.Empty(t, c.GetDocuments(ctx, "menuitem", nil, 0))
	keys := m.Keys()
	require.Empty(t, keys)
}

func TestCachedKeepsLookalikeFiltersApart(t *testing.T) {
	ctx := context.Background()
	c, inner, _ := newCached(t)
	_, err := c.CreateDocument(ctx, "menuitem", map[string]any{"name": "Margherita", "category": "Pizzas", "featured": true})
	require.NoError(t, err)

	require.Empty(t, c.GetDocuments(ctx, "menuitem", Filter{"category": "Pizzas featured:true"}, 0))
	docs := c.GetDocuments(ctx, "menuitem", Filter{"category": "Pizzas", "featured": true}, 0)
	require.Len(t, docs, 1)
	require.Equal(t, "Margherita", docs[0]["name"])
	require.Equal(t, 2, inner.reads)

	// string and bool values of the same field are different entries
	require.Empty(t, c.GetDocuments(ctx, "menuitem", Filter{"featured": "true"}, 0))
	require.Len(t, c.GetDocuments(ctx, "menuitem", Filter{"featured": true}, 0), 1)
	require.Equal(t, 4, inner.reads)
}

func TestCachedDoesNotCacheFailedReads(t *testing.T) {
	ctx := context.Background()
	c, inner, m := newCached(t)
	_, err := inner.CreateDocument(ctx, "menuitem", map[string]any{"name": "Risotto"})
	require.NoError(t, err)

	inner.err = fmt.Errorf("%w: find in menuitem: connection refused", ErrReadFailure)
	require.Empty(t, c.GetDocuments(ctx, "menuitem", nil, 0))
	_, err = c.FindDocuments(ctx, "menuitem", nil, 0)
	require.ErrorIs(t, err, ErrReadFailure)
	require.Empty(t, m.Keys())

	inner.err = nil
	require.Len(t, c.GetDocuments(ctx, "menuitem", nil, 0), 1)
	require.Len(t, m.Keys(), 1)
}

func TestFindReportsFailures(t *testing.T) {
	ctx := context.Background()
	_, err := Find(ctx, NewMongo(nil), "menuitem", nil, 0)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	inner := &countingStore{Memory: NewMemory("test"), err: errors.New("boom")}
	_, err = Find(ctx, inner, "menuitem", nil, 0)
	require.EqualError(t, err, "boom")

	docs, err := Find(ctx, NewMemory("test"), "menuitem", nil, 0)
	require.NoError(t, err)
	require.NotNil(t, docs)
}
