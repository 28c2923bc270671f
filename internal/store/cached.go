package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/eclatdining/eclat-api/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

// Cached wraps a Store and keeps GetDocuments results for the configured
// collections in Redis. Every write to a cached collection bumps a per
// collection version that is part of the cache key, so a write is visible to
// the next read without deleting keys. Redis failures fall through to the
// wrapped store.
type Cached struct {
	Store
	client *redis.Client
	ttl    time.Duration
	prefix string
	cached map[string]bool
}

type cachedPage struct {
	Docs []Document `bson:"docs"`
}

func NewCached(inner Store, client *redis.Client, ttl time.Duration, collections ...string) *Cached {
	c := &Cached{
		Store:  inner,
		client: client,
		ttl:    ttl,
		prefix: "content:",
		cached: make(map[string]bool, len(collections)),
	}
	for _, name := range collections {
		c.cached[name] = true
	}
	return c
}

func (c *Cached) versionKey(collection string) string {
	return c.prefix + collection + ":version"
}

// entryKey hashes the bson encoding of the sorted filter and the limit, so
// distinct filters never share an entry.
func (c *Cached) entryKey(collection string, version int64, filter Filter, limit int) (string, error) {
	fields := make([]string, 0, len(filter))
	for k := range filter {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	query := make(bson.D, 0, len(fields))
	for _, k := range fields {
		query = append(query, bson.E{Key: k, Value: filter[k]})
	}
	raw, err := bson.Marshal(bson.D{{Key: "filter", Value: query}, {Key: "limit", Value: NormalizeLimit(limit)}})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s%s:v%d:%s", c.prefix, collection, version, hex.EncodeToString(sum[:])), nil
}

func (c *Cached) GetDocuments(ctx context.Context, collection string, filter Filter, limit int) []Document {
	docs, err := c.FindDocuments(ctx, collection, filter, limit)
	if err != nil {
		if !errors.Is(err, ErrStoreUnavailable) {
			logger.Warnf("store: %v", err)
		}
		return []Document{}
	}
	return docs
}

// FindDocuments answers from Redis when it can. Only successful reads of the
// wrapped store are written back.
func (c *Cached) FindDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if !c.cached[collection] || c.client == nil {
		return Find(ctx, c.Store, collection, filter, limit)
	}
	version, err := c.client.Get(ctx, c.versionKey(collection)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Warnf("cache: version lookup for %s failed: %v", collection, err)
		return Find(ctx, c.Store, collection, filter, limit)
	}
	key, err := c.entryKey(collection, version, filter, limit)
	if err != nil {
		logger.Warnf("cache: key for %s failed: %v", collection, err)
		return Find(ctx, c.Store, collection, filter, limit)
	}

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var page cachedPage
		if err := bson.Unmarshal(raw, &page); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			if page.Docs == nil {
				page.Docs = []Document{}
			}
			return page.Docs, nil
		}
		logger.Warnf("cache: dropping unreadable entry %s", key)
	} else if !errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Warnf("cache: get %s failed: %v", key, err)
		return Find(ctx, c.Store, collection, filter, limit)
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()
	docs, err := Find(ctx, c.Store, collection, filter, limit)
	if err != nil {
		return nil, err
	}
	raw, err := bson.Marshal(cachedPage{Docs: docs})
	if err != nil {
		logger.Warnf("cache: encode %s failed: %v", key, err)
		return docs, nil
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warnf("cache: set %s failed: %v", key, err)
	}
	return docs, nil
}

func (c *Cached) CreateDocument(ctx context.Context, collection string, payload any) (string, error) {
	ref, err := c.Store.CreateDocument(ctx, collection, payload)
	if err == nil {
		c.invalidate(ctx, collection)
	}
	return ref, err
}

func (c *Cached) CreateDocuments(ctx context.Context, collection string, payloads []any) (int, error) {
	n, err := c.Store.CreateDocuments(ctx, collection, payloads)
	if err == nil && n > 0 {
		c.invalidate(ctx, collection)
	}
	return n, err
}

func (c *Cached) invalidate(ctx context.Context, collection string) {
	if !c.cached[collection] || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, c.versionKey(collection)).Err(); err != nil {
		logger.Warnf("cache: bump version of %s failed: %v", collection, err)
	}
}
