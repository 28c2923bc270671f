package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/eclatdining/eclat-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on a MongoDB database. A Mongo built from a nil
// database represents a store with no live connection.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Available() bool {
	return m != nil && m.db != nil
}

func (m *Mongo) CreateDocument(ctx context.Context, collection string, payload any) (string, error) {
	if !m.Available() {
		metrics.StoreErrors.WithLabelValues("unavailable").Inc()
		return "", ErrStoreUnavailable
	}
	doc, err := ToDocument(payload, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteFailure, collection, err)
	}
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("insert").Inc()
		return "", fmt.Errorf("%w: insert into %s: %w", ErrWriteFailure, collection, err)
	}
	metrics.DocumentsWritten.WithLabelValues(collection).Inc()
	return Reference(res.InsertedID), nil
}

func (m *Mongo) CreateDocuments(ctx context.Context, collection string, payloads []any) (int, error) {
	if !m.Available() {
		metrics.StoreErrors.WithLabelValues("unavailable").Inc()
		return 0, ErrStoreUnavailable
	}
	if len(payloads) == 0 {
		return 0, nil
	}
	docs := make([]any, 0, len(payloads))
	for _, p := range payloads {
		doc, err := ToDocument(p, time.Now().UTC())
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrWriteFailure, collection, err)
		}
		docs = append(docs, doc)
	}
	res, err := m.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("insert").Inc()
		return 0, fmt.Errorf("%w: insert into %s: %w", ErrWriteFailure, collection, err)
	}
	metrics.DocumentsWritten.WithLabelValues(collection).Add(float64(len(res.InsertedIDs)))
	return len(res.InsertedIDs), nil
}

func (m *Mongo) GetDocuments(ctx context.Context, collection string, filter Filter, limit int) []Document {
	docs, err := m.FindDocuments(ctx, collection, filter, limit)
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		logger.Debugf("store: read from %s skipped, database not available", collection)
		return []Document{}
	case err != nil:
		logger.Warnf("store: %v", err)
		return []Document{}
	}
	return docs
}

func (m *Mongo) FindDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if !m.Available() {
		return nil, ErrStoreUnavailable
	}
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}
	opts := options.Find().SetLimit(int64(NormalizeLimit(limit)))
	cur, err := m.db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("%w: find in %s: %w", ErrReadFailure, collection, err)
	}
	out := []Document{}
	if err := cur.All(ctx, &out); err != nil {
		metrics.StoreErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("%w: reading %s cursor: %w", ErrReadFailure, collection, err)
	}
	metrics.DocumentsRead.WithLabelValues(collection).Add(float64(len(out)))
	return out, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	if !m.Available() {
		return ErrStoreUnavailable
	}
	return m.db.Client().Ping(ctx, nil)
}

func (m *Mongo) Collections(ctx context.Context) ([]string, error) {
	if !m.Available() {
		return nil, ErrStoreUnavailable
	}
	return m.db.ListCollectionNames(ctx, bson.D{})
}

func (m *Mongo) DatabaseName() string {
	if !m.Available() {
		return ""
	}
	return m.db.Name()
}
