// Package store holds the generic, collection-agnostic data access used by
// every handler. Entities are persisted as plain bson documents keyed only by
// collection name.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// IDField is the store-internal identifier present on every record.
	IDField        = "_id"
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"

	DefaultLimit = 1000
	MaxLimit     = 1000
)

var (
	ErrStoreUnavailable = errors.New("database not available")
	ErrWriteFailure     = errors.New("write failed")
	ErrReadFailure      = errors.New("read failed")
)

// Document is a stored record as a field mapping.
type Document = bson.M

// Filter is an exact-match field/value mapping. An empty filter matches
// everything.
type Filter map[string]any

// Store is the document store adapter.
type Store interface {
	// CreateDocument inserts payload (an entity struct or a field map) into
	// collection and returns the new record's reference.
	CreateDocument(ctx context.Context, collection string, payload any) (string, error)
	// CreateDocuments inserts every payload in one call and returns how many
	// were written.
	CreateDocuments(ctx context.Context, collection string, payloads []any) (int, error)
	// GetDocuments never fails: an unavailable store or a failing query
	// yields an empty result.
	GetDocuments(ctx context.Context, collection string, filter Filter, limit int) []Document
	Available() bool
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
	DatabaseName() string
}

// Finder is implemented by stores that can report why a read failed.
type Finder interface {
	FindDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
}

// Find reads like GetDocuments but returns ErrStoreUnavailable or
// ErrReadFailure instead of an empty result when s can tell them apart.
func Find(ctx context.Context, s Store, collection string, filter Filter, limit int) ([]Document, error) {
	if !s.Available() {
		return nil, ErrStoreUnavailable
	}
	if f, ok := s.(Finder); ok {
		return f.FindDocuments(ctx, collection, filter, limit)
	}
	return s.GetDocuments(ctx, collection, filter, limit), nil
}

// ToDocument serializes payload to a field mapping and stamps created_at and
// updated_at when they are missing.
func ToDocument(payload any, now time.Time) (Document, error) {
	var doc Document
	switch p := payload.(type) {
	case nil:
		return nil, fmt.Errorf("nil payload")
	case Document:
		doc = copyFields(p)
	case map[string]any:
		doc = copyFields(p)
	default:
		raw, err := bson.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}
	if _, ok := doc[CreatedAtField]; !ok {
		doc[CreatedAtField] = now
	}
	if _, ok := doc[UpdatedAtField]; !ok {
		doc[UpdatedAtField] = now
	}
	return doc, nil
}

func copyFields(m map[string]any) Document {
	doc := make(Document, len(m)+2)
	for k, v := range m {
		doc[k] = v
	}
	return doc
}

// StripID removes the store identifier from doc and returns it.
func StripID(doc Document) Document {
	delete(doc, IDField)
	return doc
}

// NormalizeLimit maps a caller limit onto (0, MaxLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Reference renders an inserted identifier as the opaque string handed back
// to callers.
func Reference(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	}
	return fmt.Sprint(id)
}

// Timestamp reads a stored timestamp field. ok is false when the field is
// missing or not a time.
func Timestamp(doc Document, field string) (time.Time, bool) {
	switch v := doc[field].(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0), true
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortNewestFirst orders docs by created_at descending. Records without a
// usable created_at are treated as the oldest possible and end up last.
func SortNewestFirst(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		ti, _ := Timestamp(docs[i], CreatedAtField)
		tj, _ := Timestamp(docs[j], CreatedAtField)
		return ti.After(tj)
	})
}
